package httpapi

import (
	"context"

	"sentiview/internal/lifecycle"
	"sentiview/internal/session"
)

// Controller is the per-session request lifecycle used by the handlers.
type Controller interface {
	SetInput(text string)
	Submit(ctx context.Context) bool
	SubmitAsync(ctx context.Context) (<-chan struct{}, bool)
	DismissError() bool
	Snapshot() lifecycle.Snapshot
}

// Service defines the methods required by the HTTP API layer.
type Service interface {
	// Session returns the controller for id, issuing a new id when id is
	// unknown. created reports whether the returned id is new.
	Session(id string) (sid string, c Controller, created bool)
	Ready() bool
}

// StoreService serves sessions from a session.Store.
type StoreService struct {
	Store    *session.Store
	Endpoint string
}

func (s *StoreService) Session(id string) (string, Controller, bool) {
	sid, c, created := s.Store.GetOrCreate(id)
	return sid, c, created
}

// Ready reports whether a classification endpoint is configured.
func (s *StoreService) Ready() bool { return s.Endpoint != "" }
