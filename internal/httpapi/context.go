package httpapi

import (
	"context"
	"net/http"
)

// serverBaseCtx is canceled on shutdown. Background until SetBaseContext.
var serverBaseCtx = context.Background()

// SetBaseContext sets the process-level context that bounds classifier calls.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// requestContext ends when either the client goes away or the server stops.
func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return joinContexts(serverBaseCtx, r.Context())
}

// backgroundContext is used for submissions that outlive their request.
func backgroundContext() context.Context {
	return serverBaseCtx
}

// joinContexts returns a context that is canceled when either a or b is done.
// Calling cancel releases the watcher goroutine.
func joinContexts(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-a.Done():
		case <-b.Done():
		case <-ctx.Done():
		}
		cancel()
	}()
	return ctx, cancel
}
