package types

import (
	"encoding/json"
	"sort"
)

// EchoKey is the response field that repeats the submitted text. It is not a
// prediction and never appears in a PredictionSet.
const EchoKey = "text"

// PredictRequest is the body sent to the classification service.
type PredictRequest struct {
	// Text to classify.
	// example: I love this
	Text string `json:"text" example:"I love this"`
}

// ModelPrediction is one model entry exactly as the classification service
// returns it.
type ModelPrediction struct {
	// Categorical label (e.g., positive, negative, litigious, uncertainty).
	// example: positive
	Prediction string `json:"prediction" example:"positive"`
	// Score in the service's native range. Observed as a percentage but not
	// guaranteed.
	// example: 87.5
	Probabilities float64 `json:"probabilities" example:"87.5"`
}

// RawResponse is the undecoded service response keyed by model name. It
// still contains EchoKey.
type RawResponse map[string]json.RawMessage

// PredictionEntry is a display-ready prediction for one model.
type PredictionEntry struct {
	// Model name.
	// example: LSTM
	Label string `json:"label" example:"LSTM"`
	// Display label after translation.
	// example: positivo
	Prediction string `json:"prediction" example:"positivo"`
	// Raw score as returned by the service.
	// example: 87.5
	Probability float64 `json:"probability" example:"87.5"`
}

// PredictionSet maps model name to its prediction for one submitted text.
type PredictionSet map[string]PredictionEntry

// Sorted returns the entries ordered by model name.
func (s PredictionSet) Sorted() []PredictionEntry {
	out := make([]PredictionEntry, 0, len(s))
	for _, e := range s {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// StateResponse is returned by the /api state endpoints.
type StateResponse struct {
	// Lifecycle status: idle, loading, succeeded or failed.
	// example: succeeded
	Status string `json:"status" example:"succeeded"`
	// Current input text.
	Input string `json:"input"`
	// Predictions of the last successful request, ordered by model name.
	Predictions []PredictionEntry `json:"predictions,omitempty"`
	// Error message when status is failed.
	Error string `json:"error,omitempty"`
}

// InputRequest updates the input text of a session.
type InputRequest struct {
	// example: I love this
	Text string `json:"text" example:"I love this"`
}

// SubmitRequest optionally replaces the input text before submitting.
type SubmitRequest struct {
	Text *string `json:"text,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
