package lifecycle

import (
	"bytes"
	"encoding/json"
	"fmt"

	"sentiview/internal/classifier"
	"sentiview/pkg/types"
)

// Transform builds a PredictionSet from a raw service response: the echo key
// is dropped, every other entry must decode as a ModelPrediction, and labels
// go through the table. A shape mismatch is a RequestFailedError.
func Transform(raw types.RawResponse, labels LabelTable) (types.PredictionSet, error) {
	out := make(types.PredictionSet, len(raw))
	for name, msg := range raw {
		if name == types.EchoKey {
			continue
		}
		mp, err := decodeEntry(msg)
		if err != nil {
			return nil, classifier.Failed(classifier.ReasonDecode, fmt.Errorf("model %q: %w", name, err))
		}
		out[name] = types.PredictionEntry{
			Label:       name,
			Prediction:  labels.Display(mp.Prediction),
			Probability: mp.Probabilities,
		}
	}
	return out, nil
}

func decodeEntry(msg json.RawMessage) (types.ModelPrediction, error) {
	var mp types.ModelPrediction
	trimmed := bytes.TrimSpace(msg)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return mp, fmt.Errorf("entry is not an object")
	}
	// Pointer fields distinguish a missing key from a zero value.
	var probe struct {
		Prediction    *string  `json:"prediction"`
		Probabilities *float64 `json:"probabilities"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return mp, err
	}
	if probe.Prediction == nil {
		return mp, fmt.Errorf("missing prediction")
	}
	if probe.Probabilities == nil {
		return mp, fmt.Errorf("missing probabilities")
	}
	mp.Prediction = *probe.Prediction
	mp.Probabilities = *probe.Probabilities
	return mp, nil
}
