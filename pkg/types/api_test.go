package types

import "testing"

func TestPredictionSetSorted(t *testing.T) {
	s := PredictionSet{
		"RandomForest":     {Label: "RandomForest", Prediction: "negativo", Probability: 40},
		"LSTM":             {Label: "LSTM", Prediction: "positivo", Probability: 87.5},
		"GradientBoosting": {Label: "GradientBoosting", Prediction: "incerto", Probability: 51},
	}
	got := s.Sorted()
	want := []string{"GradientBoosting", "LSTM", "RandomForest"}
	if len(got) != len(want) {
		t.Fatalf("len=%d", len(got))
	}
	for i := range want {
		if got[i].Label != want[i] {
			t.Fatalf("order %v, want %v", got, want)
		}
	}
}

func TestPredictionSetSorted_Empty(t *testing.T) {
	var s PredictionSet
	if got := s.Sorted(); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}
