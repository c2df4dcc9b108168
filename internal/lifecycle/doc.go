// Package lifecycle drives one classification request at a time and turns
// the raw service response into a display-ready PredictionSet. It is
// structured into small files by concern:
//
//   - controller.go: Controller type, SetInput/Submit/DismissError/Snapshot.
//   - status.go: Status enum and its string form.
//   - labels.go: LabelTable and the default pt-BR display labels.
//   - transform.go: raw response to PredictionSet (echo key filtering).
//   - events.go: transition events and publishers.
//
// State machine:
//
//	Idle      --Submit(non-empty)--> Loading
//	Loading   --success-->           Succeeded
//	Loading   --failure-->           Failed
//	Failed    --DismissError-->      Idle
//	Succeeded --SetInput-->          Idle
//
// Succeeded and Failed may also Submit again once new text has been typed.
// Submit is ignored while Loading, so at most one request is in flight.
package lifecycle
