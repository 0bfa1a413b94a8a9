package models

// PetitionEvent is a lifecycle notification published on the event channel
// and fanned out to websocket subscribers.
type PetitionEvent struct {
	PetitionID string `json:"petition_id"`
	Type       string `json:"type"` // "signed", "approved", "responded", "evaluated"
	ActorID    string `json:"actor_id,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// Event type values.
const (
	EventSigned    = "signed"
	EventApproved  = "approved"
	EventResponded = "responded"
	EventEvaluated = "evaluated"
)
