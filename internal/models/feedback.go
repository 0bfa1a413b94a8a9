package models

import "time"

// Feedback is one user's rating of a business response. The composite
// primary key keeps one record per (response, user); re-submission from the
// same user overwrites the record instead of adding a second one.
type Feedback struct {
	ResponseID string `gorm:"primaryKey" json:"response_id"`
	UserID     string `gorm:"primaryKey" json:"user_id"`
	// Comment is the free-text part of the feedback.
	Comment string `gorm:"type:text" json:"comment"`
	// Rating is the numeric score, bounded by the configured rating range.
	Rating float64 `gorm:"not null" json:"rating"`
	// Decision expresses whether the submitter believes the response
	// adequately resolves the petition.
	Decision  bool      `json:"decision"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EvaluationState is the lifecycle of a response's feedback collection.
type EvaluationState string

const (
	// StateCollecting means feedback is being gathered, no outcome yet.
	StateCollecting EvaluationState = "collecting"
	// StateAccepted means evaluated with average rating at or above the minimum.
	StateAccepted EvaluationState = "evaluated-accepted"
	// StateRejected means evaluated with average rating below the minimum.
	StateRejected EvaluationState = "evaluated-rejected"
)

// Terminal reports whether the state can no longer change.
func (s EvaluationState) Terminal() bool {
	return s == StateAccepted || s == StateRejected
}

// FeedbackState is the per-response record of the three-state machine.
// It is created in StateCollecting when a formal response is accepted by the
// gate and leaves that state exactly once.
type FeedbackState struct {
	ResponseID string          `gorm:"primaryKey" json:"response_id"`
	State      EvaluationState `gorm:"type:text;not null" json:"state"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
