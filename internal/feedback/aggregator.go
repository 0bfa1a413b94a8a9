// Package feedback records per-user feedback on business responses and
// aggregates it into a running average and the three-state evaluation
// lifecycle.
package feedback

import (
	"fmt"

	"voxpop/backend/internal/common"
	"voxpop/backend/internal/models"
	"voxpop/backend/internal/storage"
)

// Aggregator manages feedback records and the per-response feedback state.
type Aggregator struct {
	store     storage.Storage
	ratingMin float64
	ratingMax float64
}

// NewAggregator creates an aggregator enforcing the given rating bounds.
func NewAggregator(store storage.Storage, ratingMin, ratingMax float64) *Aggregator {
	return &Aggregator{store: store, ratingMin: ratingMin, ratingMax: ratingMax}
}

// Create upserts the (response, user) feedback record. A rating outside the
// configured bounds fails with ErrInvalidRating. Re-submission from the same
// user overwrites the previous record.
func (a *Aggregator) Create(userID, responseID, comment string, rating float64, decision bool) error {
	if rating < a.ratingMin || rating > a.ratingMax {
		return fmt.Errorf("%w: %v not in [%v, %v]",
			common.ErrInvalidRating, rating, a.ratingMin, a.ratingMax)
	}
	return a.store.SaveFeedback(&models.Feedback{
		ResponseID: responseID,
		UserID:     userID,
		Comment:    comment,
		Rating:     rating,
		Decision:   decision,
	})
}

// All returns every feedback record for the response.
func (a *Aggregator) All(responseID string) ([]models.Feedback, error) {
	return a.store.ListFeedback(responseID)
}

// ForUser returns one user's feedback on the response, ErrNotFound if the
// user has not submitted any.
func (a *Aggregator) ForUser(userID, responseID string) (*models.Feedback, error) {
	return a.store.GetFeedback(responseID, userID)
}

// Count returns the number of distinct users who submitted feedback.
func (a *Aggregator) Count(responseID string) (int, error) {
	fbs, err := a.store.ListFeedback(responseID)
	if err != nil {
		return 0, err
	}
	return len(fbs), nil
}

// AverageRating returns the arithmetic mean of all current ratings. With
// zero records it fails with ErrNoFeedback; there is no silent zero.
func (a *Aggregator) AverageRating(responseID string) (float64, error) {
	fbs, err := a.store.ListFeedback(responseID)
	if err != nil {
		return 0, err
	}
	if len(fbs) == 0 {
		return 0, common.ErrNoFeedback
	}
	var sum float64
	for _, fb := range fbs {
		sum += fb.Rating
	}
	return sum / float64(len(fbs)), nil
}

// State returns the response's feedback state, ErrNotFound when the response
// never entered collection.
func (a *Aggregator) State(responseID string) (*models.FeedbackState, error) {
	return a.store.GetFeedbackState(responseID)
}

// UpdateState writes the evaluation outcome. pending keeps the state in
// collecting; otherwise accepted selects evaluated-accepted or
// evaluated-rejected. This is the only primitive that leaves the collecting
// state, and the orchestrator invokes it at most once per response.
func (a *Aggregator) UpdateState(responseID string, accepted, pending bool) error {
	state := models.StateCollecting
	if !pending {
		if accepted {
			state = models.StateAccepted
		} else {
			state = models.StateRejected
		}
	}
	return a.store.SaveFeedbackState(&models.FeedbackState{
		ResponseID: responseID,
		State:      state,
	})
}

// DeleteForUser removes one user's feedback. Dropping the count back below
// the award threshold never re-triggers finalization.
func (a *Aggregator) DeleteForUser(userID, responseID string) error {
	return a.store.DeleteFeedback(responseID, userID)
}
