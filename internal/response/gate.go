// Package response implements the response gate: a business may only reply
// to a petition that has met its signature threshold, and only the first
// formal response opens feedback collection.
package response

import (
	"errors"
	"fmt"

	"voxpop/backend/internal/common"
	"voxpop/backend/internal/models"
	"voxpop/backend/internal/petition"
	"voxpop/backend/internal/storage"
)

// Gate creates and resolves business responses.
type Gate struct {
	store     storage.Storage
	petitions *petition.Registry
}

// NewGate creates a response gate over the given storage and registry.
func NewGate(store storage.Storage, petitions *petition.Registry) *Gate {
	return &Gate{store: store, petitions: petitions}
}

// Create stores a response to the concern petition. It fails with
// ErrNotApproved while the petition is below its signature threshold. When
// no response existed for the concern yet and the type is formal, the
// response enters the collecting feedback state; informal and rejection
// responses are stored without opening feedback collection.
func (g *Gate) Create(concernID, content string, rtype models.ResponseType) (*models.Response, error) {
	if !rtype.Valid() {
		return nil, fmt.Errorf("unknown response type %q", rtype)
	}
	approved, err := g.petitions.IsApproved(concernID)
	if err != nil {
		return nil, err
	}
	if !approved {
		return nil, common.ErrNotApproved
	}

	first := true
	if _, err := g.store.GetResponseByConcern(concernID); err == nil {
		first = false
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	response := &models.Response{Concern: concernID, Content: content, Type: rtype}
	if err := g.store.SaveResponse(response); err != nil {
		return nil, err
	}

	if first && rtype == models.ResponseFormal {
		state := &models.FeedbackState{
			ResponseID: response.ID,
			State:      models.StateCollecting,
		}
		if err := g.store.SaveFeedbackState(state); err != nil {
			return nil, err
		}
	}
	return response, nil
}

// Get returns the response or ErrNotFound.
func (g *Gate) Get(id string) (*models.Response, error) {
	return g.store.GetResponseByID(id)
}

// ByConcern returns the response addressing the petition, or ErrNotFound.
// Callers should treat the miss as "no response yet", a legitimate state.
func (g *Gate) ByConcern(petitionID string) (*models.Response, error) {
	return g.store.GetResponseByConcern(petitionID)
}

// Has reports whether the petition has a response. Absence is false, never
// an error.
func (g *Gate) Has(petitionID string) (bool, error) {
	_, err := g.store.GetResponseByConcern(petitionID)
	if errors.Is(err, common.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the response. Feedback records are not cascaded.
func (g *Gate) Delete(id string) error {
	return g.store.DeleteResponse(id)
}
