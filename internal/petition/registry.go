// Package petition owns petition records and their derived approval state.
package petition

import (
	"fmt"
	"strings"

	"voxpop/backend/internal/models"
	"voxpop/backend/internal/storage"
)

// Registry exposes petition creation, lookup, filtered listing, text search
// and the approval predicate.
type Registry struct {
	store            storage.Storage
	defaultThreshold int
}

// NewRegistry creates a petition registry. defaultThreshold is applied when
// a petition is created without an explicit threshold.
func NewRegistry(store storage.Storage, defaultThreshold int) *Registry {
	return &Registry{store: store, defaultThreshold: defaultThreshold}
}

// CreateInput carries the fields of a new petition. Threshold 0 means "use
// the configured default".
type CreateInput struct {
	Title     string
	Problem   string
	Solution  string
	Topic     string
	Target    string
	Creator   string
	Threshold int
}

// Create stores a new petition. The threshold is fixed here and never
// changes afterwards.
func (r *Registry) Create(in CreateInput) (*models.Petition, error) {
	threshold := in.Threshold
	if threshold == 0 {
		threshold = r.defaultThreshold
	}
	if threshold < 1 {
		return nil, fmt.Errorf("signature threshold must be >= 1, got %d", threshold)
	}
	petition := &models.Petition{
		Title:     in.Title,
		Problem:   in.Problem,
		Solution:  in.Solution,
		Topic:     in.Topic,
		Target:    in.Target,
		Creator:   in.Creator,
		Threshold: threshold,
	}
	if err := r.store.SavePetition(petition); err != nil {
		return nil, err
	}
	return petition, nil
}

// Get returns the petition or ErrNotFound.
func (r *Registry) Get(id string) (*models.Petition, error) {
	return r.store.GetPetitionByID(id)
}

// List returns petitions filtered by target business and/or creator
// username; empty filters match everything.
func (r *Registry) List(targetID, creator string) ([]models.Petition, error) {
	return r.store.ListPetitions(targetID, creator)
}

// Search returns petitions where every query word matches, case
// insensitively, somewhere in title, problem, solution or topic. An empty
// word list returns all petitions.
func (r *Registry) Search(words []string) ([]models.Petition, error) {
	petitions, err := r.store.ListPetitions("", "")
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return petitions, nil
	}
	out := make([]models.Petition, 0)
	for _, petition := range petitions {
		haystack := strings.ToLower(petition.Title + " " + petition.Problem +
			" " + petition.Solution + " " + petition.Topic)
		match := true
		for _, word := range words {
			if !strings.Contains(haystack, strings.ToLower(word)) {
				match = false
				break
			}
		}
		if match {
			out = append(out, petition)
		}
	}
	return out, nil
}

// Delete hard-deletes the petition. Signatures and responses are not
// cascaded; cleanup of orphans belongs to the administrative layer.
func (r *Registry) Delete(id string) error {
	return r.store.DeletePetition(id)
}

// ListByApproval returns the target business's petitions partitioned by the
// approval predicate: approved=true selects those at or past their
// threshold, approved=false the rest.
func (r *Registry) ListByApproval(targetID string, approved bool) ([]models.Petition, error) {
	petitions, err := r.store.ListPetitions(targetID, "")
	if err != nil {
		return nil, err
	}
	out := make([]models.Petition, 0)
	for _, petition := range petitions {
		count, err := r.store.CountSignatures(petition.ID)
		if err != nil {
			return nil, err
		}
		if (count >= petition.Threshold) == approved {
			out = append(out, petition)
		}
	}
	return out, nil
}

// IsApproved reports whether the petition's signature count has reached its
// threshold. The predicate is >=, so a count that jumps past the threshold
// still reads approved.
func (r *Registry) IsApproved(id string) (bool, error) {
	petition, err := r.store.GetPetitionByID(id)
	if err != nil {
		return false, err
	}
	count, err := r.store.CountSignatures(id)
	if err != nil {
		return false, err
	}
	return count >= petition.Threshold, nil
}
