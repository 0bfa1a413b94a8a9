// Package badge keeps the set of badges a business has earned.
package badge

import (
	"voxpop/backend/internal/models"
	"voxpop/backend/internal/storage"
)

// Registry is the badge set store. Badges have set semantics: adding a held
// badge and removing an absent one are both no-ops.
type Registry struct {
	store storage.Storage
}

// NewRegistry creates a badge registry.
func NewRegistry(store storage.Storage) *Registry {
	return &Registry{store: store}
}

// Add grants the badge to the owner.
func (r *Registry) Add(ownerID, name string) error {
	return r.store.SaveBadge(&models.Badge{OwnerID: ownerID, Name: name})
}

// Remove revokes the badge from the owner.
func (r *Registry) Remove(ownerID, name string) error {
	return r.store.DeleteBadge(ownerID, name)
}

// List returns the owner's current badge set.
func (r *Registry) List(ownerID string) ([]models.Badge, error) {
	return r.store.GetBadges(ownerID)
}

// Has reports whether the owner holds the named badge.
func (r *Registry) Has(ownerID, name string) (bool, error) {
	badges, err := r.store.GetBadges(ownerID)
	if err != nil {
		return false, err
	}
	for _, b := range badges {
		if b.Name == name {
			return true, nil
		}
	}
	return false, nil
}
