// Package business is the business directory: registration with token
// issuance, token-based staff membership, and lookups consumed by the
// petition workflow.
package business

import (
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"voxpop/backend/internal/common"
	"voxpop/backend/internal/models"
	"voxpop/backend/internal/notify"
	"voxpop/backend/internal/storage"
)

// Service manages business records.
type Service struct {
	store    storage.Storage
	notifier notify.Notifier

	// membership serializes the read-modify-write of the Users array, so
	// concurrent attaches and detaches cannot overwrite each other.
	membership sync.Mutex
}

// NewService creates a business directory service.
func NewService(store storage.Storage, notifier notify.Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// Register creates a business and emails it the generated access token.
// The email is best-effort; a delivery failure does not undo registration.
func (s *Service) Register(name, email string) (*models.Business, error) {
	business := &models.Business{Name: name, Email: email}
	if err := s.store.SaveBusiness(business); err != nil {
		return nil, err
	}
	if err := s.notifier.BusinessRegistered(business); err != nil {
		log.WithError(err).WithField("business", business.ID).
			Warn("registration email not delivered")
	}
	return business, nil
}

// Get returns the business or ErrNotFound.
func (s *Service) Get(id string) (*models.Business, error) {
	return s.store.GetBusinessByID(id)
}

// List returns businesses whose name contains the filter; an empty filter
// returns all.
func (s *Service) List(nameFilter string) ([]models.Business, error) {
	return s.store.ListBusinesses(nameFilter)
}

// ForUser returns the businesses the user is attached to.
func (s *Service) ForUser(userID string) ([]models.Business, error) {
	all, err := s.store.ListBusinesses("")
	if err != nil {
		return nil, err
	}
	out := make([]models.Business, 0)
	for _, business := range all {
		if business.HasUser(userID) {
			out = append(out, business)
		}
	}
	return out, nil
}

// AddUser attaches a user to the business identified by its access token.
// Attaching an already-attached user is a no-op.
func (s *Service) AddUser(userID, token string) (*models.Business, error) {
	s.membership.Lock()
	defer s.membership.Unlock()
	business, err := s.byToken(token)
	if err != nil {
		return nil, err
	}
	if business.HasUser(userID) {
		return business, nil
	}
	business.Users = append(business.Users, userID)
	if err := s.store.SaveBusiness(business); err != nil {
		return nil, err
	}
	return business, nil
}

// RemoveUser detaches a user from the business identified by its token.
func (s *Service) RemoveUser(userID, token string) (*models.Business, error) {
	s.membership.Lock()
	defer s.membership.Unlock()
	business, err := s.byToken(token)
	if err != nil {
		return nil, err
	}
	kept := business.Users[:0]
	for _, id := range business.Users {
		if id != userID {
			kept = append(kept, id)
		}
	}
	business.Users = kept
	if err := s.store.SaveBusiness(business); err != nil {
		return nil, err
	}
	return business, nil
}

// Delete removes the business record.
func (s *Service) Delete(id string) error {
	return s.store.DeleteBusiness(id)
}

// byToken resolves a business by its access token; a miss is an
// ErrInvalidToken, not an ErrNotFound, so callers can distinguish a bad
// token from a missing record.
func (s *Service) byToken(token string) (*models.Business, error) {
	business, err := s.store.GetBusinessByToken(token)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return business, nil
}
