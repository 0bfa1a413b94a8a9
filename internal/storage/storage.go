// Package storage provides durable persistence for the petition platform.
// The Storage interface is what every component depends on; the gorm-backed
// Service implements it on PostgreSQL with redis for the event channel, and
// Memory implements it in-process for tests and DB-less runs.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"voxpop/backend/internal/common"
	"voxpop/backend/internal/models"
)

// EventChannel is the redis pub/sub channel petition lifecycle events go to.
const EventChannel = "voxpop:events"

type Storage interface {
	// Users
	SaveUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	DeleteUser(id string) error

	// Businesses
	SaveBusiness(business *models.Business) error
	GetBusinessByID(id string) (*models.Business, error)
	GetBusinessByToken(token string) (*models.Business, error)
	ListBusinesses(nameFilter string) ([]models.Business, error)
	DeleteBusiness(id string) error

	// Petitions
	SavePetition(petition *models.Petition) error
	GetPetitionByID(id string) (*models.Petition, error)
	ListPetitions(targetID, creator string) ([]models.Petition, error)
	DeletePetition(id string) error
	// MarkPetitionNotified claims the one-time threshold notification.
	// It returns true for exactly one caller per petition.
	MarkPetitionNotified(id string) (bool, error)

	// Signatures
	SaveSignature(sig *models.Signature) error // idempotent insert
	DeleteSignature(petitionID, signerID string) error
	GetSignatures(petitionID string) ([]models.Signature, error)
	CountSignatures(petitionID string) (int, error)
	HasSignature(petitionID, signerID string) (bool, error)

	// Responses
	SaveResponse(response *models.Response) error
	GetResponseByID(id string) (*models.Response, error)
	GetResponseByConcern(petitionID string) (*models.Response, error)
	DeleteResponse(id string) error

	// Feedback
	SaveFeedback(fb *models.Feedback) error // upsert per (response, user)
	GetFeedback(responseID, userID string) (*models.Feedback, error)
	ListFeedback(responseID string) ([]models.Feedback, error)
	DeleteFeedback(responseID, userID string) error

	// Feedback state
	SaveFeedbackState(state *models.FeedbackState) error
	GetFeedbackState(responseID string) (*models.FeedbackState, error)

	// Badges
	SaveBadge(badge *models.Badge) error // set add
	DeleteBadge(ownerID, name string) error
	GetBadges(ownerID string) ([]models.Badge, error)

	// Reputation
	AdjustReputation(entityID string, delta int) (int, error)
	GetReputation(entityID string) (int, error)

	// Events
	PublishEvent(event models.PetitionEvent) error
}

// Service implements Storage on PostgreSQL (gorm) and redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewService wires the gorm and redis handles. Redis may be nil (admin CLI);
// PublishEvent becomes a no-op then.
func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{DB: db, Redis: rdb, Ctx: context.Background()}
}

// wrap translates gorm errors into the common taxonomy.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.ErrNotFound
	}
	return fmt.Errorf("%w: %v", common.ErrStorage, err)
}

func (s *Service) SaveUser(user *models.User) error {
	return wrap(s.DB.Save(user).Error)
}

func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &user, nil
}

func (s *Service) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "username = ?", username).Error; err != nil {
		return nil, wrap(err)
	}
	return &user, nil
}

func (s *Service) DeleteUser(id string) error {
	return wrap(s.DB.Delete(&models.User{}, "id = ?", id).Error)
}

func (s *Service) SaveBusiness(business *models.Business) error {
	return wrap(s.DB.Save(business).Error)
}

func (s *Service) GetBusinessByID(id string) (*models.Business, error) {
	var business models.Business
	if err := s.DB.First(&business, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &business, nil
}

func (s *Service) GetBusinessByToken(token string) (*models.Business, error) {
	var business models.Business
	if err := s.DB.First(&business, "token = ?", token).Error; err != nil {
		return nil, wrap(err)
	}
	return &business, nil
}

func (s *Service) ListBusinesses(nameFilter string) ([]models.Business, error) {
	businesses := make([]models.Business, 0)
	q := s.DB
	if nameFilter != "" {
		q = q.Where("name ILIKE ?", "%"+nameFilter+"%")
	}
	if err := q.Find(&businesses).Error; err != nil {
		return nil, wrap(err)
	}
	return businesses, nil
}

func (s *Service) DeleteBusiness(id string) error {
	return wrap(s.DB.Delete(&models.Business{}, "id = ?", id).Error)
}

func (s *Service) SavePetition(petition *models.Petition) error {
	return wrap(s.DB.Save(petition).Error)
}

func (s *Service) GetPetitionByID(id string) (*models.Petition, error) {
	var petition models.Petition
	if err := s.DB.First(&petition, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &petition, nil
}

func (s *Service) ListPetitions(targetID, creator string) ([]models.Petition, error) {
	petitions := make([]models.Petition, 0)
	q := s.DB
	if targetID != "" {
		q = q.Where("target = ?", targetID)
	}
	if creator != "" {
		q = q.Where("creator = ?", creator)
	}
	if err := q.Find(&petitions).Error; err != nil {
		return nil, wrap(err)
	}
	return petitions, nil
}

func (s *Service) DeletePetition(id string) error {
	return wrap(s.DB.Delete(&models.Petition{}, "id = ?", id).Error)
}

// MarkPetitionNotified flips the notified flag with a conditional update, so
// only the first caller sees RowsAffected > 0.
func (s *Service) MarkPetitionNotified(id string) (bool, error) {
	res := s.DB.Model(&models.Petition{}).
		Where("id = ? AND threshold_notified = ?", id, false).
		Update("threshold_notified", true)
	if res.Error != nil {
		return false, wrap(res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SaveSignature inserts the signature, silently keeping the existing row if
// the (petition, signer) pair already signed.
func (s *Service) SaveSignature(sig *models.Signature) error {
	return wrap(s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(sig).Error)
}

func (s *Service) DeleteSignature(petitionID, signerID string) error {
	return wrap(s.DB.Delete(&models.Signature{},
		"petition_id = ? AND signer_id = ?", petitionID, signerID).Error)
}

func (s *Service) GetSignatures(petitionID string) ([]models.Signature, error) {
	sigs := make([]models.Signature, 0)
	if err := s.DB.Find(&sigs, "petition_id = ?", petitionID).Error; err != nil {
		return nil, wrap(err)
	}
	return sigs, nil
}

func (s *Service) CountSignatures(petitionID string) (int, error) {
	var count int64
	err := s.DB.Model(&models.Signature{}).
		Where("petition_id = ?", petitionID).Count(&count).Error
	if err != nil {
		return 0, wrap(err)
	}
	return int(count), nil
}

func (s *Service) HasSignature(petitionID, signerID string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.Signature{}).
		Where("petition_id = ? AND signer_id = ?", petitionID, signerID).
		Count(&count).Error
	if err != nil {
		return false, wrap(err)
	}
	return count > 0, nil
}

func (s *Service) SaveResponse(response *models.Response) error {
	return wrap(s.DB.Save(response).Error)
}

func (s *Service) GetResponseByID(id string) (*models.Response, error) {
	var response models.Response
	if err := s.DB.First(&response, "id = ?", id).Error; err != nil {
		return nil, wrap(err)
	}
	return &response, nil
}

func (s *Service) GetResponseByConcern(petitionID string) (*models.Response, error) {
	var response models.Response
	if err := s.DB.First(&response, "concern = ?", petitionID).Error; err != nil {
		return nil, wrap(err)
	}
	return &response, nil
}

func (s *Service) DeleteResponse(id string) error {
	return wrap(s.DB.Delete(&models.Response{}, "id = ?", id).Error)
}

// SaveFeedback upserts on the (response, user) composite key, so a second
// submission from the same user overwrites instead of duplicating.
func (s *Service) SaveFeedback(fb *models.Feedback) error {
	return wrap(s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "response_id"}, {Name: "user_id"}},
		UpdateAll: true,
	}).Create(fb).Error)
}

func (s *Service) GetFeedback(responseID, userID string) (*models.Feedback, error) {
	var fb models.Feedback
	err := s.DB.First(&fb, "response_id = ? AND user_id = ?", responseID, userID).Error
	if err != nil {
		return nil, wrap(err)
	}
	return &fb, nil
}

func (s *Service) ListFeedback(responseID string) ([]models.Feedback, error) {
	fbs := make([]models.Feedback, 0)
	if err := s.DB.Find(&fbs, "response_id = ?", responseID).Error; err != nil {
		return nil, wrap(err)
	}
	return fbs, nil
}

func (s *Service) DeleteFeedback(responseID, userID string) error {
	return wrap(s.DB.Delete(&models.Feedback{},
		"response_id = ? AND user_id = ?", responseID, userID).Error)
}

func (s *Service) SaveFeedbackState(state *models.FeedbackState) error {
	return wrap(s.DB.Save(state).Error)
}

func (s *Service) GetFeedbackState(responseID string) (*models.FeedbackState, error) {
	var state models.FeedbackState
	if err := s.DB.First(&state, "response_id = ?", responseID).Error; err != nil {
		return nil, wrap(err)
	}
	return &state, nil
}

// SaveBadge adds the badge, keeping the set semantics: inserting a badge the
// owner already holds changes nothing.
func (s *Service) SaveBadge(badge *models.Badge) error {
	return wrap(s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(badge).Error)
}

func (s *Service) DeleteBadge(ownerID, name string) error {
	return wrap(s.DB.Delete(&models.Badge{},
		"owner_id = ? AND name = ?", ownerID, name).Error)
}

func (s *Service) GetBadges(ownerID string) ([]models.Badge, error) {
	badges := make([]models.Badge, 0)
	if err := s.DB.Find(&badges, "owner_id = ?", ownerID).Error; err != nil {
		return nil, wrap(err)
	}
	return badges, nil
}

// AdjustReputation adds delta to the entity's score, creating a row seeded
// with the delta when none exists, and returns the new score.
func (s *Service) AdjustReputation(entityID string, delta int) (int, error) {
	err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "entity_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"score": gorm.Expr("reputations.score + ?", delta),
		}),
	}).Create(&models.Reputation{EntityID: entityID, Score: delta}).Error
	if err != nil {
		return 0, wrap(err)
	}
	return s.GetReputation(entityID)
}

// GetReputation returns the current score, 0 for entities never touched.
func (s *Service) GetReputation(entityID string) (int, error) {
	var rep models.Reputation
	err := s.DB.First(&rep, "entity_id = ?", entityID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, wrap(err)
	}
	return rep.Score, nil
}

// PublishEvent publishes the event on the redis pub/sub channel. A nil redis
// handle turns this into a no-op.
func (s *Service) PublishEvent(event models.PetitionEvent) error {
	if s.Redis == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, EventChannel, payload).Err()
}
