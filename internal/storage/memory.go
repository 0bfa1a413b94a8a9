package storage

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"voxpop/backend/internal/common"
	"voxpop/backend/internal/models"
)

// Memory is an in-process Storage used by the tests and by DB-less dev runs.
// All methods are safe for concurrent use; each method holds the mutex for
// its full duration, matching the per-record atomicity the gorm service gets
// from PostgreSQL.
type Memory struct {
	mu sync.Mutex

	users      map[string]models.User
	businesses map[string]models.Business
	petitions  map[string]models.Petition
	signatures map[string]map[string]models.Signature // petitionID -> signerID
	responses  map[string]models.Response
	feedback   map[string]map[string]models.Feedback // responseID -> userID
	states     map[string]models.FeedbackState
	badges     map[string]map[string]models.Badge // ownerID -> name
	reputation map[string]int

	events []models.PetitionEvent
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:      make(map[string]models.User),
		businesses: make(map[string]models.Business),
		petitions:  make(map[string]models.Petition),
		signatures: make(map[string]map[string]models.Signature),
		responses:  make(map[string]models.Response),
		feedback:   make(map[string]map[string]models.Feedback),
		states:     make(map[string]models.FeedbackState),
		badges:     make(map[string]map[string]models.Badge),
		reputation: make(map[string]int),
	}
}

func (m *Memory) SaveUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	m.users[user.ID] = *user
	return nil
}

func (m *Memory) GetUserByID(id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &user, nil
}

func (m *Memory) GetUserByUsername(username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *Memory) DeleteUser(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

func (m *Memory) SaveBusiness(business *models.Business) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if business.ID == "" {
		business.ID = uuid.New().String()
	}
	if business.Token == "" {
		business.Token = uuid.New().String()
	}
	m.businesses[business.ID] = *business
	return nil
}

func (m *Memory) GetBusinessByID(id string) (*models.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	business, ok := m.businesses[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &business, nil
}

func (m *Memory) GetBusinessByToken(token string) (*models.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, business := range m.businesses {
		if business.Token == token {
			b := business
			return &b, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *Memory) ListBusinesses(nameFilter string) ([]models.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Business, 0, len(m.businesses))
	filter := strings.ToLower(nameFilter)
	for _, business := range m.businesses {
		if filter == "" || strings.Contains(strings.ToLower(business.Name), filter) {
			out = append(out, business)
		}
	}
	return out, nil
}

func (m *Memory) DeleteBusiness(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.businesses, id)
	return nil
}

func (m *Memory) SavePetition(petition *models.Petition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if petition.ID == "" {
		petition.ID = uuid.New().String()
	}
	m.petitions[petition.ID] = *petition
	return nil
}

func (m *Memory) GetPetitionByID(id string) (*models.Petition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	petition, ok := m.petitions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &petition, nil
}

func (m *Memory) ListPetitions(targetID, creator string) ([]models.Petition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Petition, 0)
	for _, petition := range m.petitions {
		if targetID != "" && petition.Target != targetID {
			continue
		}
		if creator != "" && petition.Creator != creator {
			continue
		}
		out = append(out, petition)
	}
	return out, nil
}

func (m *Memory) DeletePetition(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.petitions, id)
	return nil
}

func (m *Memory) MarkPetitionNotified(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	petition, ok := m.petitions[id]
	if !ok || petition.ThresholdNotified {
		return false, nil
	}
	petition.ThresholdNotified = true
	m.petitions[id] = petition
	return true, nil
}

func (m *Memory) SaveSignature(sig *models.Signature) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.signatures[sig.PetitionID]
	if !ok {
		set = make(map[string]models.Signature)
		m.signatures[sig.PetitionID] = set
	}
	if _, exists := set[sig.SignerID]; exists {
		return nil
	}
	set[sig.SignerID] = *sig
	return nil
}

func (m *Memory) DeleteSignature(petitionID, signerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if set, ok := m.signatures[petitionID]; ok {
		delete(set, signerID)
	}
	return nil
}

func (m *Memory) GetSignatures(petitionID string) ([]models.Signature, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Signature, 0, len(m.signatures[petitionID]))
	for _, sig := range m.signatures[petitionID] {
		out = append(out, sig)
	}
	return out, nil
}

func (m *Memory) CountSignatures(petitionID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.signatures[petitionID]), nil
}

func (m *Memory) HasSignature(petitionID, signerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.signatures[petitionID][signerID]
	return ok, nil
}

func (m *Memory) SaveResponse(response *models.Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if response.ID == "" {
		response.ID = uuid.New().String()
	}
	m.responses[response.ID] = *response
	return nil
}

func (m *Memory) GetResponseByID(id string) (*models.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	response, ok := m.responses[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &response, nil
}

func (m *Memory) GetResponseByConcern(petitionID string) (*models.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, response := range m.responses {
		if response.Concern == petitionID {
			r := response
			return &r, nil
		}
	}
	return nil, common.ErrNotFound
}

func (m *Memory) DeleteResponse(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.responses, id)
	return nil
}

func (m *Memory) SaveFeedback(fb *models.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.feedback[fb.ResponseID]
	if !ok {
		set = make(map[string]models.Feedback)
		m.feedback[fb.ResponseID] = set
	}
	set[fb.UserID] = *fb
	return nil
}

func (m *Memory) GetFeedback(responseID, userID string) (*models.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fb, ok := m.feedback[responseID][userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &fb, nil
}

func (m *Memory) ListFeedback(responseID string) ([]models.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Feedback, 0, len(m.feedback[responseID]))
	for _, fb := range m.feedback[responseID] {
		out = append(out, fb)
	}
	return out, nil
}

func (m *Memory) DeleteFeedback(responseID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if set, ok := m.feedback[responseID]; ok {
		delete(set, userID)
	}
	return nil
}

func (m *Memory) SaveFeedbackState(state *models.FeedbackState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.ResponseID] = *state
	return nil
}

func (m *Memory) GetFeedbackState(responseID string) (*models.FeedbackState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.states[responseID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &state, nil
}

func (m *Memory) SaveBadge(badge *models.Badge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.badges[badge.OwnerID]
	if !ok {
		set = make(map[string]models.Badge)
		m.badges[badge.OwnerID] = set
	}
	if _, exists := set[badge.Name]; exists {
		return nil
	}
	set[badge.Name] = *badge
	return nil
}

func (m *Memory) DeleteBadge(ownerID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if set, ok := m.badges[ownerID]; ok {
		delete(set, name)
	}
	return nil
}

func (m *Memory) GetBadges(ownerID string) ([]models.Badge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Badge, 0, len(m.badges[ownerID]))
	for _, badge := range m.badges[ownerID] {
		out = append(out, badge)
	}
	return out, nil
}

func (m *Memory) AdjustReputation(entityID string, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reputation[entityID] += delta
	return m.reputation[entityID], nil
}

func (m *Memory) GetReputation(entityID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reputation[entityID], nil
}

// PublishEvent records the event in-process so tests can inspect the stream.
func (m *Memory) PublishEvent(event models.PetitionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns a copy of every event published so far.
func (m *Memory) Events() []models.PetitionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.PetitionEvent, len(m.events))
	copy(out, m.events)
	return out
}
