package business_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"voxpop/backend/internal/business"
	"voxpop/backend/internal/common"
	"voxpop/backend/internal/models"
	"voxpop/backend/internal/storage"
)

// mockNotifier is a hand-written testify mock for the notify.Notifier
// contract.
type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) ThresholdReached(b *models.Business, p *models.Petition, signers int) error {
	args := m.Called(b, p, signers)
	return args.Error(0)
}

func (m *mockNotifier) BusinessRegistered(b *models.Business) error {
	args := m.Called(b)
	return args.Error(0)
}

func newService(t *testing.T) (*business.Service, *mockNotifier, *storage.Memory) {
	t.Helper()
	store := storage.NewMemory()
	notifier := new(mockNotifier)
	return business.NewService(store, notifier), notifier, store
}

// TestRegister_IssuesTokenAndNotifies verifies registration assigns an id
// and access token and emails the token to the business.
func TestRegister_IssuesTokenAndNotifies(t *testing.T) {
	svc, notifier, _ := newService(t)
	notifier.On("BusinessRegistered", mock.AnythingOfType("*models.Business")).Return(nil)

	registered, err := svc.Register("Acme Bakery", "acme@example.com")

	require.NoError(t, err)
	assert.NotEmpty(t, registered.ID)
	assert.NotEmpty(t, registered.Token)
	notifier.AssertCalled(t, "BusinessRegistered", registered)
}

// TestRegister_SurvivesNotificationFailure verifies a failed registration
// email does not undo the registration.
func TestRegister_SurvivesNotificationFailure(t *testing.T) {
	svc, notifier, _ := newService(t)
	notifier.On("BusinessRegistered", mock.Anything).Return(assert.AnError)

	registered, err := svc.Register("Acme Bakery", "acme@example.com")

	require.NoError(t, err)
	got, err := svc.Get(registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Bakery", got.Name)
}

// TestAddUser_ByToken attaches staff via the access token and keeps the
// attach idempotent.
func TestAddUser_ByToken(t *testing.T) {
	svc, notifier, _ := newService(t)
	notifier.On("BusinessRegistered", mock.Anything).Return(nil)
	registered, err := svc.Register("Acme Bakery", "acme@example.com")
	require.NoError(t, err)

	attached, err := svc.AddUser("alice", registered.Token)
	require.NoError(t, err)
	assert.True(t, attached.HasUser("alice"))

	again, err := svc.AddUser("alice", registered.Token)
	require.NoError(t, err)
	assert.Len(t, again.Users, 1)
}

// TestAddUser_RejectsBadToken verifies an unknown token is an invalid-token
// error, not a generic miss.
func TestAddUser_RejectsBadToken(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.AddUser("alice", "no-such-token")

	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

// TestAddUser_ConcurrentAttachesAllLand races many attaches against one
// business; the membership mutations must not overwrite each other.
func TestAddUser_ConcurrentAttachesAllLand(t *testing.T) {
	svc, notifier, _ := newService(t)
	notifier.On("BusinessRegistered", mock.Anything).Return(nil)
	registered, err := svc.Register("Acme Bakery", "acme@example.com")
	require.NoError(t, err)

	const staff = 16
	var wg sync.WaitGroup
	for i := 0; i < staff; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := svc.AddUser(id, registered.Token)
			assert.NoError(t, err)
		}(fmt.Sprintf("user-%02d", i))
	}
	wg.Wait()

	got, err := svc.Get(registered.ID)
	require.NoError(t, err)
	assert.Len(t, got.Users, staff)
}

// TestRemoveUser_ByToken detaches staff; detaching an absent user is a
// no-op.
func TestRemoveUser_ByToken(t *testing.T) {
	svc, notifier, _ := newService(t)
	notifier.On("BusinessRegistered", mock.Anything).Return(nil)
	registered, err := svc.Register("Acme Bakery", "acme@example.com")
	require.NoError(t, err)
	_, err = svc.AddUser("alice", registered.Token)
	require.NoError(t, err)
	_, err = svc.AddUser("bob", registered.Token)
	require.NoError(t, err)

	detached, err := svc.RemoveUser("alice", registered.Token)
	require.NoError(t, err)
	assert.False(t, detached.HasUser("alice"))
	assert.True(t, detached.HasUser("bob"))

	detached, err = svc.RemoveUser("carol", registered.Token)
	require.NoError(t, err)
	assert.Len(t, detached.Users, 1)
}

// TestForUser lists only the businesses the user is attached to.
func TestForUser(t *testing.T) {
	svc, notifier, _ := newService(t)
	notifier.On("BusinessRegistered", mock.Anything).Return(nil)
	first, err := svc.Register("Acme Bakery", "acme@example.com")
	require.NoError(t, err)
	_, err = svc.Register("Other Diner", "other@example.com")
	require.NoError(t, err)
	_, err = svc.AddUser("alice", first.Token)
	require.NoError(t, err)

	mine, err := svc.ForUser("alice")

	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)
}

// TestList_NameFilter filters the directory by substring.
func TestList_NameFilter(t *testing.T) {
	svc, notifier, _ := newService(t)
	notifier.On("BusinessRegistered", mock.Anything).Return(nil)
	_, err := svc.Register("Acme Bakery", "acme@example.com")
	require.NoError(t, err)
	_, err = svc.Register("Other Diner", "other@example.com")
	require.NoError(t, err)

	found, err := svc.List("bakery")

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Acme Bakery", found[0].Name)
}
