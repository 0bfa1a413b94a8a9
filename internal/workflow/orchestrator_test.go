package workflow_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxpop/backend/internal/badge"
	"voxpop/backend/internal/common"
	"voxpop/backend/internal/feedback"
	"voxpop/backend/internal/models"
	"voxpop/backend/internal/petition"
	"voxpop/backend/internal/reputation"
	"voxpop/backend/internal/response"
	"voxpop/backend/internal/signature"
	"voxpop/backend/internal/storage"
	"voxpop/backend/internal/workflow"
)

// countingNotifier records every delivery so tests can assert on exactly-once
// dispatch.
type countingNotifier struct {
	mu          sync.Mutex
	threshold   int
	registered  int
	lastSigners int
}

func (n *countingNotifier) ThresholdReached(_ *models.Business, _ *models.Petition, signers int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.threshold++
	n.lastSigners = signers
	return nil
}

func (n *countingNotifier) BusinessRegistered(*models.Business) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.registered++
	return nil
}

func (n *countingNotifier) thresholdCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.threshold
}

type fixture struct {
	store    *storage.Memory
	registry *petition.Registry
	ledger   *signature.Ledger
	gate     *response.Gate
	agg      *feedback.Aggregator
	badges   *badge.Registry
	rep      *reputation.Ledger
	notifier *countingNotifier
	orch     *workflow.Orchestrator
	business *models.Business
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := storage.NewMemory()
	registry := petition.NewRegistry(store, 1)
	ledger := signature.NewLedger(store)
	gate := response.NewGate(store, registry)
	agg := feedback.NewAggregator(store, 1, 5)
	badges := badge.NewRegistry(store)
	rep := reputation.NewLedger(store)
	notifier := &countingNotifier{}
	orch := workflow.New(store, registry, ledger, gate, agg, badges, rep, notifier, workflow.Config{
		AwardThreshold: 3,
		MinimumRating:  3.0,
	})

	business := &models.Business{Name: "Acme Bakery", Email: "acme@example.com"}
	require.NoError(t, store.SaveBusiness(business))

	return &fixture{
		store: store, registry: registry, ledger: ledger, gate: gate,
		agg: agg, badges: badges, rep: rep, notifier: notifier,
		orch: orch, business: business,
	}
}

func (f *fixture) createPetition(t *testing.T, threshold int) *models.Petition {
	t.Helper()
	pet, err := f.registry.Create(petition.CreateInput{
		Title: "Gluten free options", Problem: "no safe menu items",
		Solution: "add a dedicated line", Topic: "gluten",
		Target: f.business.ID, Creator: "alice", Threshold: threshold,
	})
	require.NoError(t, err)
	return pet
}

func (f *fixture) eventsOfType(eventType string) []models.PetitionEvent {
	var out []models.PetitionEvent
	for _, e := range f.store.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// TestSign_RequiresMatchingActor verifies a caller cannot sign on behalf of
// another user.
func TestSign_RequiresMatchingActor(t *testing.T) {
	f := newFixture(t)
	pet := f.createPetition(t, 2)

	_, err := f.orch.Sign("mallory", pet.ID, "alice")

	assert.ErrorIs(t, err, common.ErrUnauthorized)
	count, err := f.ledger.Count(pet.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

// TestSign_DuplicateIsIdempotent verifies repeated signs by the same user
// keep the count at one and never re-dispatch the notification.
func TestSign_DuplicateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	pet := f.createPetition(t, 1)

	count, err := f.orch.Sign("alice", pet.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = f.orch.Sign("alice", pet.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, f.notifier.thresholdCount())
}

// TestSign_NotifiesExactlyOnceAcrossThreshold walks signatures past the
// threshold and checks exactly one notification, carrying the count at the
// moment the threshold was crossed.
func TestSign_NotifiesExactlyOnceAcrossThreshold(t *testing.T) {
	f := newFixture(t)
	pet := f.createPetition(t, 2)

	_, err := f.orch.Sign("alice", pet.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, f.notifier.thresholdCount(), "below threshold")

	_, err = f.orch.Sign("bob", pet.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, f.notifier.thresholdCount())
	assert.Equal(t, 2, f.notifier.lastSigners)

	_, err = f.orch.Sign("carol", pet.ID, "carol")
	require.NoError(t, err)
	assert.Equal(t, 1, f.notifier.thresholdCount(), "past threshold stays silent")
	assert.Len(t, f.eventsOfType(models.EventApproved), 1)
	assert.Len(t, f.eventsOfType(models.EventSigned), 3)
}

// TestSign_ConcurrentSignersNotifyOnce races many signers over a small
// threshold and checks the claim is won exactly once.
func TestSign_ConcurrentSignersNotifyOnce(t *testing.T) {
	f := newFixture(t)
	pet := f.createPetition(t, 5)

	const signers = 32
	var wg sync.WaitGroup
	for i := 0; i < signers; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.orch.Sign(id, pet.ID, id)
			assert.NoError(t, err)
		}(fmt.Sprintf("user-%02d", i))
	}
	wg.Wait()

	count, err := f.ledger.Count(pet.ID)
	require.NoError(t, err)
	assert.Equal(t, signers, count)
	assert.Equal(t, 1, f.notifier.thresholdCount())
	assert.Len(t, f.eventsOfType(models.EventApproved), 1)
}

// TestUnsign_NeverRevokesNotification verifies dropping back below the
// threshold keeps the claimed flag so re-signing cannot notify again.
func TestUnsign_NeverRevokesNotification(t *testing.T) {
	f := newFixture(t)
	pet := f.createPetition(t, 1)
	_, err := f.orch.Sign("alice", pet.ID, "alice")
	require.NoError(t, err)
	require.Equal(t, 1, f.notifier.thresholdCount())

	require.NoError(t, f.orch.Unsign("alice", pet.ID, "alice"))
	_, err = f.orch.Sign("alice", pet.ID, "alice")
	require.NoError(t, err)

	assert.Equal(t, 1, f.notifier.thresholdCount())
}

// TestEndToEnd_AcceptedEvaluation drives the full flow: two signers approve
// the petition, the business answers formally, three users rate {5, 4, 3},
// and finalization awards the topic badge plus one reputation point.
func TestEndToEnd_AcceptedEvaluation(t *testing.T) {
	// Arrange
	f := newFixture(t)
	pet := f.createPetition(t, 2)
	_, err := f.orch.Sign("alice", pet.ID, "alice")
	require.NoError(t, err)
	_, err = f.orch.Sign("bob", pet.ID, "bob")
	require.NoError(t, err)

	resp, err := f.orch.Respond(pet.ID, "we will add a gluten free line", models.ResponseFormal)
	require.NoError(t, err)

	// Act
	require.NoError(t, f.orch.SubmitFeedback("alice", "alice", resp.ID, "great", 5, true))
	require.NoError(t, f.orch.SubmitFeedback("bob", "bob", resp.ID, "good", 4, true))
	require.NoError(t, f.orch.SubmitFeedback("carol", "carol", resp.ID, "ok", 3, true))

	// Assert
	state, err := f.agg.State(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateAccepted, state.State)

	has, err := f.badges.Has(f.business.ID, pet.Topic)
	require.NoError(t, err)
	assert.True(t, has, "accepted evaluation awards the topic badge")

	score, err := f.rep.Get(f.business.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, score)

	evaluated := f.eventsOfType(models.EventEvaluated)
	require.Len(t, evaluated, 1)
	assert.Equal(t, string(models.StateAccepted), evaluated[0].Detail)
}

// TestEndToEnd_RejectedEvaluation verifies the low-average path: reputation
// drops by one and no badge is awarded.
func TestEndToEnd_RejectedEvaluation(t *testing.T) {
	f := newFixture(t)
	pet := f.createPetition(t, 1)
	_, err := f.orch.Sign("alice", pet.ID, "alice")
	require.NoError(t, err)
	resp, err := f.orch.Respond(pet.ID, "we looked into it", models.ResponseFormal)
	require.NoError(t, err)

	require.NoError(t, f.orch.SubmitFeedback("alice", "alice", resp.ID, "", 1, false))
	require.NoError(t, f.orch.SubmitFeedback("bob", "bob", resp.ID, "", 2, false))
	require.NoError(t, f.orch.SubmitFeedback("carol", "carol", resp.ID, "", 2, false))

	state, err := f.agg.State(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateRejected, state.State)

	has, err := f.badges.Has(f.business.ID, pet.Topic)
	require.NoError(t, err)
	assert.False(t, has)

	score, err := f.rep.Get(f.business.ID)
	require.NoError(t, err)
	assert.Equal(t, -1, score)
}

// TestSubmitFeedback_FinalizesExactlyOnce races submissions at and past the
// award threshold; the badge and reputation mutations must apply once.
func TestSubmitFeedback_FinalizesExactlyOnce(t *testing.T) {
	f := newFixture(t)
	pet := f.createPetition(t, 1)
	_, err := f.orch.Sign("alice", pet.ID, "alice")
	require.NoError(t, err)
	resp, err := f.orch.Respond(pet.ID, "on it", models.ResponseFormal)
	require.NoError(t, err)
	require.NoError(t, f.orch.SubmitFeedback("u-00", "u-00", resp.ID, "", 5, true))
	require.NoError(t, f.orch.SubmitFeedback("u-01", "u-01", resp.ID, "", 5, true))

	const raters = 16
	var wg sync.WaitGroup
	for i := 2; i < 2+raters; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			err := f.orch.SubmitFeedback(id, id, resp.ID, "", 5, true)
			assert.NoError(t, err)
		}(fmt.Sprintf("u-%02d", i))
	}
	wg.Wait()

	score, err := f.rep.Get(f.business.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, score, "reputation mutated exactly once")
	assert.Len(t, f.eventsOfType(models.EventEvaluated), 1)
}

// TestSubmitFeedback_InformalNeverFinalizes verifies feedback against a
// response outside the collection lifecycle accumulates without outcome.
func TestSubmitFeedback_InformalNeverFinalizes(t *testing.T) {
	f := newFixture(t)
	pet := f.createPetition(t, 1)
	_, err := f.orch.Sign("alice", pet.ID, "alice")
	require.NoError(t, err)
	resp, err := f.orch.Respond(pet.ID, "noted", models.ResponseInformal)
	require.NoError(t, err)

	require.NoError(t, f.orch.SubmitFeedback("alice", "alice", resp.ID, "", 5, true))
	require.NoError(t, f.orch.SubmitFeedback("bob", "bob", resp.ID, "", 5, true))
	require.NoError(t, f.orch.SubmitFeedback("carol", "carol", resp.ID, "", 5, true))

	_, err = f.agg.State(resp.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	score, err := f.rep.Get(f.business.ID)
	require.NoError(t, err)
	assert.Zero(t, score)
	assert.Empty(t, f.eventsOfType(models.EventEvaluated))
}

// TestRetractFeedback_NeverReopensEvaluation verifies a terminal state stays
// terminal when the count drops back below and crosses the threshold again.
func TestRetractFeedback_NeverReopensEvaluation(t *testing.T) {
	f := newFixture(t)
	pet := f.createPetition(t, 1)
	_, err := f.orch.Sign("alice", pet.ID, "alice")
	require.NoError(t, err)
	resp, err := f.orch.Respond(pet.ID, "on it", models.ResponseFormal)
	require.NoError(t, err)
	require.NoError(t, f.orch.SubmitFeedback("alice", "alice", resp.ID, "", 5, true))
	require.NoError(t, f.orch.SubmitFeedback("bob", "bob", resp.ID, "", 4, true))
	require.NoError(t, f.orch.SubmitFeedback("carol", "carol", resp.ID, "", 3, true))
	require.Equal(t, 1, mustScore(t, f))

	require.NoError(t, f.orch.RetractFeedback("carol", "carol", resp.ID))
	require.NoError(t, f.orch.SubmitFeedback("dave", "dave", resp.ID, "", 1, false))

	state, err := f.agg.State(resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateAccepted, state.State)
	assert.Equal(t, 1, mustScore(t, f), "no second mutation after re-crossing")
	assert.Len(t, f.eventsOfType(models.EventEvaluated), 1)
}

// TestRetractFeedback_RequiresMatchingActor mirrors the sign-side check.
func TestRetractFeedback_RequiresMatchingActor(t *testing.T) {
	f := newFixture(t)

	err := f.orch.RetractFeedback("mallory", "alice", "r1")

	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func mustScore(t *testing.T, f *fixture) int {
	t.Helper()
	score, err := f.rep.Get(f.business.ID)
	require.NoError(t, err)
	return score
}
