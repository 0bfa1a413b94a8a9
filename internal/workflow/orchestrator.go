// Package workflow sequences the petition lifecycle: signature accounting
// with one-shot threshold notification, response gating, and feedback
// aggregation with an exactly-once evaluation that mutates the target
// business's badge set and reputation.
package workflow

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"voxpop/backend/internal/badge"
	"voxpop/backend/internal/common"
	"voxpop/backend/internal/feedback"
	"voxpop/backend/internal/models"
	"voxpop/backend/internal/notify"
	"voxpop/backend/internal/petition"
	"voxpop/backend/internal/reputation"
	"voxpop/backend/internal/response"
	"voxpop/backend/internal/signature"
	"voxpop/backend/internal/storage"
)

// Config carries the workflow constants. They are passed in at construction
// so tests can exercise boundary values.
type Config struct {
	// AwardThreshold is the feedback count that triggers evaluation.
	AwardThreshold int
	// MinimumRating is the average a response needs to be accepted.
	MinimumRating float64
}

// Orchestrator glues the components together and owns the two invariants the
// data components cannot protect alone: the threshold notification fires
// exactly once per petition, and feedback finalization runs exactly once per
// response.
type Orchestrator struct {
	store      storage.Storage
	petitions  *petition.Registry
	signatures *signature.Ledger
	responses  *response.Gate
	feedback   *feedback.Aggregator
	badges     *badge.Registry
	reputation *reputation.Ledger
	notifier   notify.Notifier
	cfg        Config

	petitionLocks *keyedMutex
	responseLocks *keyedMutex
}

// New wires the orchestrator.
func New(
	store storage.Storage,
	petitions *petition.Registry,
	signatures *signature.Ledger,
	responses *response.Gate,
	fb *feedback.Aggregator,
	badges *badge.Registry,
	rep *reputation.Ledger,
	notifier notify.Notifier,
	cfg Config,
) *Orchestrator {
	return &Orchestrator{
		store:         store,
		petitions:     petitions,
		signatures:    signatures,
		responses:     responses,
		feedback:      fb,
		badges:        badges,
		reputation:    rep,
		notifier:      notifier,
		cfg:           cfg,
		petitionLocks: newKeyedMutex(),
		responseLocks: newKeyedMutex(),
	}
}

// Sign records signerID's signature on the petition and returns the new
// count. The caller identity must match the claimed signer. When the count
// has reached the petition's threshold, the first signer to observe it
// claims the notified flag; only that claimer dispatches the notification,
// after the critical section is released.
func (o *Orchestrator) Sign(actorID, petitionID, signerID string) (int, error) {
	if actorID != signerID {
		return 0, common.ErrUnauthorized
	}

	unlock := o.petitionLocks.lock(petitionID)
	pet, err := o.petitions.Get(petitionID)
	if err != nil {
		unlock()
		return 0, err
	}
	count, err := o.signatures.Add(petitionID, signerID)
	if err != nil {
		unlock()
		return 0, err
	}
	claimed := false
	if count >= pet.Threshold {
		claimed, err = o.store.MarkPetitionNotified(petitionID)
		if err != nil {
			unlock()
			return count, err
		}
	}
	unlock()

	o.publish(models.PetitionEvent{
		PetitionID: petitionID, Type: models.EventSigned, ActorID: signerID,
	})
	if claimed {
		o.publish(models.PetitionEvent{
			PetitionID: petitionID, Type: models.EventApproved,
		})
		o.notifyThreshold(pet, count)
	}
	return count, nil
}

// Unsign removes signerID's signature; removing an absent one is a no-op.
// Approval and an already-claimed notification are never rolled back.
func (o *Orchestrator) Unsign(actorID, petitionID, signerID string) error {
	if actorID != signerID {
		return common.ErrUnauthorized
	}
	return o.signatures.Remove(petitionID, signerID)
}

// Respond stores a business response through the gate and announces it.
func (o *Orchestrator) Respond(petitionID, content string, rtype models.ResponseType) (*models.Response, error) {
	resp, err := o.responses.Create(petitionID, content, rtype)
	if err != nil {
		return nil, err
	}
	o.publish(models.PetitionEvent{
		PetitionID: petitionID, Type: models.EventResponded, Detail: string(rtype),
	})
	return resp, nil
}

// SubmitFeedback upserts the user's feedback on the response and, when the
// award threshold has been reached and the response is still collecting,
// finalizes the outcome exactly once.
func (o *Orchestrator) SubmitFeedback(actorID, userID, responseID, comment string, rating float64, decision bool) error {
	if actorID != userID {
		return common.ErrUnauthorized
	}
	resp, err := o.responses.Get(responseID)
	if err != nil {
		return err
	}
	if err := o.feedback.Create(userID, responseID, comment, rating, decision); err != nil {
		return err
	}

	unlock := o.responseLocks.lock(responseID)
	finalized, accepted, err := o.maybeFinalize(resp)
	unlock()
	if err != nil {
		return err
	}
	if finalized {
		detail := string(models.StateRejected)
		if accepted {
			detail = string(models.StateAccepted)
		}
		o.publish(models.PetitionEvent{
			PetitionID: resp.Concern, Type: models.EventEvaluated, Detail: detail,
		})
	}
	return nil
}

// RetractFeedback removes the user's feedback record. A count dropping back
// below the award threshold never reopens an evaluation.
func (o *Orchestrator) RetractFeedback(actorID, userID, responseID string) error {
	if actorID != userID {
		return common.ErrUnauthorized
	}
	return o.feedback.DeleteForUser(userID, responseID)
}

// maybeFinalize runs under the per-response lock. Only the caller that still
// observes the collecting state with the threshold reached performs the
// badge/reputation mutation; the state flip happens last so a crash
// mid-sequence leaves the trigger retryable.
func (o *Orchestrator) maybeFinalize(resp *models.Response) (finalized, accepted bool, err error) {
	state, err := o.feedback.State(resp.ID)
	if errors.Is(err, common.ErrNotFound) {
		// Response never entered collection (informal or rejection type).
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	if state.State != models.StateCollecting {
		return false, false, nil
	}

	count, err := o.feedback.Count(resp.ID)
	if err != nil {
		return false, false, err
	}
	if count < o.cfg.AwardThreshold {
		return false, false, nil
	}

	avg, err := o.feedback.AverageRating(resp.ID)
	if err != nil {
		return false, false, err
	}
	pet, err := o.petitions.Get(resp.Concern)
	if err != nil {
		return false, false, err
	}

	accepted = avg >= o.cfg.MinimumRating
	if accepted {
		if err := o.badges.Add(pet.Target, pet.Topic); err != nil {
			return false, false, err
		}
		if _, err := o.reputation.Update(pet.Target, 1); err != nil {
			return false, false, err
		}
	} else {
		if _, err := o.reputation.Update(pet.Target, -1); err != nil {
			return false, false, err
		}
	}
	if err := o.feedback.UpdateState(resp.ID, accepted, false); err != nil {
		return false, false, err
	}
	return true, accepted, nil
}

// notifyThreshold resolves the target business and dispatches the one-time
// threshold notification. Best effort: failures are logged, never rolled
// back into the signing flow.
func (o *Orchestrator) notifyThreshold(pet *models.Petition, signers int) {
	business, err := o.store.GetBusinessByID(pet.Target)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"petition": pet.ID, "business": pet.Target,
		}).Warn("threshold reached but target business not resolvable")
		return
	}
	if err := o.notifier.ThresholdReached(business, pet, signers); err != nil {
		log.WithError(err).WithField("petition", pet.ID).
			Warn("threshold notification not delivered")
	}
}

func (o *Orchestrator) publish(event models.PetitionEvent) {
	if err := o.store.PublishEvent(event); err != nil {
		log.WithError(err).WithField("petition", event.PetitionID).
			Warn("event publish failed")
	}
}
