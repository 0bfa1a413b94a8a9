// Package notify delivers outbound notifications: registration and
// threshold-reached emails to businesses, with optional Telegram alerts to
// the ops chat. Delivery is fire-and-forget; the workflow never blocks on or
// rolls back for a failed notification.
package notify

import (
	log "github.com/sirupsen/logrus"

	"voxpop/backend/internal/models"
)

// Notifier is the outbound notification contract consumed by the workflow
// and the business directory.
type Notifier interface {
	// ThresholdReached tells the business its petition collected enough
	// signatures and may now be responded to.
	ThresholdReached(business *models.Business, petition *models.Petition, signers int) error
	// BusinessRegistered sends the access token to a newly registered
	// business.
	BusinessRegistered(business *models.Business) error
}

// Multi fans a notification out to several notifiers. Each failure is
// logged; the first one is returned so callers can record it.
type Multi []Notifier

func (m Multi) ThresholdReached(business *models.Business, petition *models.Petition, signers int) error {
	var first error
	for _, n := range m {
		if err := n.ThresholdReached(business, petition, signers); err != nil {
			log.WithError(err).WithField("business", business.ID).
				Warn("threshold notification failed")
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func (m Multi) BusinessRegistered(business *models.Business) error {
	var first error
	for _, n := range m {
		if err := n.BusinessRegistered(business); err != nil {
			log.WithError(err).WithField("business", business.ID).
				Warn("registration notification failed")
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// Nop discards every notification. Used when no channel is configured.
type Nop struct{}

func (Nop) ThresholdReached(*models.Business, *models.Petition, int) error { return nil }
func (Nop) BusinessRegistered(*models.Business) error                      { return nil }
