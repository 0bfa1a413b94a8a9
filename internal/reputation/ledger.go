// Package reputation keeps one running integer score per business.
package reputation

import "voxpop/backend/internal/storage"

// Ledger mutates and reads reputation scores. Scores change only through
// signed deltas; no floor or ceiling is imposed.
type Ledger struct {
	store storage.Storage
}

// NewLedger creates a reputation ledger.
func NewLedger(store storage.Storage) *Ledger {
	return &Ledger{store: store}
}

// Update adds delta to the entity's score, creating a zero-initialized
// record first when none exists, and returns the new score.
func (l *Ledger) Update(entityID string, delta int) (int, error) {
	return l.store.AdjustReputation(entityID, delta)
}

// Get returns the current score, 0 for entities never touched.
func (l *Ledger) Get(entityID string) (int, error) {
	return l.store.GetReputation(entityID)
}
