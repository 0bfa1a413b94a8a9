// Package signature implements the signature ledger: one signature per
// (petition, signer) pair with a derived per-petition count.
package signature

import (
	"voxpop/backend/internal/models"
	"voxpop/backend/internal/storage"
)

// Ledger records and counts petition signatures. It never decides threshold
// crossing itself; the workflow orchestrator reads the count it returns and
// compares against the petition's threshold.
type Ledger struct {
	store storage.Storage
}

// NewLedger creates a signature ledger over the given storage.
func NewLedger(store storage.Storage) *Ledger {
	return &Ledger{store: store}
}

// Add records the signature and returns the post-insert total for the
// petition. Signing twice is a no-op, not an error, and never double-counts.
func (l *Ledger) Add(petitionID, signerID string) (int, error) {
	sig := &models.Signature{PetitionID: petitionID, SignerID: signerID}
	if err := l.store.SaveSignature(sig); err != nil {
		return 0, err
	}
	return l.store.CountSignatures(petitionID)
}

// Remove deletes the signature; removing an absent signature is a no-op.
func (l *Ledger) Remove(petitionID, signerID string) error {
	return l.store.DeleteSignature(petitionID, signerID)
}

// Signers returns the ids of everyone who signed the petition.
func (l *Ledger) Signers(petitionID string) ([]string, error) {
	sigs, err := l.store.GetSignatures(petitionID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(sigs))
	for _, sig := range sigs {
		ids = append(ids, sig.SignerID)
	}
	return ids, nil
}

// Count returns the number of signatures for the petition.
func (l *Ledger) Count(petitionID string) (int, error) {
	return l.store.CountSignatures(petitionID)
}

// IsSigning reports whether the user has signed the petition.
func (l *Ledger) IsSigning(petitionID, signerID string) (bool, error) {
	return l.store.HasSignature(petitionID, signerID)
}
