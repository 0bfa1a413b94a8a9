package models

import "time"

// Signature is one user's endorsement of a petition. The composite primary
// key makes the (petition, signer) pair the identity, so a signer contributes
// at most one signature per petition and re-signing is a no-op.
type Signature struct {
	PetitionID string    `gorm:"primaryKey" json:"petition_id"`
	SignerID   string    `gorm:"primaryKey" json:"signer_id"`
	CreatedAt  time.Time `json:"created_at"`
}
