package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Petition represents a formal request that a business change a practice.
// The signature threshold is fixed at creation and never changes afterwards.
type Petition struct {
	// ID is the unique identifier of the petition (UUID).
	ID string `gorm:"primaryKey" json:"id"`
	// Title is the short headline of the request.
	Title string `gorm:"type:text;not null" json:"title"`
	// Problem describes the practice being complained about.
	Problem string `gorm:"type:text;not null" json:"problem"`
	// Solution is the change the creator proposes.
	Solution string `gorm:"type:text;not null" json:"solution"`
	// Topic is the tag the petition is filed under; an accepted outcome
	// awards it to the target business as a badge name.
	Topic string `gorm:"type:text;not null;index" json:"topic"`
	// Target is the id of the business the petition is aimed at.
	Target string `gorm:"type:text;not null;index" json:"target"`
	// Creator is the username of the user who opened the petition.
	Creator string `gorm:"type:text;not null;index" json:"creator"`
	// Threshold is the number of signatures required for approval (>= 1).
	Threshold int `gorm:"not null" json:"threshold"`
	// ThresholdNotified marks that the one-time threshold notification has
	// already been claimed. Flipped at most once, via a conditional update.
	ThresholdNotified bool `gorm:"not null;default:false" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate generates a new UUID for the petition if none is set.
func (p *Petition) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}
