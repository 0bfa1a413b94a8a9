package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResponseType is a closed enum of the kinds of reply a business can issue.
type ResponseType string

const (
	// ResponseFormal is the distinguished type: a formal commitment that
	// opens feedback collection on the response.
	ResponseFormal ResponseType = "formal"
	// ResponseInformal is a non-binding reply; no feedback is collected.
	ResponseInformal ResponseType = "informal"
	// ResponseRejection declines the petition outright.
	ResponseRejection ResponseType = "rejection"
)

// Valid reports whether t is one of the known response types.
func (t ResponseType) Valid() bool {
	switch t {
	case ResponseFormal, ResponseInformal, ResponseRejection:
		return true
	}
	return false
}

// Response is a business's reply to an approved petition. Concern is the
// petition it addresses; at most one response per concern is the expected
// steady state, enforced by the gate rather than the store.
type Response struct {
	ID        string       `gorm:"primaryKey" json:"id"`
	Concern   string       `gorm:"type:text;not null;index" json:"concern"`
	Content   string       `gorm:"type:text;not null" json:"content"`
	Type      ResponseType `gorm:"type:text;not null" json:"type"`
	CreatedAt time.Time    `json:"created_at"`
}

// BeforeCreate generates a new UUID for the response if none is set.
func (r *Response) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}
