package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Business is a registered target of petitions. Token is the access secret
// mailed to the business on registration; presenting it proves the caller
// acts for the business.
type Business struct {
	ID    string `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"type:text;not null;index" json:"name"`
	Email string `gorm:"type:text;not null" json:"email"`
	Token string `gorm:"uniqueIndex;not null" json:"-"`
	// Users holds the ids of users attached to the business via its token.
	Users pq.StringArray `gorm:"type:text[]" json:"users"`
}

// BeforeCreate generates the business id and access token if unset.
func (b *Business) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.Token == "" {
		b.Token = uuid.New().String()
	}
	return
}

// HasUser reports whether the given user id is attached to the business.
func (b *Business) HasUser(userID string) bool {
	for _, id := range b.Users {
		if id == userID {
			return true
		}
	}
	return false
}
