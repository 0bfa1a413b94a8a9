package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a minimal directory record. Identity and session management live
// outside the core; the platform only needs username <-> id resolution.
type User struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
}

// BeforeCreate generates a new UUID for the user if the ID is not set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
