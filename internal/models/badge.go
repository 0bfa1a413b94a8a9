package models

import "time"

// Badge is a named achievement held by a business. The composite primary key
// gives the badge set its set semantics: adding a held badge is a no-op.
type Badge struct {
	OwnerID   string    `gorm:"primaryKey" json:"owner_id"`
	Name      string    `gorm:"primaryKey" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
