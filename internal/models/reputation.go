package models

import "time"

// Reputation is a business's cumulative integer score. One row per entity,
// mutated only by signed deltas; no floor or ceiling is imposed.
type Reputation struct {
	EntityID  string    `gorm:"primaryKey" json:"entity_id"`
	Score     int       `gorm:"not null;default:0" json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}
