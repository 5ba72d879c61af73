package models

import (
	"time"

	"github.com/google/uuid"
)

// Mission is a single task inside a mission set. Completing every mission of a
// set makes the user eligible to claim that set's reward.
type Mission struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MissionSetID uuid.UUID `gorm:"column:mission_set_id;type:uuid;not null;index"`
	Title        string    `gorm:"column:title;not null"`
	SortOrder    int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the GORM default.
func (Mission) TableName() string {
	return "missions"
}
