package models

import (
	"time"

	"github.com/google/uuid"
)

// MissionSet groups the missions of a single popup-store campaign. A user may
// hold at most one reward per mission set.
type MissionSet struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	Active      bool      `gorm:"column:active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the GORM default.
func (MissionSet) TableName() string {
	return "mission_sets"
}
