package models

import (
	"time"

	"github.com/google/uuid"
)

// MissionCompletion records that a user finished one mission. The unique index
// on (user_id, mission_id) makes completion idempotent.
type MissionCompletion struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_mission_completions_user_mission"`
	MissionID   uuid.UUID `gorm:"column:mission_id;type:uuid;not null;uniqueIndex:ux_mission_completions_user_mission"`
	CompletedAt time.Time `gorm:"column:completed_at;autoCreateTime"`
}

// TableName overrides the GORM default.
func (MissionCompletion) TableName() string {
	return "mission_completions"
}
