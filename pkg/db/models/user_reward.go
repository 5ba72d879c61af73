package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/popspothq/popspot-backend/pkg/enums"
)

// UserReward is an issued reward held by a user. Two unique indexes back the
// core guarantees: one reward per (user, mission set) and globally unique
// redemption codes.
type UserReward struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID              `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_user_rewards_user_mission_set"`
	MissionSetID   uuid.UUID              `gorm:"column:mission_set_id;type:uuid;not null;uniqueIndex:ux_user_rewards_user_mission_set"`
	RewardOptionID uuid.UUID              `gorm:"column:reward_option_id;type:uuid;not null;index"`
	Code           string                 `gorm:"column:code;not null;uniqueIndex:ux_user_rewards_code"`
	Status         enums.UserRewardStatus `gorm:"column:status;type:user_reward_status;not null;default:issued"`
	IssuedAt       time.Time              `gorm:"column:issued_at;autoCreateTime"`
	RedeemedAt     *time.Time             `gorm:"column:redeemed_at"`
	UpdatedAt      time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the GORM default.
func (UserReward) TableName() string {
	return "user_rewards"
}
