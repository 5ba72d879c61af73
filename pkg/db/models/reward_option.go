package models

import (
	"time"

	"github.com/google/uuid"
)

// RewardOption is one prize tier of a mission set with a bounded stock.
// Issued only ever grows and never exceeds Total; rows are read under
// SELECT ... FOR UPDATE before Issued changes.
type RewardOption struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MissionSetID uuid.UUID `gorm:"column:mission_set_id;type:uuid;not null;index"`
	Name         string    `gorm:"column:name;not null"`
	Total        int       `gorm:"column:total;not null"`
	Issued       int       `gorm:"column:issued;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the GORM default.
func (RewardOption) TableName() string {
	return "reward_options"
}

// Remaining returns how many units are still claimable.
func (o RewardOption) Remaining() int {
	return o.Total - o.Issued
}

// SoldOut reports whether no stock is left.
func (o RewardOption) SoldOut() bool {
	return o.Issued >= o.Total
}
