package outbox

import (
	"time"

	"github.com/google/uuid"
)

// RewardIssuedPayload is emitted when a claim succeeds.
type RewardIssuedPayload struct {
	UserRewardID   uuid.UUID `json:"userRewardId"`
	UserID         uuid.UUID `json:"userId"`
	MissionSetID   uuid.UUID `json:"missionSetId"`
	RewardOptionID uuid.UUID `json:"rewardOptionId"`
	Code           string    `json:"code"`
	IssuedAt       time.Time `json:"issuedAt"`
}

// RewardRedeemedPayload is emitted when a code is redeemed at the counter.
type RewardRedeemedPayload struct {
	UserRewardID uuid.UUID `json:"userRewardId"`
	UserID       uuid.UUID `json:"userId"`
	Code         string    `json:"code"`
	RedeemedAt   time.Time `json:"redeemedAt"`
}

// RewardCanceledPayload is emitted when an operator voids an issued reward.
type RewardCanceledPayload struct {
	UserRewardID uuid.UUID `json:"userRewardId"`
	UserID       uuid.UUID `json:"userId"`
	Reason       string    `json:"reason,omitempty"`
	CanceledAt   time.Time `json:"canceledAt"`
}
