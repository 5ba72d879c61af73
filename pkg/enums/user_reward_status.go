package enums

import "fmt"

// UserRewardStatus maps to the user_reward_status enum in Postgres.
//
// State machine: issued -> redeemed (terminal) or issued -> canceled (terminal).
// No transition leaves redeemed or canceled.
type UserRewardStatus string

const (
	UserRewardStatusIssued   UserRewardStatus = "issued"
	UserRewardStatusRedeemed UserRewardStatus = "redeemed"
	UserRewardStatusCanceled UserRewardStatus = "canceled"
)

var validUserRewardStatuses = []UserRewardStatus{
	UserRewardStatusIssued,
	UserRewardStatusRedeemed,
	UserRewardStatusCanceled,
}

// String implements fmt.Stringer.
func (s UserRewardStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches the canonical user_reward_status enum.
func (s UserRewardStatus) IsValid() bool {
	for _, candidate := range validUserRewardStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func (s UserRewardStatus) IsTerminal() bool {
	return s == UserRewardStatusRedeemed || s == UserRewardStatusCanceled
}

// ParseUserRewardStatus converts raw input into UserRewardStatus.
func ParseUserRewardStatus(value string) (UserRewardStatus, error) {
	for _, candidate := range validUserRewardStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user reward status %q", value)
}
