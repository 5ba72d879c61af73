package enums

import "fmt"

// OutboxEventType maps to the event_type_enum in Postgres.
type OutboxEventType string

const (
	OutboxEventTypeRewardIssued   OutboxEventType = "reward.issued"
	OutboxEventTypeRewardRedeemed OutboxEventType = "reward.redeemed"
	OutboxEventTypeRewardCanceled OutboxEventType = "reward.canceled"
)

var validOutboxEventTypes = []OutboxEventType{
	OutboxEventTypeRewardIssued,
	OutboxEventTypeRewardRedeemed,
	OutboxEventTypeRewardCanceled,
}

// String implements fmt.Stringer.
func (t OutboxEventType) String() string {
	return string(t)
}

// IsValid reports whether the value matches a known outbox event type.
func (t OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox event type %q", value)
}

// OutboxAggregateType maps to the aggregate_type_enum in Postgres.
type OutboxAggregateType string

const (
	OutboxAggregateTypeUserReward OutboxAggregateType = "user_reward"
)

// IsValid reports whether the value matches a known aggregate type.
func (t OutboxAggregateType) IsValid() bool {
	return t == OutboxAggregateTypeUserReward
}

// String implements fmt.Stringer.
func (t OutboxAggregateType) String() string {
	return string(t)
}
