package enums

import "fmt"

// ContestPayoutStatus guards a contest against double settlement.
type ContestPayoutStatus string

const (
	ContestPayoutStatusNone       ContestPayoutStatus = "none"
	ContestPayoutStatusProcessing ContestPayoutStatus = "processing"
	ContestPayoutStatusCompleted  ContestPayoutStatus = "completed"
)

var validContestPayoutStatuses = []ContestPayoutStatus{
	ContestPayoutStatusNone,
	ContestPayoutStatusProcessing,
	ContestPayoutStatusCompleted,
}

// String implements fmt.Stringer.
func (c ContestPayoutStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is known.
func (c ContestPayoutStatus) IsValid() bool {
	for _, candidate := range validContestPayoutStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseContestPayoutStatus converts raw input into a ContestPayoutStatus.
func ParseContestPayoutStatus(value string) (ContestPayoutStatus, error) {
	for _, candidate := range validContestPayoutStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contest payout status %q", value)
}
