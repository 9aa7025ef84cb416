package enums

import "fmt"

// ContestStatus tracks the contest lifecycle.
type ContestStatus string

const (
	ContestStatusDraft       ContestStatus = "draft"
	ContestStatusActive      ContestStatus = "active"
	ContestStatusCompleted   ContestStatus = "completed"
	ContestStatusRejected    ContestStatus = "rejected"
	ContestStatusRequestEdit ContestStatus = "request_edit"
	ContestStatusCancelled   ContestStatus = "cancelled"
)

var validContestStatuses = []ContestStatus{
	ContestStatusDraft,
	ContestStatusActive,
	ContestStatusCompleted,
	ContestStatusRejected,
	ContestStatusRequestEdit,
	ContestStatusCancelled,
}

// String implements fmt.Stringer.
func (c ContestStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is known.
func (c ContestStatus) IsValid() bool {
	for _, candidate := range validContestStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further lifecycle transitions are allowed.
func (c ContestStatus) IsTerminal() bool {
	return c == ContestStatusRejected || c == ContestStatusCancelled
}

// ParseContestStatus converts raw input into a ContestStatus.
func ParseContestStatus(value string) (ContestStatus, error) {
	for _, candidate := range validContestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contest status %q", value)
}
