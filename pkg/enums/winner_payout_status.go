package enums

import "fmt"

// WinnerPayoutStatus tracks a single winner's transfer attempt.
type WinnerPayoutStatus string

const (
	WinnerPayoutStatusPending   WinnerPayoutStatus = "pending"
	WinnerPayoutStatusCompleted WinnerPayoutStatus = "completed"
	WinnerPayoutStatusFailed    WinnerPayoutStatus = "failed"
)

var validWinnerPayoutStatuses = []WinnerPayoutStatus{
	WinnerPayoutStatusPending,
	WinnerPayoutStatusCompleted,
	WinnerPayoutStatusFailed,
}

// String implements fmt.Stringer.
func (w WinnerPayoutStatus) String() string {
	return string(w)
}

// IsValid reports whether the value is known.
func (w WinnerPayoutStatus) IsValid() bool {
	for _, candidate := range validWinnerPayoutStatuses {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWinnerPayoutStatus converts raw input into a WinnerPayoutStatus.
func ParseWinnerPayoutStatus(value string) (WinnerPayoutStatus, error) {
	for _, candidate := range validWinnerPayoutStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid winner payout status %q", value)
}
