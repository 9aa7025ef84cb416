package enums

import "fmt"

// NotificationType categorizes in-app notifications.
type NotificationType string

const (
	NotificationTypeApplicationApproved NotificationType = "application_approved"
	NotificationTypeApplicationRejected NotificationType = "application_rejected"
	NotificationTypeWinnerSelected      NotificationType = "winner_selected"
	NotificationTypePayoutCompleted     NotificationType = "payout_completed"
	NotificationTypePayoutFailed        NotificationType = "payout_failed"
	NotificationTypeContestCompleted    NotificationType = "contest_completed"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeApplicationApproved,
	NotificationTypeApplicationRejected,
	NotificationTypeWinnerSelected,
	NotificationTypePayoutCompleted,
	NotificationTypePayoutFailed,
	NotificationTypeContestCompleted,
}

// String implements fmt.Stringer.
func (n NotificationType) String() string {
	return string(n)
}

// IsValid reports whether the value is known.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw input into a NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
