package enums

import "fmt"

// NotificationKind classifies operator notifications for a generation run.
type NotificationKind string

const (
	NotificationKindGenerationSuccess NotificationKind = "generation_success"
	NotificationKindGenerationPartial NotificationKind = "generation_partial"
	NotificationKindGenerationFailed  NotificationKind = "generation_failed"
)

var validNotificationKinds = []NotificationKind{
	NotificationKindGenerationSuccess,
	NotificationKindGenerationPartial,
	NotificationKindGenerationFailed,
}

// String implements fmt.Stringer.
func (n NotificationKind) String() string {
	return string(n)
}

// IsValid reports whether the value is known.
func (n NotificationKind) IsValid() bool {
	for _, candidate := range validNotificationKinds {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationKind converts raw input into a NotificationKind.
func ParseNotificationKind(value string) (NotificationKind, error) {
	for _, candidate := range validNotificationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification kind %q", value)
}
