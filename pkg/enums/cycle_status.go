package enums

import "fmt"

// CycleStatus maps to the cycle_status enum in Postgres. Transitions are
// forward-only: upcoming -> delivered -> archived.
type CycleStatus string

const (
	CycleStatusUpcoming  CycleStatus = "upcoming"
	CycleStatusDelivered CycleStatus = "delivered"
	CycleStatusArchived  CycleStatus = "archived"
)

var validCycleStatuses = []CycleStatus{
	CycleStatusUpcoming,
	CycleStatusDelivered,
	CycleStatusArchived,
}

// String implements fmt.Stringer.
func (c CycleStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is known.
func (c CycleStatus) IsValid() bool {
	for _, candidate := range validCycleStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the forward-only lifecycle permits the move.
func (c CycleStatus) CanTransitionTo(next CycleStatus) bool {
	switch c {
	case CycleStatusUpcoming:
		return next == CycleStatusDelivered
	case CycleStatusDelivered:
		return next == CycleStatusArchived
	default:
		return false
	}
}

// ParseCycleStatus converts raw input into a CycleStatus.
func ParseCycleStatus(value string) (CycleStatus, error) {
	for _, candidate := range validCycleStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cycle status %q", value)
}
