package enums

// HistoryAction labels append-only subscription history entries.
type HistoryAction string

const (
	HistoryActionSubscriptionCreated HistoryAction = "subscription_created"
	HistoryActionOrderGenerated      HistoryAction = "order_generated"
	HistoryActionCycleAssigned       HistoryAction = "cycle_assigned"
)

// String implements fmt.Stringer.
func (h HistoryAction) String() string {
	return string(h)
}

var validHistoryActions = []HistoryAction{
	HistoryActionSubscriptionCreated,
	HistoryActionOrderGenerated,
	HistoryActionCycleAssigned,
}

// IsValid reports whether the value is known.
func (h HistoryAction) IsValid() bool {
	for _, candidate := range validHistoryActions {
		if candidate == h {
			return true
		}
	}
	return false
}
