package cycles

import (
	"math"
	"time"

	"github.com/bloomcrate/bloomcrate-backend/pkg/db/models"
	"github.com/bloomcrate/bloomcrate-backend/pkg/enums"
)

// State is a pure projection of a cycle's lifecycle for admin surfaces.
// It never writes back to the cycle.
type State struct {
	IsPast            bool   `json:"is_past"`
	IsUpcoming        bool   `json:"is_upcoming"`
	IsRevealed        bool   `json:"is_revealed"`
	CanReveal         bool   `json:"can_reveal"`
	CanMarkDelivered  bool   `json:"can_mark_delivered"`
	DaysUntilDelivery *int   `json:"days_until_delivery"`
	DeliveryDateLabel string `json:"delivery_date_label"`
}

// ComputeState derives the lifecycle flags for a cycle at the given time.
func ComputeState(cycle models.DeliveryCycle, now time.Time) State {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	delivery := time.Date(
		cycle.DeliveryDate.Year(), cycle.DeliveryDate.Month(), cycle.DeliveryDate.Day(),
		0, 0, 0, 0, now.Location(),
	)

	isPast := delivery.Before(today)

	state := State{
		IsPast:            isPast,
		IsUpcoming:        !isPast && cycle.Status == enums.CycleStatusUpcoming,
		IsRevealed:        cycle.IsRevealed,
		CanReveal:         cycle.Status == enums.CycleStatusDelivered && !cycle.IsRevealed,
		CanMarkDelivered:  cycle.Status == enums.CycleStatusUpcoming,
		DeliveryDateLabel: delivery.Format("02.01.2006"),
	}

	if !isPast {
		days := int(math.Ceil(delivery.Sub(today).Hours() / 24))
		state.DaysUntilDelivery = &days
	}

	return state
}
