package schedule

import "time"

// NextDeliveryDate computes the next delivery date for the given config.
//
// When FirstDeliveryDate is set and falls on or after now (compared at
// local midnight) it wins unconditionally. Otherwise the delivery-day of
// the current month applies, clamped to the month's last valid day; a
// date not strictly after now rolls over to the following month with the
// clamp reapplied.
func NextDeliveryDate(cfg Config, now time.Time) time.Time {
	today := atMidnight(now)

	if cfg.FirstDeliveryDate != nil {
		first := atMidnight(*cfg.FirstDeliveryDate)
		if !first.Before(today) {
			return first
		}
	}

	candidate := clampedDay(today.Year(), today.Month(), cfg.DeliveryDay)
	if candidate.After(today) {
		return candidate
	}
	return clampedDay(today.Year(), today.Month()+1, cfg.DeliveryDay)
}

// NextDeliveryDates returns the next n delivery dates. The first entry is
// override-aware; subsequent entries step one calendar month forward from
// the previous entry's month, reapplying the day-of-month clamp.
func NextDeliveryDates(cfg Config, n int, now time.Time) []time.Time {
	if n <= 0 {
		return nil
	}

	dates := make([]time.Time, 0, n)
	first := NextDeliveryDate(cfg, now)
	dates = append(dates, first)

	prev := first
	for len(dates) < n {
		next := clampedDay(prev.Year(), prev.Month()+1, cfg.DeliveryDay)
		dates = append(dates, next)
		prev = next
	}
	return dates
}

// IsFirstDelivery reports whether the override date is still ahead, i.e.
// the next delivery will be the very first one.
func IsFirstDelivery(cfg Config, now time.Time) bool {
	if cfg.FirstDeliveryDate == nil {
		return false
	}
	return !atMidnight(*cfg.FirstDeliveryDate).Before(atMidnight(now))
}

// clampedDay builds the day-th of the given month, clamped to the month's
// last valid day. Month may be out of range; time.Date normalizes it.
func clampedDay(year int, month time.Month, day int) time.Time {
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	lastDay := firstOfMonth.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfMonth.Year(), firstOfMonth.Month(), day, 0, 0, 0, 0, time.Local)
}

func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
