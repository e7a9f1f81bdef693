package schedule

import (
	"strconv"
	"strings"
	"time"
)

// Setting keys read from store_settings.
const (
	KeyDeliveryDay         = "deliveryDay"
	KeyFirstDeliveryDate   = "firstDeliveryDate"
	KeySubscriptionEnabled = "subscriptionEnabled"
	KeyRevealedBoxEnabled  = "revealedBoxEnabled"
	KeyDisabledBoxTypes    = "disabledBoxTypes"
)

const (
	defaultDeliveryDay = 5
	minDeliveryDay     = 1
	maxDeliveryDay     = 28

	dateLayout = "2006-01-02"
)

// Config is the resolved delivery schedule. It is built once per operation
// and passed by value; calculations never read settings ambiently.
type Config struct {
	DeliveryDay         int
	FirstDeliveryDate   *time.Time
	SubscriptionEnabled bool
	RevealedBoxEnabled  bool
	DisabledBoxTypes    []string
}

// BoxTypeDisabled reports whether the given box type is switched off by
// the store settings.
func (c Config) BoxTypeDisabled(boxType string) bool {
	for _, t := range c.DisabledBoxTypes {
		if t == boxType {
			return true
		}
	}
	return false
}

// ResolveConfig turns raw key/value settings into a typed schedule config.
// Parsing is defensive: unparseable or out-of-range values fall back to
// their defaults. Settings are operational, not transactional, and must
// never block scheduling.
func ResolveConfig(raw map[string]string) Config {
	cfg := Config{
		DeliveryDay:         defaultDeliveryDay,
		SubscriptionEnabled: true,
		RevealedBoxEnabled:  false,
	}

	if v, ok := raw[KeyDeliveryDay]; ok {
		if day, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			if day >= minDeliveryDay && day <= maxDeliveryDay {
				cfg.DeliveryDay = day
			}
		}
	}

	if v, ok := raw[KeyFirstDeliveryDate]; ok {
		if parsed, err := time.ParseInLocation(dateLayout, strings.TrimSpace(v), time.Local); err == nil {
			cfg.FirstDeliveryDate = &parsed
		}
	}

	if v, ok := raw[KeySubscriptionEnabled]; ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			cfg.SubscriptionEnabled = b
		}
	}

	if v, ok := raw[KeyRevealedBoxEnabled]; ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			cfg.RevealedBoxEnabled = b
		}
	}

	if v, ok := raw[KeyDisabledBoxTypes]; ok {
		for _, part := range strings.Split(v, ",") {
			if t := strings.TrimSpace(part); t != "" {
				cfg.DisabledBoxTypes = append(cfg.DisabledBoxTypes, t)
			}
		}
	}

	return cfg
}
