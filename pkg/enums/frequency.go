package enums

import "fmt"

// Frequency describes how often a subscription receives a box.
type Frequency string

const (
	FrequencyMonthly   Frequency = "monthly"
	FrequencyBimonthly Frequency = "bimonthly"
	FrequencyOneTime   Frequency = "onetime"
)

var validFrequencies = []Frequency{
	FrequencyMonthly,
	FrequencyBimonthly,
	FrequencyOneTime,
}

// IsValid reports whether the value is known.
func (f Frequency) IsValid() bool {
	for _, candidate := range validFrequencies {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFrequency converts raw input into a Frequency.
func ParseFrequency(value string) (Frequency, error) {
	for _, candidate := range validFrequencies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid frequency %q", value)
}
