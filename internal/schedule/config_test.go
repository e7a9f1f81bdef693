package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConfigDefaults(t *testing.T) {
	cfg := ResolveConfig(map[string]string{})

	assert.Equal(t, 5, cfg.DeliveryDay)
	assert.Nil(t, cfg.FirstDeliveryDate)
	assert.True(t, cfg.SubscriptionEnabled)
	assert.False(t, cfg.RevealedBoxEnabled)
}

func TestResolveConfigParsesValues(t *testing.T) {
	cfg := ResolveConfig(map[string]string{
		KeyDeliveryDay:         "12",
		KeyFirstDeliveryDate:   "2026-09-01",
		KeySubscriptionEnabled: "false",
		KeyRevealedBoxEnabled:  "true",
	})

	assert.Equal(t, 12, cfg.DeliveryDay)
	require.NotNil(t, cfg.FirstDeliveryDate)
	assert.Equal(t, time.Date(2026, time.September, 1, 0, 0, 0, 0, time.Local), *cfg.FirstDeliveryDate)
	assert.False(t, cfg.SubscriptionEnabled)
	assert.True(t, cfg.RevealedBoxEnabled)
}

func TestResolveConfigFallsBackOnBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"non-numeric day":    {KeyDeliveryDay: "banana"},
		"day below range":    {KeyDeliveryDay: "0"},
		"day above range":    {KeyDeliveryDay: "29"},
		"garbage date":       {KeyFirstDeliveryDate: "next tuesday"},
		"garbage bool":       {KeySubscriptionEnabled: "yep"},
		"empty value":        {KeyDeliveryDay: ""},
		"whitespace only":    {KeyFirstDeliveryDate: "   "},
		"partial date":       {KeyFirstDeliveryDate: "2026-09"},
		"reveal bool broken": {KeyRevealedBoxEnabled: "enabled"},
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := ResolveConfig(raw)
			assert.Equal(t, 5, cfg.DeliveryDay)
			assert.Nil(t, cfg.FirstDeliveryDate)
			assert.True(t, cfg.SubscriptionEnabled)
			assert.False(t, cfg.RevealedBoxEnabled)
		})
	}
}

func TestResolveConfigDisabledBoxTypes(t *testing.T) {
	cfg := ResolveConfig(map[string]string{
		KeyDisabledBoxTypes: "premium, seasonal ,,classic",
	})

	assert.Equal(t, []string{"premium", "seasonal", "classic"}, cfg.DisabledBoxTypes)
	assert.True(t, cfg.BoxTypeDisabled("seasonal"))
	assert.False(t, cfg.BoxTypeDisabled("mini"))
}

func TestResolveConfigDisabledBoxTypesEmpty(t *testing.T) {
	cfg := ResolveConfig(map[string]string{KeyDisabledBoxTypes: " , "})

	assert.Empty(t, cfg.DisabledBoxTypes)
	assert.False(t, cfg.BoxTypeDisabled("classic"))
}
