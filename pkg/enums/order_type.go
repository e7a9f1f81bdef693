package enums

// OrderType distinguishes subscription-cycle orders from one-off purchases.
type OrderType string

const (
	OrderTypeSubscription OrderType = "subscription"
	OrderTypeOneOff       OrderType = "oneoff"
)

// String implements fmt.Stringer.
func (o OrderType) String() string {
	return string(o)
}

// IsValid reports whether the value is known.
func (o OrderType) IsValid() bool {
	return o == OrderTypeSubscription || o == OrderTypeOneOff
}
