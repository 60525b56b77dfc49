// README: Fare rate definition used by trip estimates.
package pricing

type Rate struct {
	BaseFare float64
	PerKm    float64
	Minimum  float64
}

// DefaultRate is the flat city rate applied when no ride type override exists.
var DefaultRate = Rate{BaseFare: 2.50, PerKm: 1.20, Minimum: 5.00}
