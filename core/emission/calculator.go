package emission

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDistance reports a distance that is not a finite number greater
// than zero. It is a caller error, distinct from missing catalog data.
var ErrInvalidDistance = errors.New("invalid distance")

// ErrFactorUnavailable reports that no emission factor matched the
// activity/class combination after all lookup attempts.
var ErrFactorUnavailable = errors.New("emission factor unavailable")

// Calculator resolves emission factors from a table and multiplies them by
// trip distance. It is deliberately permissive about naming: callers supply
// either pre-normalized UI labels or catalog-native keys depending on call
// site, so resolution tries normalized and raw variants of both inputs.
type Calculator struct {
	table Table
}

// NewCalculator binds a calculator to a table snapshot.
func NewCalculator(t Table) *Calculator {
	return &Calculator{table: t}
}

// Resolve returns the emission factor for the activity/class pair, trying
// in order: (normalized activity, normalized class), (normalized activity,
// raw class), (raw activity, normalized class), (raw activity, raw class).
func (c *Calculator) Resolve(activity, class string) (float64, bool) {
	normAct := LookupActivity(activity)
	normClass := NormalizeClass(normAct, class)
	attempts := [][2]string{
		{normAct, normClass},
		{normAct, class},
		{activity, normClass},
		{activity, class},
	}
	for _, a := range attempts {
		if f, ok := c.table.Factor(a[0], a[1]); ok {
			return f, true
		}
	}
	return 0, false
}

// Calculate returns the kgCO2e emitted travelling distanceKm with the given
// activity and vehicle class. No rounding is applied; presentation layers
// round for display only.
func (c *Calculator) Calculate(activity, class string, distanceKm float64) (float64, error) {
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) || distanceKm <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDistance, distanceKm)
	}
	factor, ok := c.Resolve(activity, class)
	if !ok {
		return 0, fmt.Errorf("%w: activity %q class %q", ErrFactorUnavailable, activity, class)
	}
	return factor * distanceKm, nil
}
