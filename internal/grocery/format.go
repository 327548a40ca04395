package grocery

import (
	"strings"

	"github.com/shopspring/decimal"
)

var invariantUnits = map[string]bool{
	"oz": true, "tbsp": true, "tsp": true, "g": true, "kg": true, "ml": true, "l": true,
}

var esPluralUnits = map[string]bool{
	"bunch": true, "pinch": true, "dash": true,
}

// FormatUnit renders unit for display next to qty. The placeholder unit is
// hidden entirely.
func FormatUnit(unit string, qty decimal.Decimal) string {
	u := strings.TrimSpace(unit)
	if u == "" || u == UnitNone {
		return ""
	}
	if invariantUnits[u] || qty.LessThanOrEqual(decimal.NewFromInt(1)) {
		return u
	}
	if esPluralUnits[u] {
		return u + "es"
	}
	return u + "s"
}

// FormatDisplayQuantity prints whole numbers as-is and everything else
// rounded to one decimal place.
func FormatDisplayQuantity(qty decimal.Decimal) string {
	if qty.IsInteger() {
		return qty.String()
	}
	return qty.Round(1).String()
}

func FormatItemQuantity(qty decimal.Decimal, unit string) string {
	q := FormatDisplayQuantity(qty)
	if u := FormatUnit(unit, qty); u != "" {
		return q + " " + u
	}
	return q
}

// ParseQuantity reads a persisted quantity string. Malformed values read as
// zero.
func ParseQuantity(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
