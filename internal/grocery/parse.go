package grocery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dukerupert/weeklyeats/internal/model"
)

const quantityPattern = `(\d+\s+\d+/\d+|\d+(?:\.\d+)?(?:/\d+)?)`

var (
	quantityUnitItemRe = regexp.MustCompile(`(?i)^` + quantityPattern +
		`\s*(tbsp|tsp|cups?|oz|lbs?|g|ml|cloves?|cans?|bunch(?:es)?|heads?|stalks?|pieces?|slices?|whole|pinch(?:es)?|dash(?:es)?|handfuls?)?\s+(.+)$`)
	quantityItemRe = regexp.MustCompile(`^` + quantityPattern + `\s+(.+)$`)
)

// ParseFreeText reads entries such as "2 lbs chicken breast", "3 eggs" or
// "paprika" into an ingredient line. Input that does not start with a number
// is a single unit of the whole text. Blank input yields an empty Item, which
// callers must reject.
func ParseFreeText(raw string) model.IngredientLine {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return model.IngredientLine{Quantity: 1, Unit: UnitNone}
	}

	if m := quantityUnitItemRe.FindStringSubmatch(trimmed); m != nil {
		if qty, ok := parseQuantity(m[1]); ok {
			return model.IngredientLine{
				Item:     strings.TrimSpace(m[3]),
				Quantity: qty,
				Unit:     NormalizeUnit(m[2]),
			}
		}
	}

	if m := quantityItemRe.FindStringSubmatch(trimmed); m != nil {
		if qty, ok := parseQuantity(m[1]); ok {
			return model.IngredientLine{
				Item:     strings.TrimSpace(m[2]),
				Quantity: qty,
				Unit:     UnitNone,
			}
		}
	}

	return model.IngredientLine{Item: trimmed, Quantity: 1, Unit: UnitNone}
}

// parseQuantity accepts decimals, simple fractions ("1/2") and mixed numbers
// ("1 1/2").
func parseQuantity(s string) (float64, bool) {
	if parts := strings.Fields(s); len(parts) == 2 {
		w, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, false
		}
		f, ok := parseQuantity(parts[1])
		if !ok {
			return 0, false
		}
		return w + f, true
	}

	num, den, isFraction := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	if !isFraction {
		return n, n > 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return n / d, n > 0
}
