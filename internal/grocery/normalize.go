package grocery

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// invariantWords are never depluralized, whether they stand alone or end a
// compound name ("red lentils").
var invariantWords = map[string]struct{}{
	"asparagus": {},
	"brussels":  {},
	"cloves":    {},
	"couscous":  {},
	"greens":    {},
	"grits":     {},
	"herbs":     {},
	"hummus":    {},
	"lentils":   {},
	"miso":      {},
	"molasses":  {},
	"oats":      {},
	"quinoa":    {},
	"swiss":     {},
	"tofu":      {},
}

// pluralKeys are countable items bought and listed in the plural. Both forms
// map to the plural so "olive" and "olives" share a row.
var pluralKeys = map[string]string{
	"chickpea":  "chickpeas",
	"chickpeas": "chickpeas",
	"chive":     "chives",
	"chives":    "chives",
	"endive":    "endives",
	"endives":   "endives",
	"lentil":    "lentils",
	"noodle":    "noodles",
	"noodles":   "noodles",
	"oat":       "oats",
	"olive":     "olives",
	"olives":    "olives",
}

// NormalizeItemName lowercases, trims and collapses whitespace in name, then
// singularizes the final word. The result is stable: normalizing it again
// returns the same string.
func NormalizeItemName(name string) string {
	fields := strings.Fields(strings.ToLower(norm.NFC.String(name)))
	if len(fields) == 0 {
		return ""
	}
	last := len(fields) - 1
	fields[last] = singularize(fields[last])
	return strings.Join(fields, " ")
}

func singularize(word string) string {
	if _, ok := invariantWords[word]; ok {
		return word
	}
	if plural, ok := pluralKeys[word]; ok {
		return plural
	}
	switch {
	case strings.HasSuffix(word, "ries"):
		return strings.TrimSuffix(word, "ies") + "y"
	case strings.HasSuffix(word, "oes") && len([]rune(word)) > 4:
		return strings.TrimSuffix(word, "es")
	case strings.HasSuffix(word, "ches"),
		strings.HasSuffix(word, "shes"),
		strings.HasSuffix(word, "sses"),
		strings.HasSuffix(word, "xes"),
		strings.HasSuffix(word, "zes"):
		return strings.TrimSuffix(word, "es")
	case strings.HasSuffix(word, "ves"):
		return strings.TrimSuffix(word, "ves") + "f"
	case strings.HasSuffix(word, "s") &&
		!strings.HasSuffix(word, "ss") &&
		!strings.HasSuffix(word, "us") &&
		!strings.HasSuffix(word, "is") &&
		len([]rune(word)) > 3:
		return strings.TrimSuffix(word, "s")
	}
	return word
}

// UnitNone is the canonical unit for countable items with no measure.
const UnitNone = "unit"

var unitSynonyms = map[string]string{
	"":            UnitNone,
	"unit":        UnitNone,
	"units":       UnitNone,
	"tbsp":        "tbsp",
	"tbsps":       "tbsp",
	"tbs":         "tbsp",
	"tablespoon":  "tbsp",
	"tablespoons": "tbsp",
	"tsp":         "tsp",
	"tsps":        "tsp",
	"teaspoon":    "tsp",
	"teaspoons":   "tsp",
	"cup":         "cup",
	"cups":        "cup",
	"oz":          "oz",
	"ounce":       "oz",
	"ounces":      "oz",
	"lb":          "lb",
	"lbs":         "lb",
	"pound":       "lb",
	"pounds":      "lb",
	"g":           "g",
	"gram":        "g",
	"grams":       "g",
	"kg":          "kg",
	"kilogram":    "kg",
	"kilograms":   "kg",
	"ml":          "ml",
	"milliliter":  "ml",
	"milliliters": "ml",
	"millilitre":  "ml",
	"millilitres": "ml",
	"l":           "l",
	"liter":       "l",
	"liters":      "l",
	"litre":       "l",
	"litres":      "l",
	"clove":       "clove",
	"cloves":      "clove",
	"piece":       "piece",
	"pieces":      "piece",
	"slice":       "slice",
	"slices":      "slice",
	"can":         "can",
	"cans":        "can",
	"bunch":       "bunch",
	"bunches":     "bunch",
	"head":        "head",
	"heads":       "head",
	"stalk":       "stalk",
	"stalks":      "stalk",
	"whole":       "whole",
	"pinch":       "pinch",
	"pinches":     "pinch",
	"dash":        "dash",
	"dashes":      "dash",
	"handful":     "handful",
	"handfuls":    "handful",
}

// NormalizeUnit maps unit spellings onto a canonical abbreviation. Unknown
// units are returned lowercased and trimmed.
func NormalizeUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if canon, ok := unitSynonyms[u]; ok {
		return canon
	}
	return u
}

// Key identifies a grocery line for merging. Two lines merge only when both
// the normalized name and the normalized unit are equal.
type Key struct {
	Name string
	Unit string
}

func KeyOf(item, unit string) Key {
	return Key{Name: NormalizeItemName(item), Unit: NormalizeUnit(unit)}
}
