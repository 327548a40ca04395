package grocery

import (
	"encoding/hex"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/dukerupert/weeklyeats/internal/model"
)

// Fingerprint digests the merged ingredients of recipes. Recipe order,
// spelling variants that normalize alike and how quantities are split across
// recipes do not change the result.
func Fingerprint(recipes []model.Recipe) string {
	merged := MergeIngredients(recipes)
	lines := make([]string, 0, len(merged))
	for _, m := range merged {
		lines = append(lines, m.Key.Name+"|"+m.Key.Unit+"|"+m.Quantity.String())
	}
	sort.Strings(lines)
	sum := blake2b.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:])
}
