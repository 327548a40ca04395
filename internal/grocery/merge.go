package grocery

import (
	"github.com/shopspring/decimal"

	"github.com/dukerupert/weeklyeats/internal/model"
)

// MergedItem is the sum of every ingredient line sharing one Key.
type MergedItem struct {
	Key      Key
	Quantity decimal.Decimal
	Category Category
}

// Merger accumulates ingredient lines, summing quantities per Key. Items are
// kept in first-seen order so later stable sorts are reproducible.
type Merger struct {
	index map[Key]int
	items []MergedItem
}

func NewMerger() *Merger {
	return &Merger{index: make(map[Key]int)}
}

// Add folds line into the accumulator. Lines whose name normalizes to the
// empty string, or whose quantity is not positive, are ignored.
func (m *Merger) Add(line model.IngredientLine) {
	key := KeyOf(line.Item, line.Unit)
	if key.Name == "" || !(line.Quantity > 0) {
		return
	}
	qty := decimal.NewFromFloat(line.Quantity)
	if i, ok := m.index[key]; ok {
		m.items[i].Quantity = m.items[i].Quantity.Add(qty)
		return
	}
	m.index[key] = len(m.items)
	m.items = append(m.items, MergedItem{Key: key, Quantity: qty})
}

func (m *Merger) Items() []MergedItem {
	out := make([]MergedItem, len(m.items))
	copy(out, m.items)
	return out
}

func (m *Merger) Len() int {
	return len(m.items)
}

// MergeIngredients merges the ingredient lines of every recipe.
func MergeIngredients(recipes []model.Recipe) []MergedItem {
	m := NewMerger()
	for _, r := range recipes {
		for _, line := range r.Ingredients {
			m.Add(line)
		}
	}
	return m.Items()
}
