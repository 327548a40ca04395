package grocery

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/weeklyeats/internal/model"
	"github.com/dukerupert/weeklyeats/internal/store"
)

// DefaultClassifyTimeout bounds the external classification call.
const DefaultClassifyTimeout = 30 * time.Second

// Classifier assigns categories to item names the local rules could not
// resolve. The result maps each name to a category name; names may be
// missing from it.
type Classifier interface {
	Classify(ctx context.Context, names []string) (map[string]string, error)
}

// ClassifierFunc adapts an ordinary function to Classifier.
type ClassifierFunc func(ctx context.Context, names []string) (map[string]string, error)

func (f ClassifierFunc) Classify(ctx context.Context, names []string) (map[string]string, error) {
	return f(ctx, names)
}

// Assembler turns recipes into an ordered, categorized grocery list.
type Assembler struct {
	lists      *store.GroceryStore
	classifier Classifier
	timeout    time.Duration
	logger     *slog.Logger
}

// NewAssembler builds an Assembler. classifier may be nil, in which case
// unresolved items go straight to Other. A non-positive timeout uses
// DefaultClassifyTimeout.
func NewAssembler(lists *store.GroceryStore, classifier Classifier, timeout time.Duration, logger *slog.Logger) *Assembler {
	if timeout <= 0 {
		timeout = DefaultClassifyTimeout
	}
	return &Assembler{
		lists:      lists,
		classifier: classifier,
		timeout:    timeout,
		logger:     logger,
	}
}

// Plan merges and categorizes recipes without touching storage. The result
// is grouped by CategoryOrder with merge order kept inside each group, and
// SortOrder runs 0..n-1.
func (a *Assembler) Plan(ctx context.Context, recipes []model.Recipe) []model.NewGroceryItem {
	merged := MergeIngredients(recipes)

	var unresolved []string
	seen := make(map[string]bool)
	for i := range merged {
		cat, ok := CategorizeItem(merged[i].Key.Name)
		if ok {
			merged[i].Category = cat
			continue
		}
		if !seen[merged[i].Key.Name] {
			seen[merged[i].Key.Name] = true
			unresolved = append(unresolved, merged[i].Key.Name)
		}
	}

	if len(unresolved) > 0 {
		answers := a.classify(ctx, unresolved)
		for i := range merged {
			if merged[i].Category != "" {
				continue
			}
			if cat, ok := answers[merged[i].Key.Name]; ok {
				merged[i].Category = cat
			} else {
				merged[i].Category = Other
			}
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Category.Rank() < merged[j].Category.Rank()
	})

	items := make([]model.NewGroceryItem, len(merged))
	for i, m := range merged {
		items[i] = model.NewGroceryItem{
			Item:      m.Key.Name,
			Quantity:  m.Quantity.String(),
			Unit:      m.Key.Unit,
			Category:  string(m.Category),
			SortOrder: i,
		}
	}
	return items
}

// classify asks the external classifier about names in one batch. It never
// fails: errors, timeouts and unusable answers are logged and leave the
// affected names out of the result.
func (a *Assembler) classify(ctx context.Context, names []string) map[string]Category {
	if a.classifier == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	raw, err := a.classifier.Classify(ctx, names)
	if err != nil {
		a.logger.Warn("external classification failed, using other",
			"items", len(names), "error", err, "duration", time.Since(start))
		return nil
	}

	byName := make(map[string]string, len(raw))
	for name, cat := range raw {
		byName[NormalizeItemName(name)] = cat
	}

	out := make(map[string]Category, len(names))
	var missing int
	for _, name := range names {
		cat, ok := ParseCategory(byName[name])
		if !ok {
			missing++
			continue
		}
		out[name] = cat
	}
	if missing > 0 {
		a.logger.Warn("classifier left items uncategorized", "items", missing)
	}
	a.logger.Debug("external classification done",
		"items", len(names), "resolved", len(out), "duration", time.Since(start))
	return out
}

// Assemble plans recipes and persists the result as a fresh list for the
// meal plan. Any existing list for the plan must be removed first.
func (a *Assembler) Assemble(ctx context.Context, mealPlanID int64, recipes []model.Recipe) (*model.GroceryList, []model.GroceryItem, error) {
	items := a.Plan(ctx, recipes)
	list, saved, err := a.lists.CreateList(ctx, mealPlanID, Fingerprint(recipes), items)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Info("grocery list assembled",
		"meal_plan_id", mealPlanID, "list_id", list.ID, "items", len(saved),
		"categories", categorySummary(saved))
	return list, saved, nil
}

func categorySummary(items []model.GroceryItem) string {
	counts := make(map[string]int)
	for _, it := range items {
		counts[it.Category]++
	}
	var parts []string
	for _, c := range CategoryOrder {
		if n := counts[string(c)]; n > 0 {
			parts = append(parts, string(c)+"="+strconv.Itoa(n))
		}
	}
	return strings.Join(parts, " ")
}
