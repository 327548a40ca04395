package grocery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukerupert/weeklyeats/internal/events"
	"github.com/dukerupert/weeklyeats/internal/model"
	"github.com/dukerupert/weeklyeats/internal/store"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmptyItem  = errors.New("item name is required")
	ErrPlanExists = errors.New("meal plan already exists for week")

	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// checkQuantities rejects named lines without a positive quantity. Blank
// names are left for the merger to drop.
func checkQuantities(field string, lines []model.IngredientLine) error {
	for i, line := range lines {
		if NormalizeItemName(line.Item) == "" {
			continue
		}
		if !(line.Quantity > 0) {
			return fmt.Errorf("%s[%d]: %w", field, i, ErrInvalidQuantity)
		}
	}
	return nil
}

// AddResult reports the outcome of adding items to a list. Added holds the
// newly inserted rows; Merged counts lines folded into rows that already
// existed.
type AddResult struct {
	Added  []model.GroceryItem `json:"added"`
	Merged int                 `json:"merged"`
}

// Service owns grocery list reads and mutations. Every structural change is
// published on the bus after it has been persisted.
type Service struct {
	lists     *store.GroceryStore
	plans     *store.MealPlanStore
	assembler *Assembler
	bus       *events.Bus
	logger    *slog.Logger
}

func NewService(lists *store.GroceryStore, plans *store.MealPlanStore, assembler *Assembler, bus *events.Bus, logger *slog.Logger) *Service {
	return &Service{
		lists:     lists,
		plans:     plans,
		assembler: assembler,
		bus:       bus,
		logger:    logger,
	}
}

// ListForWeek returns the grocery list of the meal plan for weekOf.
func (s *Service) ListForWeek(ctx context.Context, weekOf string) (*model.GroceryListWithItems, error) {
	plan, err := s.plans.GetPlanByWeek(ctx, weekOf)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrNotFound
	}
	list, err := s.lists.GetListByMealPlan(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, ErrNotFound
	}
	return s.withItems(ctx, plan, list)
}

func (s *Service) withItems(ctx context.Context, plan *model.MealPlan, list *model.GroceryList) (*model.GroceryListWithItems, error) {
	items, err := s.lists.ListItems(ctx, list.ID)
	if err != nil {
		return nil, err
	}
	remaining, err := s.lists.CountUnchecked(ctx, list.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.GroceryItem{}
	}
	decorate(items)
	return &model.GroceryListWithItems{
		GroceryList: *list,
		WeekOf:      plan.WeekOf,
		Remaining:   remaining,
		Items:       items,
	}, nil
}

func decorate(items []model.GroceryItem) {
	for i := range items {
		items[i].Display = FormatItemQuantity(ParseQuantity(items[i].Quantity), items[i].Unit)
	}
}

// Regenerate rebuilds the grocery list of a meal plan from its recipes. When
// force is false and the recipes digest to the same value as the stored
// list, the stored list is returned unchanged. Callers must not run two
// regenerations of the same plan concurrently.
func (s *Service) Regenerate(ctx context.Context, planID int64, force bool) (*model.GroceryListWithItems, error) {
	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrNotFound
	}
	recipes, err := s.plans.ListRecipes(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}

	existing, err := s.lists.GetListByMealPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if existing != nil && !force && existing.SourceDigest == Fingerprint(recipes) {
		s.logger.Debug("recipes unchanged, keeping grocery list", "meal_plan_id", planID, "list_id", existing.ID)
		return s.withItems(ctx, plan, existing)
	}

	if existing != nil {
		if _, err := s.lists.DeleteListByMealPlan(ctx, planID); err != nil {
			return nil, err
		}
		s.bus.Publish(events.Clear(existing.ID))
	}

	list, items, err := s.assembler.Assemble(ctx, planID, recipes)
	if err != nil {
		return nil, fmt.Errorf("assemble grocery list: %w", err)
	}
	decorate(items)
	if len(items) > 0 {
		s.bus.Publish(events.Add(list.ID, items))
	}
	return s.withItems(ctx, plan, list)
}

// CreatePlan stores a meal plan for weekOf and builds its grocery list.
func (s *Service) CreatePlan(ctx context.Context, weekOf, generatedBy string, recipes []model.Recipe) (*model.MealPlanWithRecipes, *model.GroceryListWithItems, error) {
	for i, r := range recipes {
		if err := checkQuantities(fmt.Sprintf("recipes[%d].ingredients", i), r.Ingredients); err != nil {
			return nil, nil, err
		}
	}

	existing, err := s.plans.GetPlanByWeek(ctx, weekOf)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, ErrPlanExists
	}
	plan, err := s.plans.CreatePlan(ctx, weekOf, generatedBy, recipes)
	if err != nil {
		return nil, nil, err
	}
	list, err := s.Regenerate(ctx, plan.ID, true)
	if err != nil {
		return nil, nil, err
	}
	return plan, list, nil
}

// PlanForWeek returns the meal plan for weekOf with its recipes.
func (s *Service) PlanForWeek(ctx context.Context, weekOf string) (*model.MealPlanWithRecipes, error) {
	plan, err := s.plans.GetPlanByWeek(ctx, weekOf)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrNotFound
	}
	recipes, err := s.plans.ListRecipes(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}
	return &model.MealPlanWithRecipes{MealPlan: *plan, Recipes: recipes}, nil
}

// listForAdd returns the list for weekOf, creating an empty manual meal plan
// and list when the week has none yet.
func (s *Service) listForAdd(ctx context.Context, weekOf string) (*model.GroceryList, error) {
	plan, err := s.plans.GetPlanByWeek(ctx, weekOf)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		created, err := s.plans.CreatePlan(ctx, weekOf, "manual", nil)
		if err != nil {
			return nil, err
		}
		plan = &created.MealPlan
	}

	list, err := s.lists.GetListByMealPlan(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	if list != nil {
		return list, nil
	}
	list, _, err = s.lists.CreateList(ctx, plan.ID, "", nil)
	return list, err
}

// AddItems merges lines into the list for weekOf. Lines whose normalized
// name and unit match an existing row raise that row's quantity; the rest
// are appended after the current last row.
func (s *Service) AddItems(ctx context.Context, weekOf string, lines []model.IngredientLine) (*AddResult, error) {
	if err := checkQuantities("items", lines); err != nil {
		return nil, err
	}

	m := NewMerger()
	for _, line := range lines {
		m.Add(line)
	}
	if m.Len() == 0 {
		return nil, ErrEmptyItem
	}

	list, err := s.listForAdd(ctx, weekOf)
	if err != nil {
		return nil, err
	}

	next, err := s.lists.NextSortOrder(ctx, list.ID)
	if err != nil {
		return nil, err
	}

	result := &AddResult{Added: []model.GroceryItem{}}
	for _, mi := range m.Items() {
		existing, err := s.lists.FindItem(ctx, list.ID, mi.Key.Name, mi.Key.Unit)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			total := ParseQuantity(existing.Quantity).Add(mi.Quantity)
			if _, err := s.lists.SetQuantity(ctx, existing.ID, total.String()); err != nil {
				return nil, err
			}
			result.Merged++
			continue
		}

		item, err := s.lists.InsertItem(ctx, list.ID, model.NewGroceryItem{
			Item:      mi.Key.Name,
			Quantity:  mi.Quantity.String(),
			Unit:      mi.Key.Unit,
			Category:  string(Categorize(mi.Key.Name)),
			SortOrder: next,
		})
		if err != nil {
			return nil, err
		}
		next++
		result.Added = append(result.Added, *item)
	}

	decorate(result.Added)
	if len(result.Added) > 0 {
		s.bus.Publish(events.Add(list.ID, result.Added))
	}
	s.logger.Info("items added", "list_id", list.ID, "added", len(result.Added), "merged", result.Merged)
	return result, nil
}

// AddFreeText parses raw as a single item and adds it to the list for
// weekOf.
func (s *Service) AddFreeText(ctx context.Context, weekOf, raw string) (*AddResult, error) {
	line := ParseFreeText(raw)
	if NormalizeItemName(line.Item) == "" {
		return nil, ErrEmptyItem
	}
	return s.AddItems(ctx, weekOf, []model.IngredientLine{line})
}

func (s *Service) Toggle(ctx context.Context, itemID int64) (*model.GroceryItem, error) {
	item, err := s.lists.ToggleChecked(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	item.Display = FormatItemQuantity(ParseQuantity(item.Quantity), item.Unit)
	s.bus.Publish(events.Toggle(item.ListID, item.ID, item.Checked))
	return item, nil
}

func (s *Service) Remove(ctx context.Context, itemID int64) error {
	item, err := s.lists.DeleteItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrNotFound
	}
	s.bus.Publish(events.Remove(item.ListID, item.ID))
	return nil
}

// Clear empties the list for weekOf and returns how many items it held.
func (s *Service) Clear(ctx context.Context, weekOf string) (int64, error) {
	plan, err := s.plans.GetPlanByWeek(ctx, weekOf)
	if err != nil {
		return 0, err
	}
	if plan == nil {
		return 0, ErrNotFound
	}
	list, err := s.lists.GetListByMealPlan(ctx, plan.ID)
	if err != nil {
		return 0, err
	}
	if list == nil {
		return 0, ErrNotFound
	}

	count, err := s.lists.ClearItems(ctx, list.ID)
	if err != nil {
		return 0, err
	}
	s.bus.Publish(events.Clear(list.ID))
	s.logger.Info("grocery list cleared", "list_id", list.ID, "items", count)
	return count, nil
}
