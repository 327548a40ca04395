package grocery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/weeklyeats/internal/events"
	"github.com/dukerupert/weeklyeats/internal/model"
)

const week = "2026-10-12"

func setupService(t *testing.T, classifier Classifier) (*Service, *events.Subscription) {
	t.Helper()
	lists, plans := setupStores(t)
	bus := events.NewBus(testLogger())
	t.Cleanup(bus.Close)
	sub := bus.Subscribe(64)
	a := NewAssembler(lists, classifier, time.Second, testLogger())
	return NewService(lists, plans, a, bus, testLogger()), sub
}

func drain(sub *events.Subscription) []events.Event {
	var out []events.Event
	for {
		select {
		case e := <-sub.C:
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestCreatePlanBuildsList(t *testing.T) {
	svc, sub := setupService(t, nil)
	ctx := context.Background()

	plan, list, err := svc.CreatePlan(ctx, week, "", []model.Recipe{
		{Name: "Soup", Ingredients: []model.IngredientLine{{Item: "Onion", Quantity: 1}}},
		{Name: "Stew", Ingredients: []model.IngredientLine{{Item: "onions", Quantity: 2, Unit: "whole"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, week, plan.WeekOf)
	assert.Len(t, plan.Recipes, 2)

	require.Len(t, list.Items, 2)
	assert.Equal(t, week, list.WeekOf)
	assert.Equal(t, 2, list.Remaining)
	assert.Equal(t, "1", list.Items[0].Display)
	assert.Equal(t, "2 wholes", list.Items[1].Display)

	evts := drain(sub)
	require.Len(t, evts, 1)
	assert.Equal(t, events.KindAdd, evts[0].Type)
	assert.Len(t, evts[0].Items, 2)

	_, _, err = svc.CreatePlan(ctx, week, "", nil)
	assert.ErrorIs(t, err, ErrPlanExists)
}

func TestListForWeekNotFound(t *testing.T) {
	svc, _ := setupService(t, nil)

	_, err := svc.ListForWeek(context.Background(), week)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegenerateSkipsUnchangedRecipes(t *testing.T) {
	svc, sub := setupService(t, nil)
	ctx := context.Background()

	plan, first, err := svc.CreatePlan(ctx, week, "", []model.Recipe{
		{Name: "Salad", Ingredients: []model.IngredientLine{{Item: "lettuce", Quantity: 1, Unit: "head"}}},
	})
	require.NoError(t, err)
	drain(sub)

	again, err := svc.Regenerate(ctx, plan.ID, false)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Empty(t, drain(sub))

	forced, err := svc.Regenerate(ctx, plan.ID, true)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, forced.ID)

	evts := drain(sub)
	require.Len(t, evts, 2)
	assert.Equal(t, events.KindClear, evts[0].Type)
	assert.Equal(t, first.ID, evts[0].ListID)
	assert.Equal(t, events.KindAdd, evts[1].Type)
	assert.Equal(t, forced.ID, evts[1].ListID)
}

func TestRegenerateMissingPlan(t *testing.T) {
	svc, _ := setupService(t, nil)

	_, err := svc.Regenerate(context.Background(), 42, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegenerateUsesClassifier(t *testing.T) {
	var calls int32
	svc, _ := setupService(t, fixedClassifier(map[string]string{"zorblax": "bakery"}, &calls, nil))

	_, list, err := svc.CreatePlan(context.Background(), week, "", []model.Recipe{
		{Ingredients: []model.IngredientLine{{Item: "zorblax", Quantity: 1}, {Item: "salt", Quantity: 1, Unit: "pinch"}}},
	})
	require.NoError(t, err)

	require.Len(t, list.Items, 2)
	assert.Equal(t, "zorblax", list.Items[0].Item)
	assert.Equal(t, "bakery", list.Items[0].Category)
	assert.Equal(t, "spices", list.Items[1].Category)
	assert.Equal(t, int32(1), calls)
}

func TestAddItemsCreatesListAndMerges(t *testing.T) {
	svc, sub := setupService(t, nil)
	ctx := context.Background()

	res, err := svc.AddItems(ctx, week, []model.IngredientLine{
		{Item: "Tomatoes", Quantity: 2, Unit: "cups"},
		{Item: "tomato", Quantity: 1, Unit: "cup"},
		{Item: "zorblax", Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, res.Added, 2)
	assert.Equal(t, 0, res.Merged)
	assert.Equal(t, "tomato", res.Added[0].Item)
	assert.Equal(t, "3", res.Added[0].Quantity)
	assert.Equal(t, "produce", res.Added[0].Category)
	assert.Equal(t, "3 cups", res.Added[0].Display)
	assert.Equal(t, "other", res.Added[1].Category)
	assert.Equal(t, 0, res.Added[0].SortOrder)
	assert.Equal(t, 1, res.Added[1].SortOrder)

	plan, err := svc.PlanForWeek(ctx, week)
	require.NoError(t, err)
	assert.Equal(t, "manual", plan.GeneratedBy)

	evts := drain(sub)
	require.Len(t, evts, 1)
	assert.Equal(t, events.KindAdd, evts[0].Type)

	// check the tomato, then add more: quantity grows and it is unchecked again
	_, err = svc.Toggle(ctx, res.Added[0].ID)
	require.NoError(t, err)
	drain(sub)

	res, err = svc.AddItems(ctx, week, []model.IngredientLine{{Item: "tomatoes", Quantity: 0.5, Unit: "cups"}})
	require.NoError(t, err)
	assert.Empty(t, res.Added)
	assert.Equal(t, 1, res.Merged)
	assert.Empty(t, drain(sub), "merges publish nothing")

	list, err := svc.ListForWeek(ctx, week)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "3.5", list.Items[0].Quantity)
	assert.False(t, list.Items[0].Checked)
	assert.Equal(t, 2, list.Remaining)
}

func TestAddItemsAppendsAfterGeneratedItems(t *testing.T) {
	svc, _ := setupService(t, nil)
	ctx := context.Background()

	_, _, err := svc.CreatePlan(ctx, week, "", []model.Recipe{
		{Ingredients: []model.IngredientLine{{Item: "onion", Quantity: 1}, {Item: "milk", Quantity: 1, Unit: "cup"}}},
	})
	require.NoError(t, err)

	res, err := svc.AddFreeText(ctx, week, "2 onions")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Merged)

	res, err = svc.AddFreeText(ctx, week, "1 bunch cilantro")
	require.NoError(t, err)
	require.Len(t, res.Added, 1)
	assert.Equal(t, 2, res.Added[0].SortOrder)

	list, err := svc.ListForWeek(ctx, week)
	require.NoError(t, err)
	assert.Equal(t, "3", list.Items[0].Quantity)
}

func TestAddFreeTextRejectsEmpty(t *testing.T) {
	svc, sub := setupService(t, nil)

	_, err := svc.AddFreeText(context.Background(), week, "   ")
	assert.ErrorIs(t, err, ErrEmptyItem)
	assert.Empty(t, drain(sub))

	_, err = svc.AddItems(context.Background(), week, []model.IngredientLine{{Item: " "}})
	assert.ErrorIs(t, err, ErrEmptyItem)
}

func TestAddItemsRejectsNonPositiveQuantity(t *testing.T) {
	svc, sub := setupService(t, nil)
	ctx := context.Background()

	_, err := svc.AddItems(ctx, week, []model.IngredientLine{{Item: "milk", Quantity: 2, Unit: "cup"}})
	require.NoError(t, err)
	drain(sub)

	_, err = svc.AddItems(ctx, week, []model.IngredientLine{
		{Item: "milk", Quantity: -5, Unit: "cup"},
		{Item: "eggs"},
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.ErrorContains(t, err, "items[0]")

	_, err = svc.AddItems(ctx, week, []model.IngredientLine{{Item: "eggs", Quantity: 0}})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	list, err := svc.ListForWeek(ctx, week)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "milk", list.Items[0].Item)
	assert.Equal(t, "2", list.Items[0].Quantity)
	assert.Empty(t, drain(sub))
}

func TestCreatePlanRejectsNonPositiveQuantity(t *testing.T) {
	svc, sub := setupService(t, nil)
	ctx := context.Background()

	_, _, err := svc.CreatePlan(ctx, week, "", []model.Recipe{
		{Name: "Soup", Ingredients: []model.IngredientLine{{Item: "onion", Quantity: 1}}},
		{Name: "Stew", Ingredients: []model.IngredientLine{{Item: "carrot", Quantity: 0, Unit: "cup"}}},
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.ErrorContains(t, err, "recipes[1].ingredients[0]")

	_, err = svc.PlanForWeek(ctx, week)
	assert.ErrorIs(t, err, ErrNotFound, "no plan is stored")
	assert.Empty(t, drain(sub))
}

func TestToggleRemoveClear(t *testing.T) {
	svc, sub := setupService(t, nil)
	ctx := context.Background()

	res, err := svc.AddItems(ctx, week, []model.IngredientLine{
		{Item: "eggs", Quantity: 12},
		{Item: "bread", Quantity: 1, Unit: "loaf"},
	})
	require.NoError(t, err)
	drain(sub)
	egg := res.Added[0]

	item, err := svc.Toggle(ctx, egg.ID)
	require.NoError(t, err)
	assert.True(t, item.Checked)
	evts := drain(sub)
	require.Len(t, evts, 1)
	assert.Equal(t, events.KindToggle, evts[0].Type)
	require.NotNil(t, evts[0].Checked)
	assert.True(t, *evts[0].Checked)

	require.NoError(t, svc.Remove(ctx, egg.ID))
	evts = drain(sub)
	require.Len(t, evts, 1)
	assert.Equal(t, events.KindRemove, evts[0].Type)
	assert.Equal(t, egg.ID, evts[0].ItemID)

	count, err := svc.Clear(ctx, week)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	evts = drain(sub)
	require.Len(t, evts, 1)
	assert.Equal(t, events.KindClear, evts[0].Type)
}

func TestMutationsOnMissingTargets(t *testing.T) {
	svc, sub := setupService(t, nil)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Remove(ctx, 404), ErrNotFound)

	_, err = svc.Clear(ctx, week)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Empty(t, drain(sub))
}
