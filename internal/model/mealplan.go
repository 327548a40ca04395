package model

import "time"

type MealPlan struct {
	ID          int64     `json:"id"`
	WeekOf      string    `json:"week_of"`
	GeneratedBy string    `json:"generated_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// IngredientLine is one ingredient as produced by recipe generation or manual entry.
type IngredientLine struct {
	Item     string  `json:"item"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type Recipe struct {
	ID          int64            `json:"id"`
	MealPlanID  int64            `json:"meal_plan_id"`
	Name        string           `json:"name"`
	Cuisine     string           `json:"cuisine"`
	DayOfWeek   *int             `json:"day_of_week"`
	Servings    int              `json:"servings"`
	Ingredients []IngredientLine `json:"ingredients"`
	CreatedAt   time.Time        `json:"created_at"`
}

type MealPlanWithRecipes struct {
	MealPlan
	Recipes []Recipe `json:"recipes"`
}
