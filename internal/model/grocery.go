package model

import "time"

// GroceryList belongs to exactly one meal plan.
type GroceryList struct {
	ID           int64     `json:"id"`
	MealPlanID   int64     `json:"meal_plan_id"`
	SourceDigest string    `json:"source_digest,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type GroceryItem struct {
	ID        int64      `json:"id"`
	ListID    int64      `json:"list_id"`
	Item      string     `json:"item"`
	Quantity  string     `json:"quantity"`
	Unit      string     `json:"unit"`
	Category  string     `json:"category"`
	Checked   bool       `json:"checked"`
	CheckedAt *time.Time `json:"checked_at"`
	SortOrder int        `json:"sort_order"`
	Display   string     `json:"display,omitempty"`
}

// NewGroceryItem is a row waiting to be inserted.
type NewGroceryItem struct {
	Item      string
	Quantity  string
	Unit      string
	Category  string
	SortOrder int
}

// GroceryListWithItems is the read model served to clients.
type GroceryListWithItems struct {
	GroceryList
	WeekOf    string        `json:"week_of"`
	Remaining int           `json:"remaining"`
	Items     []GroceryItem `json:"items"`
}
