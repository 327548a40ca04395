package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dukerupert/weeklyeats/internal/model"
)

type MealPlanStore struct {
	db *sql.DB
}

func NewMealPlanStore(db *sql.DB) *MealPlanStore {
	return &MealPlanStore{db: db}
}

func scanPlan(s scanner) (*model.MealPlan, error) {
	var p model.MealPlan
	if err := s.Scan(&p.ID, &p.WeekOf, &p.GeneratedBy, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

const planCols = `id, week_of, generated_by, created_at`

// CreatePlan inserts a plan for weekOf together with its recipes.
func (s *MealPlanStore) CreatePlan(ctx context.Context, weekOf, generatedBy string, recipes []model.Recipe) (*model.MealPlanWithRecipes, error) {
	if generatedBy == "" {
		generatedBy = "auto"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO meal_plans (week_of, generated_by) VALUES (?, ?)`,
		weekOf, generatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert meal plan: %w", err)
	}
	planID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for _, r := range recipes {
		ingredients := r.Ingredients
		if ingredients == nil {
			ingredients = []model.IngredientLine{}
		}
		data, err := json.Marshal(ingredients)
		if err != nil {
			return nil, fmt.Errorf("marshal ingredients of %q: %w", r.Name, err)
		}
		var day sql.NullInt64
		if r.DayOfWeek != nil {
			day = sql.NullInt64{Int64: int64(*r.DayOfWeek), Valid: true}
		}
		servings := r.Servings
		if servings <= 0 {
			servings = 2
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipes (meal_plan_id, name, cuisine, day_of_week, servings, ingredients) VALUES (?, ?, ?, ?, ?, ?)`,
			planID, r.Name, r.Cuisine, day, servings, string(data),
		); err != nil {
			return nil, fmt.Errorf("insert recipe %q: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	saved, err := s.ListRecipes(ctx, planID)
	if err != nil {
		return nil, err
	}
	return &model.MealPlanWithRecipes{MealPlan: *plan, Recipes: saved}, nil
}

func (s *MealPlanStore) GetPlan(ctx context.Context, id int64) (*model.MealPlan, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+planCols+` FROM meal_plans WHERE id = ?`, id)
	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meal plan: %w", err)
	}
	return p, nil
}

func (s *MealPlanStore) GetPlanByWeek(ctx context.Context, weekOf string) (*model.MealPlan, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+planCols+` FROM meal_plans WHERE week_of = ?`, weekOf)
	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meal plan by week: %w", err)
	}
	return p, nil
}

func (s *MealPlanStore) ListRecipes(ctx context.Context, mealPlanID int64) ([]model.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, meal_plan_id, name, cuisine, day_of_week, servings, ingredients, created_at
		 FROM recipes WHERE meal_plan_id = ? ORDER BY day_of_week ASC, id ASC`,
		mealPlanID,
	)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []model.Recipe
	for rows.Next() {
		var r model.Recipe
		var day sql.NullInt64
		var ingredients string
		if err := rows.Scan(&r.ID, &r.MealPlanID, &r.Name, &r.Cuisine, &day, &r.Servings, &ingredients, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		if day.Valid {
			d := int(day.Int64)
			r.DayOfWeek = &d
		}
		if err := json.Unmarshal([]byte(ingredients), &r.Ingredients); err != nil {
			return nil, fmt.Errorf("decode ingredients of recipe %d: %w", r.ID, err)
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

// DeletePlan removes a plan with its recipes and grocery list.
func (s *MealPlanStore) DeletePlan(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmts := []string{
		`DELETE FROM grocery_items WHERE list_id IN (SELECT id FROM grocery_lists WHERE meal_plan_id = ?)`,
		`DELETE FROM grocery_lists WHERE meal_plan_id = ?`,
		`DELETE FROM recipes WHERE meal_plan_id = ?`,
		`DELETE FROM meal_plans WHERE id = ?`,
	}
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("delete meal plan: %w", err)
		}
	}
	return tx.Commit()
}
