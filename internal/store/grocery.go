package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/weeklyeats/internal/model"
)

type GroceryStore struct {
	db *sql.DB
}

func NewGroceryStore(db *sql.DB) *GroceryStore {
	return &GroceryStore{db: db}
}

type scanner interface{ Scan(...any) error }

// --- List methods ---

func scanList(s scanner) (*model.GroceryList, error) {
	var l model.GroceryList
	if err := s.Scan(&l.ID, &l.MealPlanID, &l.SourceDigest, &l.CreatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

const listCols = `id, meal_plan_id, source_digest, created_at`

func (s *GroceryStore) GetListByID(ctx context.Context, id int64) (*model.GroceryList, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+listCols+` FROM grocery_lists WHERE id = ?`, id)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return l, nil
}

func (s *GroceryStore) GetListByMealPlan(ctx context.Context, mealPlanID int64) (*model.GroceryList, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+listCols+` FROM grocery_lists WHERE meal_plan_id = ?`, mealPlanID)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list by meal plan: %w", err)
	}
	return l, nil
}

// CreateList inserts a list and its items in one transaction.
func (s *GroceryStore) CreateList(ctx context.Context, mealPlanID int64, digest string, items []model.NewGroceryItem) (*model.GroceryList, []model.GroceryItem, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO grocery_lists (meal_plan_id, source_digest) VALUES (?, ?)`,
		mealPlanID, digest,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("insert list: %w", err)
	}
	listID, err := result.LastInsertId()
	if err != nil {
		return nil, nil, fmt.Errorf("last insert id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO grocery_items (list_id, item, quantity, unit, category, sort_order) VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("prepare insert item: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.ExecContext(ctx, listID, it.Item, it.Quantity, it.Unit, it.Category, it.SortOrder); err != nil {
			return nil, nil, fmt.Errorf("insert item %q: %w", it.Item, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}

	list, err := s.GetListByID(ctx, listID)
	if err != nil {
		return nil, nil, err
	}
	inserted, err := s.ListItems(ctx, listID)
	if err != nil {
		return nil, nil, err
	}
	return list, inserted, nil
}

// DeleteListByMealPlan removes the plan's list and all of its items. It
// reports whether a list existed.
func (s *GroceryStore) DeleteListByMealPlan(ctx context.Context, mealPlanID int64) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM grocery_items WHERE list_id IN (SELECT id FROM grocery_lists WHERE meal_plan_id = ?)`,
		mealPlanID,
	); err != nil {
		return false, fmt.Errorf("delete items: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM grocery_lists WHERE meal_plan_id = ?`, mealPlanID)
	if err != nil {
		return false, fmt.Errorf("delete list: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return n > 0, nil
}

// --- Item methods ---

func scanItem(s scanner) (*model.GroceryItem, error) {
	var item model.GroceryItem
	var checked int
	var checkedAt sql.NullTime

	err := s.Scan(
		&item.ID, &item.ListID, &item.Item, &item.Quantity, &item.Unit,
		&item.Category, &checked, &checkedAt, &item.SortOrder,
	)
	if err != nil {
		return nil, err
	}

	item.Checked = checked != 0
	if checkedAt.Valid {
		item.CheckedAt = &checkedAt.Time
	}
	return &item, nil
}

const itemCols = `id, list_id, item, quantity, unit, category, checked, checked_at, sort_order`

func (s *GroceryStore) GetItemByID(ctx context.Context, id int64) (*model.GroceryItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemCols+` FROM grocery_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// FindItem looks up an item by its normalized name and unit.
func (s *GroceryStore) FindItem(ctx context.Context, listID int64, item, unit string) (*model.GroceryItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemCols+` FROM grocery_items WHERE list_id = ? AND item = ? AND unit = ?`,
		listID, item, unit,
	)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find item: %w", err)
	}
	return it, nil
}

func (s *GroceryStore) ListItems(ctx context.Context, listID int64) ([]model.GroceryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemCols+` FROM grocery_items WHERE list_id = ? ORDER BY sort_order ASC, id ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.GroceryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// NextSortOrder returns one past the largest sort order in the list, or 0
// for an empty list.
func (s *GroceryStore) NextSortOrder(ctx context.Context, listID int64) (int, error) {
	var next int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sort_order) + 1, 0) FROM grocery_items WHERE list_id = ?`,
		listID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next sort order: %w", err)
	}
	return next, nil
}

func (s *GroceryStore) InsertItem(ctx context.Context, listID int64, it model.NewGroceryItem) (*model.GroceryItem, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO grocery_items (list_id, item, quantity, unit, category, sort_order) VALUES (?, ?, ?, ?, ?, ?)`,
		listID, it.Item, it.Quantity, it.Unit, it.Category, it.SortOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItemByID(ctx, id)
}

// SetQuantity replaces an item's quantity and marks it unchecked, since more
// of it is needed again.
func (s *GroceryStore) SetQuantity(ctx context.Context, id int64, quantity string) (*model.GroceryItem, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE grocery_items SET quantity = ?, checked = 0, checked_at = NULL WHERE id = ?`,
		quantity, id,
	)
	if err != nil {
		return nil, fmt.Errorf("set quantity: %w", err)
	}
	return s.GetItemByID(ctx, id)
}

// ToggleChecked flips the checked flag. It returns nil, nil when the item does
// not exist.
func (s *GroceryStore) ToggleChecked(ctx context.Context, id int64) (*model.GroceryItem, error) {
	item, err := s.GetItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	if item.Checked {
		_, err = s.db.ExecContext(ctx,
			`UPDATE grocery_items SET checked = 0, checked_at = NULL WHERE id = ?`,
			id,
		)
	} else {
		_, err = s.db.ExecContext(ctx,
			`UPDATE grocery_items SET checked = 1, checked_at = ? WHERE id = ?`,
			time.Now().UTC(), id,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("toggle checked: %w", err)
	}
	return s.GetItemByID(ctx, id)
}

// DeleteItem removes an item and returns it, or nil if it did not exist.
func (s *GroceryStore) DeleteItem(ctx context.Context, id int64) (*model.GroceryItem, error) {
	item, err := s.GetItemByID(ctx, id)
	if err != nil || item == nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM grocery_items WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete item: %w", err)
	}
	return item, nil
}

// ClearItems deletes every item in the list and returns how many were removed.
func (s *GroceryStore) ClearItems(ctx context.Context, listID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM grocery_items WHERE list_id = ?`, listID)
	if err != nil {
		return 0, fmt.Errorf("clear items: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

func (s *GroceryStore) CountUnchecked(ctx context.Context, listID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM grocery_items WHERE list_id = ? AND checked = 0`,
		listID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unchecked: %w", err)
	}
	return count, nil
}
