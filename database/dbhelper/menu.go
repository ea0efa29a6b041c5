package dbhelper

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ray-remotestate/swiftserve/models"
)

const menuColumns = `id, name, description, price, category, available, preparation_time, tags, nutrition_info, ai_recommended, image`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMenuItem(row rowScanner) (models.MenuItem, error) {
	var (
		item      models.MenuItem
		tags      []byte
		nutrition sql.NullString
	)
	err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Category, &item.Available,
		&item.PreparationTime, &tags, &nutrition, &item.AIRecommended, &item.Image)
	if err != nil {
		return models.MenuItem{}, err
	}

	item.Tags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &item.Tags); err != nil {
			return models.MenuItem{}, fmt.Errorf("decode tags of %s: %w", item.ID, err)
		}
	}
	if nutrition.Valid && nutrition.String != "" {
		item.NutritionInfo = &models.NutritionInfo{}
		if err := json.Unmarshal([]byte(nutrition.String), item.NutritionInfo); err != nil {
			return models.MenuItem{}, fmt.Errorf("decode nutrition of %s: %w", item.ID, err)
		}
	}
	return item, nil
}

func menuJSONArgs(item models.MenuItem) (string, any, error) {
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return "", nil, fmt.Errorf("encode tags: %w", err)
	}
	var nutrition any
	if item.NutritionInfo != nil {
		b, err := json.Marshal(item.NutritionInfo)
		if err != nil {
			return "", nil, fmt.Errorf("encode nutrition: %w", err)
		}
		nutrition = string(b)
	}
	return string(tagsJSON), nutrition, nil
}

func (s *Store) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+menuColumns+` FROM menu_items ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("query menu items: %w", err)
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu items: %w", err)
	}
	return items, nil
}

func (s *Store) GetMenuItem(ctx context.Context, id string) (models.MenuItem, error) {
	row := s.db.QueryRowContext(ctx, s.q(`SELECT `+menuColumns+` FROM menu_items WHERE id = ?`), id)
	item, err := scanMenuItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MenuItem{}, fmt.Errorf("menu item %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.MenuItem{}, fmt.Errorf("get menu item %s: %w", id, err)
	}
	return item, nil
}

func (s *Store) CountMenuItems(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM menu_items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count menu items: %w", err)
	}
	return count, nil
}

func (s *Store) CreateMenuItem(ctx context.Context, item models.MenuItem) error {
	return s.insertMenuItem(ctx, s.db, item)
}

func (s *Store) insertMenuItem(ctx context.Context, exec SQLExecutor, item models.MenuItem) error {
	tags, nutrition, err := menuJSONArgs(item)
	if err != nil {
		return err
	}
	_, err = exec.ExecContext(ctx, s.q(`
		INSERT INTO menu_items (`+menuColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		item.ID, item.Name, item.Description, item.Price, item.Category, item.Available,
		item.PreparationTime, tags, nutrition, item.AIRecommended, item.Image)
	if err != nil {
		return fmt.Errorf("insert menu item %s: %w", item.ID, err)
	}
	return nil
}

// SeedMenuItems inserts all items in one transaction.
func (s *Store) SeedMenuItems(ctx context.Context, items []models.MenuItem) error {
	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		for _, item := range items {
			if err := s.insertMenuItem(ctx, tx, item); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) UpdateMenuItem(ctx context.Context, item models.MenuItem) error {
	tags, nutrition, err := menuJSONArgs(item)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE menu_items
		SET name = ?, description = ?, price = ?, category = ?, available = ?,
			preparation_time = ?, tags = ?, nutrition_info = ?, ai_recommended = ?, image = ?
		WHERE id = ?`),
		item.Name, item.Description, item.Price, item.Category, item.Available,
		item.PreparationTime, tags, nutrition, item.AIRecommended, item.Image, item.ID)
	if err != nil {
		return fmt.Errorf("update menu item %s: %w", item.ID, err)
	}
	return expectAffected(res, "menu item", item.ID)
}

func (s *Store) DeleteMenuItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM menu_items WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete menu item %s: %w", id, err)
	}
	return expectAffected(res, "menu item", id)
}

// AdjustPrices applies a percentage change to every price in one transaction
// and returns how many items changed.
func (s *Store) AdjustPrices(ctx context.Context, percentage float64) (int, error) {
	updated := 0
	err := s.db.Tx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT id, price FROM menu_items`)
		if err != nil {
			return fmt.Errorf("query prices: %w", err)
		}
		type price struct {
			id    string
			value int64
		}
		var prices []price
		for rows.Next() {
			var p price
			if err := rows.Scan(&p.id, &p.value); err != nil {
				rows.Close()
				return fmt.Errorf("scan price: %w", err)
			}
			prices = append(prices, p)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate prices: %w", err)
		}

		for _, p := range prices {
			next := models.AdjustPrice(p.value, percentage)
			if next == p.value {
				continue
			}
			if _, err := tx.ExecContext(ctx, s.q(`UPDATE menu_items SET price = ? WHERE id = ?`), next, p.id); err != nil {
				return fmt.Errorf("update price of %s: %w", p.id, err)
			}
			updated++
		}
		return nil
	})
	return updated, err
}

func expectAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, models.ErrNotFound)
	}
	return nil
}
