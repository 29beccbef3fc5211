package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jkovac/inventar/internal/model"
)

// ErrNotDeleted is returned when restoring an item that is not trashed.
var ErrNotDeleted = errors.New("item is not deleted")

// ItemInput holds the writable fields of an item.
type ItemInput struct {
	Name        string
	Description string
	CostPrice   float64
	SellPrice   float64
	Quantity    int64
	CategoryID  int64
}

// ItemFilter narrows active item listings. Zero values mean "no filter".
type ItemFilter struct {
	Search     string
	CategoryID int64
	Limit      int
	Offset     int
}

// Suggestion is a minimal item reference for autocomplete responses.
type Suggestion struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

const itemColumns = `i.id, i.name, i.description, i.cost_price, i.sell_price,
	i.quantity, i.category_id, c.description AS category_name,
	i.created_at, i.updated_at, i.deleted_at`

// CreateItem creates a new item with up to model.MaxItemImages image paths.
// Image files must already be on disk before this is called.
func CreateItem(ctx context.Context, db *sql.DB, in ItemInput, imagePaths []string) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (name, description, cost_price, sell_price, quantity, category_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		in.Name, in.Description, in.CostPrice, in.SellPrice, in.Quantity, in.CategoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	if len(imagePaths) > 0 {
		if err := ReplaceItemImages(ctx, db, id, imagePaths); err != nil {
			return nil, err
		}
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, active or trashed, with its images.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	var description sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+`
		 FROM items i JOIN categories c ON c.id = i.category_id
		 WHERE i.id = ?`, id,
	).Scan(&item.ID, &item.Name, &description, &item.CostPrice, &item.SellPrice,
		&item.Quantity, &item.CategoryID, &item.CategoryName,
		&item.CreatedAt, &item.UpdatedAt, &item.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.Description = description.String

	images, err := listItemImages(ctx, db, id)
	if err != nil {
		return nil, err
	}
	item.Images = images
	return item, nil
}

// ListActiveItems returns non-deleted items, newest first, optionally
// narrowed by category, free-text search, and limit/offset pagination.
func ListActiveItems(ctx context.Context, db *sql.DB, filter ItemFilter) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + `
		 FROM items i JOIN categories c ON c.id = i.category_id
		 WHERE i.deleted_at IS NULL`
	var args []any

	if filter.CategoryID != 0 {
		query += ` AND i.category_id = ?`
		args = append(args, filter.CategoryID)
	}
	if filter.Search != "" {
		query += ` AND (i.name LIKE ? OR i.description LIKE ?)`
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	query += ` ORDER BY i.id DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	return queryItems(ctx, db, query, args...)
}

// ListAllItems returns every item including trashed ones, newest first.
// Trashed items carry a non-nil DeletedAt.
func ListAllItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	return queryItems(ctx, db,
		`SELECT `+itemColumns+`
		 FROM items i JOIN categories c ON c.id = i.category_id
		 ORDER BY i.id DESC`,
	)
}

// SearchItems returns active items whose name or description contains term,
// newest first.
func SearchItems(ctx context.Context, db *sql.DB, term string) ([]model.Item, error) {
	return ListActiveItems(ctx, db, ItemFilter{Search: term})
}

// AutocompleteItems returns up to limit active item names starting with prefix.
func AutocompleteItems(ctx context.Context, db *sql.DB, prefix string, limit int) ([]Suggestion, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name FROM items
		 WHERE deleted_at IS NULL AND name LIKE ?
		 ORDER BY name LIMIT ?`,
		prefix+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("autocompleting items: %w", err)
	}
	defer rows.Close()

	var suggestions []Suggestion
	for rows.Next() {
		var s Suggestion
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scanning suggestion: %w", err)
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, rows.Err()
}

// UpdateItem updates all writable fields of an item. Callers merge partial
// input with the existing record first.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, in ItemInput) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET name = ?, description = ?, cost_price = ?, sell_price = ?,
		     quantity = ?, category_id = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		in.Name, in.Description, in.CostPrice, in.SellPrice, in.Quantity, in.CategoryID, id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// DeleteItem soft-deletes an item by stamping deleted_at. Deleting an
// already-trashed item is a no-op success.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// RestoreItem clears an item's deletion stamp. Returns ErrNotDeleted when the
// item exists but is not trashed.
func RestoreItem(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("restoring item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("restoring item: %w", err)
	}
	if affected == 0 {
		return ErrNotDeleted
	}
	return nil
}

// ReplaceItemImages replaces the full image set of an item.
func ReplaceItemImages(ctx context.Context, db *sql.DB, itemID int64, paths []string) error {
	if _, err := db.ExecContext(ctx,
		`DELETE FROM item_images WHERE item_id = ?`, itemID,
	); err != nil {
		return fmt.Errorf("clearing item images: %w", err)
	}

	for pos, path := range paths {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO item_images (item_id, path, position) VALUES (?, ?, ?)`,
			itemID, path, pos,
		); err != nil {
			return fmt.Errorf("inserting item image: %w", err)
		}
	}
	return nil
}

// GetItemStats computes the aggregate metrics over the full catalog,
// including trashed items, matching what the admin table displays.
func GetItemStats(ctx context.Context, db *sql.DB) (*model.ItemStats, error) {
	stats := &model.ItemStats{}
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(quantity), 0),
		        COALESCE(SUM(sell_price * quantity), 0),
		        COALESCE(AVG(sell_price), 0)
		 FROM items`,
	).Scan(&stats.TotalItems, &stats.TotalStock, &stats.TotalValue, &stats.AvgSellPrice)
	if err != nil {
		return nil, fmt.Errorf("computing item stats: %w", err)
	}
	return stats, nil
}

// queryItems runs an item query and attaches images to each row.
func queryItems(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var description sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &description, &item.CostPrice, &item.SellPrice,
			&item.Quantity, &item.CategoryID, &item.CategoryName,
			&item.CreatedAt, &item.UpdatedAt, &item.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.Description = description.String
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := attachImages(ctx, db, items); err != nil {
		return nil, err
	}
	return items, nil
}

// attachImages loads all item images in one query and distributes them.
func attachImages(ctx context.Context, db *sql.DB, items []model.Item) error {
	if len(items) == 0 {
		return nil
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, item_id, path, position FROM item_images ORDER BY item_id, position`,
	)
	if err != nil {
		return fmt.Errorf("listing item images: %w", err)
	}
	defer rows.Close()

	byItem := make(map[int64][]model.ItemImage)
	for rows.Next() {
		var img model.ItemImage
		if err := rows.Scan(&img.ID, &img.ItemID, &img.Path, &img.Position); err != nil {
			return fmt.Errorf("scanning item image: %w", err)
		}
		byItem[img.ItemID] = append(byItem[img.ItemID], img)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range items {
		items[i].Images = byItem[items[i].ID]
	}
	return nil
}

// listItemImages returns an item's images ordered by position.
func listItemImages(ctx context.Context, db *sql.DB, itemID int64) ([]model.ItemImage, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, item_id, path, position FROM item_images
		 WHERE item_id = ? ORDER BY position`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item images: %w", err)
	}
	defer rows.Close()

	var images []model.ItemImage
	for rows.Next() {
		var img model.ItemImage
		if err := rows.Scan(&img.ID, &img.ItemID, &img.Path, &img.Position); err != nil {
			return nil, fmt.Errorf("scanning item image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}
