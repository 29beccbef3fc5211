package model

import "time"

// Item is a catalog entry. A non-nil DeletedAt means the item is trashed:
// hidden from public listings but still addressable by ID for restore.
type Item struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	CostPrice    float64     `json:"cost_price"`
	SellPrice    float64     `json:"sell_price"`
	Quantity     int64       `json:"quantity"`
	CategoryID   int64       `json:"category_id"`
	CategoryName string      `json:"category_name,omitempty"`
	Images       []ItemImage `json:"images,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	DeletedAt    *time.Time  `json:"deleted_at,omitempty"`
}

// ItemImage is a stored image file associated with an item.
// Path is relative to the upload directory.
type ItemImage struct {
	ID       int64  `json:"id"`
	ItemID   int64  `json:"item_id"`
	Path     string `json:"path"`
	Position int    `json:"position"`
}

// MaxItemImages is the maximum number of images per item.
const MaxItemImages = 5

// ItemStats are the aggregate metrics shown on the admin dashboard.
type ItemStats struct {
	TotalItems   int64   `json:"total_items"`
	TotalStock   int64   `json:"total_stock"`
	TotalValue   float64 `json:"total_value"`
	AvgSellPrice float64 `json:"avg_sell_price"`
}
