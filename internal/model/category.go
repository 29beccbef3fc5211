package model

import "time"

// Category groups items for filtered listings.
type Category struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
