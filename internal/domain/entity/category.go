package entity

import "time"

// Category agrupa productos de un comercio.
type Category struct {
	ID         string
	CommerceID string
	Name       string
	CreatedAt  time.Time
}
