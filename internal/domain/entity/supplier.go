package entity

import "time"

// Supplier es un proveedor del comercio.
type Supplier struct {
	ID          string
	CommerceID  string
	Name        string
	ContactName string
	Phone       string
	Email       string
	Address     string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
