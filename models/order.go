package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Order statuses
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// OrderItem is a single line of an order. Name and price are snapshotted at
// order time and stay fixed even if the product is edited later.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderItems is stored as a serialized JSON blob in the orders table
type OrderItems []OrderItem

// Value implements driver.Valuer so gorm can persist the item list
func (items OrderItems) Value() (driver.Value, error) {
	return json.Marshal(items)
}

// Scan implements sql.Scanner so gorm can load the item list
func (items *OrderItems) Scan(value interface{}) error {
	if value == nil {
		*items = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, items)
	case string:
		return json.Unmarshal([]byte(v), items)
	}
	return fmt.Errorf("unsupported column type for order items: %T", value)
}

// Order represents a kiosk order. An order is visible in two projections:
// the active queue shown to the kitchen (status = active) and the full
// history (every row, regardless of status).
type Order struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	UserID      string     `gorm:"index;not null" json:"userId"` // soft reference, user rows may come and go
	UserName    string     `json:"userName"`
	Items       OrderItems `gorm:"type:text;not null" json:"items"`
	Total       float64    `gorm:"not null;check:total >= 0" json:"total"`
	Status      string     `gorm:"not null;default:'active';index" json:"status"` // active, completed
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"` // set only on the active -> completed transition
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
