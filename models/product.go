package models

import (
	"time"
)

// Product categories. The catalog is fixed to these three.
const (
	CategoryPastel = "pastel"
	CategoryBebida = "bebida"
	CategoryDoce   = "doce"
)

// Product represents an item on the stall's menu. Products are reference
// data: seeded once at startup and never mutated by the order flow.
type Product struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"not null;check:price >= 0" json:"price"`
	Category    string    `gorm:"not null;index" json:"category"` // pastel, bebida, doce
	ImageKey    *string   `json:"image_key,omitempty"`            // S3 key or local upload filename
	ImageURL    string    `gorm:"-" json:"image_url,omitempty"`   // computed field, resolved per request
	Popular     bool      `gorm:"not null;default:false" json:"popular"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// ValidCategory reports whether the given category is one of the fixed set.
func ValidCategory(category string) bool {
	switch category {
	case CategoryPastel, CategoryBebida, CategoryDoce:
		return true
	}
	return false
}
