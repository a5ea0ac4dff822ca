package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// OrderSnapshots holds a user's embedded order history, stored as a
// serialized JSON blob in the users table
type OrderSnapshots []Order

// Value implements driver.Valuer so gorm can persist the history
func (h OrderSnapshots) Value() (driver.Value, error) {
	return json.Marshal(h)
}

// Scan implements sql.Scanner so gorm can load the history
func (h *OrderSnapshots) Scan(value interface{}) error {
	if value == nil {
		*h = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	}
	return fmt.Errorf("unsupported column type for order snapshots: %T", value)
}

// User represents a registered kiosk customer. CPF is stored normalized
// (digits only, 11 characters) and is the unique customer key.
type User struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `json:"email"`
	CPF       string         `gorm:"uniqueIndex;not null" json:"cpf"`
	Points    int            `gorm:"not null;default:0" json:"points"`
	Historico OrderSnapshots `gorm:"type:text" json:"historico"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
