package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pastelaria-dev/pastelaria-kiosk-api/models"
)

// ErrOrderNotFound is returned when no active order matches the given id
var ErrOrderNotFound = errors.New("order not found")

// ValidationError signals a malformed order submission, distinct from a
// storage failure
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// OrderService owns the order lifecycle: submission into the active queue
// and the active -> completed transition triggered by the kitchen.
type OrderService struct {
	db               *gorm.DB
	trustClientTotal bool
}

// NewOrderService creates a new order service
func NewOrderService(db *gorm.DB, trustClientTotal bool) *OrderService {
	return &OrderService{
		db:               db,
		trustClientTotal: trustClientTotal,
	}
}

// SubmitOrderInput carries a checkout request into the service
type SubmitOrderInput struct {
	UserID   string
	UserName string
	Items    []models.OrderItem
	Total    *float64 // honored only when the service trusts client totals
}

// SubmitOrder validates a checkout, computes the total, and persists the
// new order. The order insert, the user's embedded history append, and the
// loyalty credit happen in one transaction, so a failure leaves no partial
// state behind. A submission for an unknown user still succeeds; only the
// history append and loyalty credit are skipped.
func (s *OrderService) SubmitOrder(in SubmitOrderInput) (*models.Order, error) {
	if in.UserID == "" {
		return nil, &ValidationError{Message: "userId is required"}
	}
	if len(in.Items) == 0 {
		return nil, &ValidationError{Message: "items must not be empty"}
	}
	for i, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, &ValidationError{Message: fmt.Sprintf("items[%d]: quantity must be greater than zero", i)}
		}
		if item.Price < 0 {
			return nil, &ValidationError{Message: fmt.Sprintf("items[%d]: price must not be negative", i)}
		}
	}

	total := computeTotal(in.Items)
	if s.trustClientTotal && in.Total != nil {
		total = *in.Total
	}

	order := models.Order{
		ID:        NewOrderID(),
		UserID:    in.UserID,
		UserName:  in.UserName,
		Items:     in.Items,
		Total:     total,
		Status:    models.StatusActive,
		CreatedAt: time.Now().UTC(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Where("id = ?", in.UserID).First(&user).Error
		switch {
		case err == nil:
			if order.UserName == "" {
				order.UserName = user.Name
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Unknown user: the order still goes through, without a
			// history append or loyalty credit
			user = models.User{}
		default:
			return err
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if user.ID == "" {
			return nil
		}

		updates := map[string]interface{}{
			"historico": append(user.Historico, order),
			"points":    user.Points + int(order.Total),
		}
		return tx.Model(&user).Updates(updates).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	return &order, nil
}

// CompleteOrder marks an active order as fulfilled: it leaves the kitchen
// queue, gains a completion timestamp, and the owning user's embedded
// snapshot is updated to match. Returns ErrOrderNotFound when no active
// order has the given id.
func (s *OrderService) CompleteOrder(orderID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.Where("id = ? AND status = ?", orderID, models.StatusActive).First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{
			"status":       models.StatusCompleted,
			"completed_at": &now,
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return err
		}

		// Keep the user's embedded snapshot in agreement with the
		// orders table
		var user models.User
		err = tx.Where("id = ?", order.UserID).First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		changed := false
		for i := range user.Historico {
			if user.Historico[i].ID == order.ID {
				user.Historico[i].Status = models.StatusCompleted
				user.Historico[i].CompletedAt = &now
				changed = true
			}
		}
		if !changed {
			return nil
		}
		return tx.Model(&user).Update("historico", user.Historico).Error
	})
}

// NewOrderID generates a time-derived order identifier. The millisecond
// prefix keeps ids roughly sortable by creation time; the uuid suffix makes
// same-millisecond submissions unique.
func NewOrderID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// computeTotal sums price x quantity across items with decimal arithmetic,
// rounded to 2 places
func computeTotal(items []models.OrderItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	f, _ := total.Round(2).Float64()
	return f
}
