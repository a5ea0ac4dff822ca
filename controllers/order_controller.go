package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pastelaria-dev/pastelaria-kiosk-api/config"
	"github.com/pastelaria-dev/pastelaria-kiosk-api/models"
	"github.com/pastelaria-dev/pastelaria-kiosk-api/services"
)

// OrderItemRequest is one line item in a checkout request
type OrderItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	Price     float64 `json:"price" binding:"gte=0"`
}

// CreateOrderRequest represents the request body for submitting an order
type CreateOrderRequest struct {
	UserID   string             `json:"userId" binding:"required"`
	UserName string             `json:"userName"`
	Items    []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Total    *float64           `json:"total"`
}

// orderService builds the order service against the current database and
// configuration. Tests swap either through config.SetDB / config.SetConfig.
func orderService() *services.OrderService {
	trustClientTotal := false
	if cfg := config.GetConfig(); cfg != nil {
		trustClientTotal = cfg.TrustClientTotal
	}
	return services.NewOrderService(config.GetDB(), trustClientTotal)
}

// ListActiveOrders handles GET /api/orders - the kitchen queue, oldest first
func ListActiveOrders(c *gin.Context) {
	db := config.GetDB()

	orders := []models.Order{}
	if err := db.Where("status = ?", models.StatusActive).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// ListOrderHistory handles GET /api/user-orders?userId= - the full history,
// newest first, optionally filtered to one customer
func ListOrderHistory(c *gin.Context) {
	db := config.GetDB()

	query := db.Order("created_at DESC")
	if userID := c.Query("userId"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	orders := []models.Order{}
	if err := query.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch order history",
			},
		})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// CreateOrder handles POST /api/orders - submits a checkout
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	items := make([]models.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	order, err := orderService().SubmitOrder(services.SubmitOrderInput{
		UserID:   req.UserID,
		UserName: req.UserName,
		Items:    items,
		Total:    req.Total,
	})
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": validationErr.Message,
				},
			})
			return
		}

		// Surface the underlying storage message to aid debugging
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// CompleteOrder handles DELETE /api/orders/:id - the kitchen's "mark ready"
// action, moving an order out of the active queue
func CompleteOrder(c *gin.Context) {
	orderID := c.Param("id")

	if err := orderService().CompleteOrder(orderID); err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_NOT_FOUND",
					"message": "No active order with this id",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
