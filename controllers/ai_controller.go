package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pastelaria-dev/pastelaria-kiosk-api/config"
	"github.com/pastelaria-dev/pastelaria-kiosk-api/models"
	"github.com/pastelaria-dev/pastelaria-kiosk-api/services"
)

// SuggestionRequest represents the request body for a direct completion call
type SuggestionRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// ChatRequest represents the request body for the chat widget
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"sessionId"`
}

// NudgeRequest carries the current cart for a category-coverage nudge
type NudgeRequest struct {
	Items []OrderItemRequest `json:"items"`
}

// UpsellRequest carries the kiosk state for a server-built upsell prompt
type UpsellRequest struct {
	UserID string             `json:"userId"`
	Items  []OrderItemRequest `json:"items"`
}

// requireGenerator returns the configured text generator, or writes a 503
// and returns nil when the completion service is unavailable
func requireGenerator(c *gin.Context) services.TextGenerator {
	generator := services.GetTextGenerator()
	if generator == nil || !generator.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AI_DISABLED",
				"message": "The suggestion service is not configured",
			},
		})
		return nil
	}
	return generator
}

// Suggestion handles POST /api/ai/suggestion - forwards a client-built
// prompt to the completion service
func Suggestion(c *gin.Context) {
	var req SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "prompt is required",
			},
		})
		return
	}

	generator := requireGenerator(c)
	if generator == nil {
		return
	}

	text, err := generator.GenerateText(c.Request.Context(), req.Prompt)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPSTREAM_UNAVAILABLE",
				"message": "The suggestion service did not respond",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}

// Chat handles POST /api/ai/chat - one turn of the kiosk chat widget
func Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "message is required",
			},
		})
		return
	}

	if requireGenerator(c) == nil {
		return
	}

	chatService := services.GetChatService()
	if chatService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AI_DISABLED",
				"message": "The chat service is not configured",
			},
		})
		return
	}

	text, sessionID, err := chatService.SendMessage(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPSTREAM_UNAVAILABLE",
				"message": "The chat service did not respond",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text, "sessionId": sessionID})
}

// Upsell handles POST /api/ai/upsell - a server-built suggestion from the
// customer's history and current cart. Degrades to canned text instead of
// failing, so the kiosk flow never sees an error here.
func Upsell(c *gin.Context) {
	var req UpsellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
			},
		})
		return
	}

	db := config.GetDB()

	var history []models.Order
	if req.UserID != "" {
		if err := db.Where("user_id = ?", req.UserID).
			Order("created_at DESC").
			Find(&history).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to fetch order history",
				},
			})
			return
		}
	}

	var menu []models.Product
	if err := db.Find(&menu).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch menu",
			},
		})
		return
	}

	suggestionService := services.NewSuggestionService(services.GetTextGenerator())
	text := suggestionService.Suggest(c.Request.Context(), history, cartItems(req.Items), menu)

	c.JSON(http.StatusOK, gin.H{"text": text})
}

// Nudge handles POST /api/ai/nudge - the "add a drink / add a dessert"
// nudge. An empty text means no nudge applies.
func Nudge(c *gin.Context) {
	var req NudgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
			},
		})
		return
	}

	db := config.GetDB()
	var menu []models.Product
	if err := db.Find(&menu).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch menu",
			},
		})
		return
	}

	suggestionService := services.NewSuggestionService(services.GetTextGenerator())
	text := suggestionService.CartNudge(c.Request.Context(), cartItems(req.Items), menu)

	c.JSON(http.StatusOK, gin.H{"text": text})
}

// ChefMessage handles GET /api/ai/chef - a short note from the chef
func ChefMessage(c *gin.Context) {
	suggestionService := services.NewSuggestionService(services.GetTextGenerator())
	text := suggestionService.ChefMessage(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"text": text})
}

// cartItems converts request line items into model items
func cartItems(items []OrderItemRequest) []models.OrderItem {
	cart := make([]models.OrderItem, len(items))
	for i, item := range items {
		cart[i] = models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}
	return cart
}
