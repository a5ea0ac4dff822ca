package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pastelaria-dev/pastelaria-kiosk-api/config"
	"github.com/pastelaria-dev/pastelaria-kiosk-api/models"
	"github.com/pastelaria-dev/pastelaria-kiosk-api/services"
)

// ListMenu handles GET /api/menu - returns the full product catalog
func ListMenu(c *gin.Context) {
	db := config.GetDB()

	products := []models.Product{}
	if err := db.Order("category ASC, name ASC").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch menu",
			},
		})
		return
	}

	// Resolve photo URLs. A failed resolution only drops that one photo.
	if imageService := services.GetImageService(); imageService != nil {
		for i := range products {
			if products[i].ImageKey == nil {
				continue
			}
			url, err := imageService.GetImageURL(*products[i].ImageKey)
			if err != nil {
				log.Printf("Failed to resolve image URL for product %s: %v", products[i].ID, err)
				continue
			}
			products[i].ImageURL = url
		}
	}

	c.JSON(http.StatusOK, products)
}
