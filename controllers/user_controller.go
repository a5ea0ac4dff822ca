package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pastelaria-dev/pastelaria-kiosk-api/config"
	"github.com/pastelaria-dev/pastelaria-kiosk-api/models"
	"github.com/pastelaria-dev/pastelaria-kiosk-api/utils"
)

// CreateUserRequest represents the request body for registering a customer
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	CPF   string `json:"cpf" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
}

// ListUsers handles GET /api/users - lists every registered customer
func ListUsers(c *gin.Context) {
	db := config.GetDB()

	users := []models.User{}
	if err := db.Order("created_at ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch users",
			},
		})
		return
	}

	c.JSON(http.StatusOK, users)
}

// CreateUser handles POST /api/users - registers a customer keyed by CPF
func CreateUser(c *gin.Context) {
	var req CreateUserRequest
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

	cpf := utils.NormalizeCPF(req.CPF)
	if len(cpf) != utils.CPFLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CPF",
				"message": "CPF must contain exactly 11 digits",
			},
		})
		return
	}

	user := models.User{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		CPF:       cpf,
		Points:    0,
		Historico: models.OrderSnapshots{},
	}

	db := config.GetDB()
	if err := db.Create(&user).Error; err != nil {
		// Duplicate-key detection that works with both Postgres and SQLite
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") ||
			strings.Contains(errMsg, "unique constraint") ||
			strings.Contains(errMsg, "unique") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CPF_EXISTS",
					"message": "A user with this CPF already exists",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create user",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUserByCPF handles GET /api/users/cpf/:cpf - finds a customer by CPF,
// accepting punctuated or bare forms
func GetUserByCPF(c *gin.Context) {
	cpf := utils.NormalizeCPF(c.Param("cpf"))
	if cpf == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CPF",
				"message": "CPF is required",
			},
		})
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("cpf = ?", cpf).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "USER_NOT_FOUND",
					"message": "No user registered with this CPF",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch user",
			},
		})
		return
	}

	c.JSON(http.StatusOK, user)
}
