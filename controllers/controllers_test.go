package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pastelaria-dev/pastelaria-kiosk-api/config"
	"github.com/pastelaria-dev/pastelaria-kiosk-api/models"
)

// setupTestDB opens an in-memory database with all models migrated and
// installs it as the active connection
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	return db
}

// setupTestRouter creates a Gin engine in test mode
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// seedTestMenu inserts a small fixed catalog
func seedTestMenu(t *testing.T, db *gorm.DB) []models.Product {
	t.Helper()

	products := []models.Product{
		{ID: "pastel-carne", Name: "Pastel de Carne", Price: 12.5, Category: models.CategoryPastel, Popular: true},
		{ID: "coca-cola", Name: "Coca-Cola", Price: 6, Category: models.CategoryBebida},
		{ID: "churros", Name: "Churros", Price: 9, Category: models.CategoryDoce},
	}
	if err := db.Create(&products).Error; err != nil {
		t.Fatalf("Failed to seed test menu: %v", err)
	}
	return products
}

// makePNGHeader builds a small multipart PNG upload for photo tests
func makePNGHeader(t *testing.T) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", "foto.png")
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte("fake png bytes")); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("Failed to parse multipart form: %v", err)
	}

	return req.MultipartForm.File["image"][0]
}

// seedTestUser inserts one registered customer
func seedTestUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()

	user := models.User{
		ID:   "u1",
		Name: "Maria Silva",
		CPF:  "12345678909",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed test user: %v", err)
	}
	return user
}
