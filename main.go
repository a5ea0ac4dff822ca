package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pastelaria-dev/pastelaria-kiosk-api/config"
	"github.com/pastelaria-dev/pastelaria-kiosk-api/controllers"
	"github.com/pastelaria-dev/pastelaria-kiosk-api/models"
	"github.com/pastelaria-dev/pastelaria-kiosk-api/services"
	"github.com/pastelaria-dev/pastelaria-kiosk-api/utils"
)

func main() {
	log.Println("Starting Pastelaria kiosk API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	if err := config.SeedMenu(db, cfg.MenuSeedFile); err != nil {
		log.Fatalf("Failed to seed menu: %v", err)
	}

	// Generative-language gateway. With no API key the direct AI endpoints
	// answer 503 and the embedded helpers fall back to canned text.
	generator := services.InitGenAIService(cfg)
	services.InitChatService(generator)
	if !generator.Enabled() {
		log.Println("GENAI_API_KEY not set, suggestion and chat endpoints are disabled")
	}

	// Product photo storage: S3 when a bucket is configured, otherwise the
	// local uploads directory
	if cfg.S3Enabled() {
		if _, err := services.InitS3Service(); err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
		services.InitImageService(services.GetS3Service())
		log.Printf("Product photos stored in S3 bucket %s", cfg.AWSS3Bucket)
	} else {
		utils.UploadDir = cfg.UploadDir
		services.InitLocalImageService(cfg.UploadDir)
		log.Printf("Product photos stored locally under %s", cfg.UploadDir)
	}

	router := setupRouter()

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with all API routes
func setupRouter() *gin.Engine {
	router := gin.Default()

	// The kiosk UI is served from a separate origin
	router.Use(cors.Default())

	api := router.Group("/api")
	{
		api.GET("/health", healthCheck)

		api.GET("/menu", controllers.ListMenu)
		api.POST("/menu/:id/image", controllers.UploadProductImage)
		api.GET("/uploads/:filename", controllers.GetUploadedImage)

		api.GET("/users", controllers.ListUsers)
		api.POST("/users", controllers.CreateUser)
		api.GET("/users/cpf/:cpf", controllers.GetUserByCPF)

		api.GET("/orders", controllers.ListActiveOrders)
		api.POST("/orders", controllers.CreateOrder)
		api.DELETE("/orders/:id", controllers.CompleteOrder)
		api.GET("/user-orders", controllers.ListOrderHistory)

		ai := api.Group("/ai")
		{
			ai.POST("/suggestion", controllers.Suggestion)
			ai.POST("/chat", controllers.Chat)
			ai.POST("/upsell", controllers.Upsell)
			ai.POST("/nudge", controllers.Nudge)
			ai.GET("/chef", controllers.ChefMessage)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Pastelaria kiosk API is running",
	})
}
