package main

import (
	"fmt"
	"log"
	"os"

	"site-autobidder/internal/api/handlers"
	"site-autobidder/internal/api/middleware"
	"site-autobidder/internal/config"
	"site-autobidder/internal/data"

	"github.com/gin-gonic/gin"
)

func main() {
	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	cfgPath := os.Getenv("API_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	// The API only reads the store, so an unvalidated config is enough;
	// the site and key sections may be absent on a reporting-only host.
	cfg, err := config.LoadUnchecked(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	store, err := data.NewFileStore(cfg.Store.Dir)
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	// Set up Gin router
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Apply middleware
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	// Initialize handlers
	predictionHandler := handlers.NewPredictionHandler(store)
	ordersHandler := handlers.NewOrdersHandler(store)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		api.GET("/prediction/latest", predictionHandler.LatestPrediction)
		api.GET("/prediction/summary", predictionHandler.DaySummary)
		api.GET("/orders/latest", ordersHandler.LatestOrders)
	}

	// Serve static files from web/dist (if it exists)
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web/dist"
	}

	// Check if static directory exists
	if _, err := os.Stat(staticDir); err == nil {
		router.Static("/assets", staticDir+"/assets")
		router.StaticFile("/favicon.ico", staticDir+"/favicon.ico")

		// Serve index.html for all non-API routes (SPA routing)
		router.NoRoute(func(c *gin.Context) {
			path := c.Request.URL.Path
			if len(path) >= 4 && path[:4] == "/api" {
				c.JSON(404, gin.H{"error": "Not found"})
			} else {
				c.File(staticDir + "/index.html")
			}
		})
		log.Printf("Serving static files from %s", staticDir)
	} else {
		log.Printf("Static directory %s not found, skipping static file serving", staticDir)
	}

	// Start server
	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
