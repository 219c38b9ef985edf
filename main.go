package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"copysmith-backend/internal/api"
	"copysmith-backend/internal/auth"
	"copysmith-backend/internal/database"
	"copysmith-backend/internal/gen"
	"copysmith-backend/internal/workflow"
)

func main() {
	// Load .env if present; real environment wins
	_ = godotenv.Load()

	// Get database path from environment or default
	dbPath := os.Getenv("COPYSMITH_DB_PATH")
	if dbPath == "" {
		// Default to current directory for development
		dbPath = "./copysmith.db"
	}

	// Ensure absolute path
	if !filepath.IsAbs(dbPath) {
		cwd, _ := os.Getwd()
		dbPath = filepath.Join(cwd, dbPath)
	}

	// Initialize database
	log.Printf("Initializing database at %s", dbPath)
	if err := database.Open(database.Config{Path: dbPath}); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Initialize generation gateway
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}
	generator, err := gen.NewGeminiGenerator(context.Background(), apiKey, os.Getenv("GEMINI_MODEL"))
	if err != nil {
		log.Fatalf("Failed to initialize generator: %v", err)
	}

	// Initialize auth service and workflow registry
	authSvc := auth.NewService()
	registry := workflow.NewRegistry(database.NewDescriptionRepo(), generator)
	registry.Observe(authSvc)
	defer registry.Close()

	e := echo.New()
	e.HideBanner = true

	// Middleware
	corsOrigin := os.Getenv("COPYSMITH_CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "http://localhost:3000"
	}
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// API routes
	api.RegisterRoutes(e.Group("/api"), authSvc, registry)

	// Get port from environment or default
	port := os.Getenv("COPYSMITH_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting Copysmith backend on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
