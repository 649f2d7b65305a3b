package main

import (
	"fmt"
	"os"

	"github.com/Zuis050623/jajan-utm/internal/handler"
	mid "github.com/Zuis050623/jajan-utm/internal/middleware"
	"github.com/Zuis050623/jajan-utm/internal/model"
	"github.com/Zuis050623/jajan-utm/pkg/config"
	"github.com/Zuis050623/jajan-utm/pkg/database"
	"github.com/Zuis050623/jajan-utm/pkg/jwtutil"
	"github.com/Zuis050623/jajan-utm/pkg/logger"
	"github.com/Zuis050623/jajan-utm/pkg/metrics"
	"github.com/Zuis050623/jajan-utm/pkg/storage"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found or error loading: %v\n", err)
	}

	// Load configuration
	conf, err := config.Load("product-catalog")
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.InitLogger(&logger.LogConfig{
		Level:       conf.Log.Level,
		Environment: conf.Server.Env,
		ServiceName: conf.ServiceName,
	})
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()

	// Initialize database connection
	_, err = database.InitDB(&conf.DB)
	if err != nil {
		log.Fatal("Failed to initialize database")
	}

	// Run migrations for catalog models
	if err := database.MigrateModels(
		&model.Merchant{},
		&model.Product{},
		&model.Comment{},
		&model.Favorite{},
		&model.PromotionPhoto{},
	); err != nil {
		log.Fatal("Failed to migrate database models")
	}

	// Initialize JWT utility for merchant token validation
	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      conf.JWT.SigningKey,
		ExpirationHours: conf.JWT.ExpirationHours,
	})

	// Initialize photo storage
	photos := storage.NewDiskStore(conf.Storage.BaseDir, conf.Storage.MaxPhotoKB)

	// Initialize HTTP metrics
	httpMetrics := metrics.NewHTTPMetrics(conf.ServiceName)

	// Initialize Echo framework
	e := echo.New()

	// Apply middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(httpMetrics.Middleware())

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(metrics.GetPrometheusHandler()))

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Product catalog routes - merchant authentication required
	products := handler.NewProductHandler(photos)
	api := e.Group("/api/products", mid.MerchantAuthMiddleware(jwt))
	api.GET("", products.List)
	api.GET("/new", products.New)
	api.POST("", products.Store)
	api.GET("/:id/edit", products.Edit)
	api.PUT("/:id", products.Update)
	api.DELETE("/:id", products.Destroy)

	// Start server
	log.Info("Starting product-catalog on port " + conf.Server.Port)
	e.Logger.Fatal(e.Start(":" + conf.Server.Port))
}
