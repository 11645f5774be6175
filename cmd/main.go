package main

import (
	"dealer-service/internal/handler"
	"dealer-service/internal/middleware"
	"dealer-service/internal/view"
	"dealer-service/pkg/config"
	"dealer-service/pkg/database"
	"dealer-service/pkg/jwtutil"
	"dealer-service/pkg/logger"
	"dealer-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting dealership service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize session token utility and cookie parameters
	jwtutil.Initialize(&cfg.Session)
	middleware.Initialize(&cfg.Session, !cfg.Server.IsDevelopment())
	log.Info("Session utilities initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Initialize Echo framework
	e := echo.New()

	// HTML view renderer over the embedded templates
	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatal("Failed to parse view templates", zap.Error(err))
	}
	e.Renderer = renderer
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover()) // Add recovery middleware
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())
	e.Use(middleware.CheckJWT) // attaches the request identity for every route

	// Static assets
	e.Static("/css", "public/css")
	e.Static("/js", "public/js")
	e.Static("/images", "public/images")

	// Public routes - no authentication required
	e.GET("/", handler.Home)
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Account routes
	account := e.Group("/account")
	account.GET("/login", handler.BuildLogin)
	account.POST("/login", handler.Login)
	account.GET("/register", handler.BuildRegister)
	account.POST("/register", handler.Register)
	account.GET("/logout", handler.Logout)
	account.GET("/", handler.BuildManagement, middleware.RequireLogin)
	account.GET("/update/:account_id", handler.BuildUpdateAccount, middleware.RequireLogin)
	account.POST("/update", handler.UpdateAccount, middleware.RequireLogin)
	account.POST("/update-password", handler.UpdatePassword, middleware.RequireLogin)

	// Public inventory browsing
	inv := e.Group("/inv")
	inv.GET("/type/:classificationId", handler.BuildByClassificationID)
	inv.GET("/detail/:inv_id", handler.BuildVehicleDetail)
	inv.GET("/getInventory/:classification_id", handler.GetInventoryJSON)

	// Inventory management - restricted to staff accounts
	inv.GET("/", handler.BuildManagementView, middleware.RequireLogin, middleware.RequireStaff)
	inv.GET("/add-classification", handler.BuildAddClassification, middleware.RequireLogin, middleware.RequireStaff)
	inv.POST("/add-classification", handler.AddClassification, middleware.RequireLogin, middleware.RequireStaff)
	inv.GET("/add-inventory", handler.BuildAddInventory, middleware.RequireLogin, middleware.RequireStaff)
	inv.POST("/add-inventory", handler.AddInventory, middleware.RequireLogin, middleware.RequireStaff)
	inv.GET("/edit/:inv_id", handler.BuildEditInventory, middleware.RequireLogin, middleware.RequireStaff)
	inv.POST("/edit/:inv_id", handler.UpdateInventory, middleware.RequireLogin, middleware.RequireStaff)
	inv.GET("/delete/:inv_id", handler.BuildDeleteInventory, middleware.RequireLogin, middleware.RequireStaff)
	inv.POST("/delete/:inv_id", handler.DeleteInventory, middleware.RequireLogin, middleware.RequireStaff)

	// Review routes - all require an authenticated identity
	reviews := e.Group("/reviews")
	reviews.Use(middleware.RequireLogin)
	reviews.POST("/add", handler.AddReview)
	reviews.GET("/edit/:review_id", handler.BuildEditReview)
	reviews.POST("/edit/:review_id", handler.UpdateReview)
	reviews.GET("/delete/:review_id", handler.BuildDeleteReview)
	reviews.POST("/delete/:review_id", handler.DeleteReview)

	// Get server port from configuration
	port := cfg.Server.Port

	// Start server
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
