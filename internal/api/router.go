package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mealdesk/canteen-api/internal/api/handler"
	"github.com/mealdesk/canteen-api/internal/api/middleware"
	"github.com/mealdesk/canteen-api/internal/core/domain"
	"github.com/mealdesk/canteen-api/internal/core/service"
	mongorepo "github.com/mealdesk/canteen-api/internal/infrastructure/db/mongo"
)

// RouterConfig carries everything NewRouter needs beyond the datastores.
type RouterConfig struct {
	JWTSecret  string
	DisplayLoc *time.Location
	Dispatcher handler.CollectionDispatcher
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("canteen"))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(db)
	catalogRepo := mongorepo.NewCatalogRepository(db)
	mealRepo := mongorepo.NewMealRepository(db)
	dashboardRepo := mongorepo.NewDashboardRepository(db)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, 24*time.Hour)
	catalogService := service.NewCatalogService(catalogRepo, cfg.Log)
	scopeService := service.NewScopeService(userRepo, catalogService, cfg.Log)
	reportService := service.NewReportService(mealRepo, mealRepo, cfg.DisplayLoc, cfg.Log)
	dashboardService := service.NewDashboardService(dashboardRepo, cfg.Log)

	authHandler := handler.NewAuthHandler(authService)
	scopeHandler := handler.NewScopeHandler(scopeService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	reportHandler := handler.NewReportHandler(reportService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	mealHandler := handler.NewMealHandler(cfg.Dispatcher)

	authMW := middleware.Auth(cfg.JWTSecret)
	staff := middleware.RBAC(domain.RoleAdmin, domain.RoleManager)
	collectors := middleware.RBAC(domain.RoleMealCollector, domain.RoleAdmin, domain.RoleManager)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Scope & catalog (the filter cascade) ---
	e.GET("/scope", scopeHandler.View, authMW)
	e.GET("/company", catalogHandler.Companies, authMW)
	e.GET("/places/company/:companyId", catalogHandler.Places, authMW)
	e.GET("/locations/places/:placeId", catalogHandler.Locations, authMW)

	// --- Meals ---
	e.GET("/meal/history", reportHandler.MealHistory, authMW, collectors)
	e.POST("/meal/collect", mealHandler.Collect, authMW, collectors)
	e.POST("/meal/collect/batch", mealHandler.CollectBatch, authMW, collectors)

	// --- Reports ---
	reports := e.Group("/reports", authMW, staff)
	reports.GET("/panding-fees-report", reportHandler.PendingFees)
	reports.GET("/user-report", reportHandler.Members)

	// --- Dashboard ---
	dashboard := e.Group("/dashboard", authMW, staff)
	dashboard.GET("/metrics", dashboardHandler.Metrics)
	dashboard.GET("/summary", dashboardHandler.Summary)
	dashboard.GET("/overview", dashboardHandler.Overview)
	dashboard.GET("/revenue-by-location", dashboardHandler.RevenueByLocation)
	dashboard.GET("/payment-amounts-daily", dashboardHandler.PaymentAmountsDaily)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
