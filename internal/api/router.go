// Package api builds the HTTP surface of the back-office gateway.
package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/retailpos/backoffice/docs"
	"github.com/retailpos/backoffice/internal/api/handler"
	"github.com/retailpos/backoffice/internal/api/middleware"
	"github.com/retailpos/backoffice/internal/backend"
	"github.com/retailpos/backoffice/internal/core/domain"
	"github.com/retailpos/backoffice/internal/core/service"
	"github.com/retailpos/backoffice/internal/infrastructure/config"
	redisdb "github.com/retailpos/backoffice/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes
// registered. ctx bounds the background workers (the draft sweeper);
// cancel it at shutdown.
func NewRouter(ctx context.Context, cfg *config.Config, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("backoffice"))

	// --- Dependencies ---
	bc := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, log)
	authAPI := backend.NewAuth(bc)
	clientsAPI := backend.NewClients(bc)
	productsAPI := backend.NewProducts(bc)
	ordersAPI := backend.NewOrders(bc)
	inventoryAPI := backend.NewInventory(bc)
	salesAPI := backend.NewSales(bc)

	store := redisdb.NewSessionStore(rdb, cfg.Session.IdentityTTL, cfg.Session.Lifetime, log)
	sessions := service.NewSessionService(authAPI, store, cfg.SessionSecret, cfg.Session.Lifetime, log)
	drafts := service.NewDraftManager(productsAPI, ordersAPI, store, cfg.PageSize.Search, log)
	drafts.Start(ctx)

	authHandler := handler.NewAuthHandler(sessions, authAPI, cfg.Session.Lifetime, cfg.PageSize.Operators, cfg.PageSize.NavWindow)
	clientHandler := handler.NewClientHandler(clientsAPI, cfg.PageSize.Clients, cfg.PageSize.NavWindow)
	productHandler := handler.NewProductHandler(productsAPI, cfg.PageSize.Products, cfg.PageSize.Search, cfg.PageSize.NavWindow)
	orderHandler := handler.NewOrderHandler(ordersAPI, drafts, cfg.PageSize.Orders, cfg.PageSize.NavWindow)
	inventoryHandler := handler.NewInventoryHandler(inventoryAPI)
	uploadHandler := handler.NewUploadHandler(productsAPI, inventoryAPI)
	salesHandler := handler.NewSalesHandler(salesAPI, cfg.PageSize.Sales, cfg.PageSize.NavWindow)

	anyRole := middleware.SessionGuard(sessions)
	staff := middleware.SessionGuard(sessions, domain.RoleSupervisor, domain.RoleOperator)
	supervisor := middleware.SessionGuard(sessions, domain.RoleSupervisor)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, anyRole)
	auth.POST("/create-operator", authHandler.CreateOperator, supervisor)
	auth.GET("/get-all-operators", authHandler.Operators, supervisor)

	api := e.Group("/api")

	// --- Orders (operators and supervisors) ---
	orders := api.Group("/orders", staff)
	orders.GET("", orderHandler.List)
	orders.GET("/filter", orderHandler.Filter)
	orders.GET("/search/:id", orderHandler.SearchByID)
	orders.PUT("/cancel/:id", orderHandler.Cancel)
	orders.GET("/invoice/:id", orderHandler.Invoice)

	// Draft editing workflow.
	orders.POST("/drafts", orderHandler.CreateDraft)
	orders.GET("/drafts/:draftId", orderHandler.GetDraft)
	orders.DELETE("/drafts/:draftId", orderHandler.DiscardDraft)
	orders.POST("/drafts/:draftId/submit", orderHandler.SubmitDraft)
	orders.POST("/drafts/:draftId/items", orderHandler.AddDraftItem)
	orders.DELETE("/drafts/:draftId/items/:index", orderHandler.RemoveDraftItem)
	orders.PATCH("/drafts/:draftId/items/:index", orderHandler.UpdateDraftField)
	orders.GET("/drafts/:draftId/items/:index/suggestions", orderHandler.DraftSuggestions)
	orders.POST("/drafts/:draftId/items/:index/select", orderHandler.SelectDraftSuggestion)

	// Product search backs the draft autocomplete, so operators need it.
	api.GET("/products/search", productHandler.Search, staff)

	// --- Supervisor-only pages ---
	api.GET("/products", productHandler.List, supervisor)
	api.POST("/products", productHandler.Add, supervisor)
	api.PUT("/products", productHandler.Edit, supervisor)
	api.POST("/products/upload", uploadHandler.Products, supervisor)
	api.POST("/uploads/result-file", uploadHandler.ResultFile, supervisor)

	clients := api.Group("/clients", supervisor)
	clients.GET("", clientHandler.List)
	clients.POST("", clientHandler.Add)
	clients.PUT("", clientHandler.Update)
	clients.GET("/search", clientHandler.Search)

	api.PUT("/inventory/update/:barcode", inventoryHandler.Update, supervisor)
	api.POST("/inventory/bulk-update", uploadHandler.Inventory, supervisor)

	sales := api.Group("/sales", supervisor)
	sales.GET("", salesHandler.List)
	sales.GET("/daily", salesHandler.Daily)
	sales.GET("/clients", salesHandler.ClientSales)

	// --- Observability (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(rdb, cfg.Backend.BaseURL)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
