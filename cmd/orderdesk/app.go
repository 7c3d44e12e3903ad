package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/agamariel/orderdesk/internal/auth"
	"github.com/agamariel/orderdesk/internal/config"
	"github.com/agamariel/orderdesk/internal/handlers"
	"github.com/agamariel/orderdesk/internal/migrations"
	"github.com/agamariel/orderdesk/internal/services"
	"github.com/agamariel/orderdesk/internal/storage"
	"github.com/agamariel/orderdesk/internal/tracking"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// App структура для управления приложением и его зависимостями.
type App struct {
	cfg    *config.Config
	dbPool *pgxpool.Pool
	echo   *echo.Echo
	worker *services.ShipmentWorker

	// Handlers
	adminHandler     *handlers.AdminHandler
	orderHandler     *handlers.OrderHandler
	dashboardHandler *handlers.DashboardHandler
}

// NewApp создаёт и инициализирует новое приложение.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{
		cfg: cfg,
	}

	if err := app.initDatabase(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initDependencies(); err != nil {
		return nil, fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	app.initServer()

	return app, nil
}

// initDatabase инициализирует подключение к базе данных и выполняет миграции.
func (app *App) initDatabase(ctx context.Context) error {
	if app.cfg.DatabaseURI == "" {
		return fmt.Errorf("DATABASE_URI is required")
	}

	// Применение миграций
	log.Println("Running database migrations...")
	sqlDB, err := sql.Open("pgx", app.cfg.DatabaseURI)
	if err != nil {
		return fmt.Errorf("unable to open database connection: %w", err)
	}
	defer sqlDB.Close()

	if err := migrations.Run(sqlDB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Migrations completed successfully")

	// Подключение к базе данных через pgxpool
	dbPool, err := pgxpool.New(ctx, app.cfg.DatabaseURI)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		return fmt.Errorf("unable to ping database: %w", err)
	}

	app.dbPool = dbPool
	log.Println("Successfully connected to database")

	return nil
}

// initDependencies инициализирует все зависимости приложения (storage, services, handlers).
func (app *App) initDependencies() error {
	// Storage layer
	adminStorage := storage.NewPostgresAdminStorage(app.dbPool)
	orderStorage := storage.NewPostgresOrderStorage(app.dbPool)
	historyStorage := storage.NewPostgresHistoryStorage(app.dbPool)
	shipmentStorage := storage.NewPostgresShipmentStorage(app.dbPool)
	dashboardStorage := storage.NewPostgresDashboardStorage(app.dbPool)

	// Service layer
	adminService := services.NewAdminService(adminStorage, app.cfg.JWTSecret, app.cfg.TokenExpiration)
	orderService := services.NewOrderService(app.dbPool, orderStorage, historyStorage, shipmentStorage, app.cfg.StrictTransitions)
	dashboardService := services.NewDashboardService(dashboardStorage)
	exportService := services.NewExportService(orderStorage)

	// Handler layer
	app.adminHandler = handlers.NewAdminHandler(adminService)
	app.orderHandler = handlers.NewOrderHandler(orderService, exportService)
	app.dashboardHandler = handlers.NewDashboardHandler(dashboardService)

	// Воркер отслеживания отгрузок
	if app.cfg.CarrierAddress != "" {
		log.Printf("Initializing shipment worker with address: %s", app.cfg.CarrierAddress)
		client := tracking.NewHTTPCarrierClient(app.cfg.CarrierAddress, 5*time.Second)
		app.worker = services.NewShipmentWorker(shipmentStorage, client, 5*time.Minute, log.Default())
		log.Println("Shipment worker initialized successfully")
	} else {
		log.Println("WARNING: CarrierAddress is not configured. Shipment statuses will not be refreshed!")
	}

	return nil
}

// initServer инициализирует HTTP-сервер и настраивает маршруты.
func (app *App) initServer() {
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	// Публичные маршруты (не требуют аутентификации)
	e.POST("/api/admin/register", app.adminHandler.Register)
	e.POST("/api/admin/login", app.adminHandler.Login)
	e.POST("/api/orders", app.orderHandler.CreateOrder)

	// Защищённые маршруты (требуют аутентификации)
	protected := e.Group("/api")
	protected.Use(auth.JWTMiddleware(app.cfg.JWTSecret))
	protected.GET("/orders", app.orderHandler.ListOrders)
	protected.GET("/orders/export", app.orderHandler.ExportOrders)
	protected.POST("/orders/bulk", app.orderHandler.BulkUpdate)
	protected.GET("/orders/customer/:id", app.orderHandler.GetCustomerOrders)
	protected.GET("/orders/:id", app.orderHandler.GetOrder)
	protected.PUT("/orders/:id", app.orderHandler.UpdateOrder)
	protected.DELETE("/orders/:id", app.orderHandler.DeleteOrder)
	protected.POST("/orders/:id/notes", app.orderHandler.AddNote)
	protected.GET("/dashboard/count", app.dashboardHandler.Count)
	protected.GET("/dashboard/amount", app.dashboardHandler.Amount)
	protected.GET("/dashboard/recent", app.dashboardHandler.RecentOrders)
	protected.GET("/dashboard/best-sellers", app.dashboardHandler.BestSellers)
	protected.GET("/dashboard/status-counts", app.dashboardHandler.StatusCounts)

	app.echo = e
}

// Start запускает приложение.
func (app *App) Start(ctx context.Context) error {
	// Запуск воркера отгрузок
	if app.worker != nil {
		log.Println("Starting shipment worker...")
		app.worker.Start(ctx)
		log.Println("Shipment worker started")
	} else {
		log.Println("Shipment worker is not configured")
	}

	// Запуск сервера
	log.Printf("Starting server on %s", app.cfg.RunAddress)
	if err := app.echo.Start(app.cfg.RunAddress); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}

// Shutdown корректно завершает работу приложения.
func (app *App) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")

	if err := app.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if app.dbPool != nil {
		app.dbPool.Close()
	}

	log.Println("Server gracefully stopped")
	return nil
}
