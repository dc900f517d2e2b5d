package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rezonsoft/pamiatki/internal/auth"
	"github.com/rezonsoft/pamiatki/internal/cache"
	"github.com/rezonsoft/pamiatki/internal/config"
	"github.com/rezonsoft/pamiatki/internal/handlers"
	"github.com/rezonsoft/pamiatki/internal/migrations"
	"github.com/rezonsoft/pamiatki/internal/models"
	"github.com/rezonsoft/pamiatki/internal/r2"
	"github.com/rezonsoft/pamiatki/internal/services"
	"github.com/rezonsoft/pamiatki/internal/storage"
)

// App структура для управления приложением и его зависимостями.
type App struct {
	cfg    *config.Config
	dbPool *pgxpool.Pool
	echo   *echo.Echo

	// Handlers
	userHandler       *handlers.UserHandler
	departmentHandler *handlers.DepartmentHandler
	customerHandler   *handlers.CustomerHandler
	productHandler    *handlers.ProductHandler
	draftHandler      *handlers.DraftHandler
	orderHandler      *handlers.OrderHandler
	catalogHandler    *handlers.CatalogHandler
}

// NewApp создаёт и инициализирует новое приложение.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{
		cfg: cfg,
	}

	if err := app.initDatabase(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initDependencies(ctx); err != nil {
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
func (app *App) initDependencies(ctx context.Context) error {
	// Storage layer
	userStorage := storage.NewPostgresUserStorage(app.dbPool)
	departmentStorage := storage.NewPostgresDepartmentStorage(app.dbPool)
	customerStorage := storage.NewPostgresCustomerStorage(app.dbPool)
	productStorage := storage.NewPostgresProductStorage(app.dbPool)
	orderStorage := storage.NewPostgresOrderStorage(app.dbPool)
	draftStorage := storage.NewPostgresDraftStorage(app.dbPool)

	// Объектное хранилище каталога. Без настроек R2 каталог локаций
	// деградирует до статического списка.
	var objectStorage r2.ObjectStorage
	if app.cfg.R2Endpoint != "" && app.cfg.R2AccessKeyID != "" {
		client, err := r2.NewClient(ctx, r2.Config{
			Endpoint:        app.cfg.R2Endpoint,
			AccessKeyID:     app.cfg.R2AccessKeyID,
			SecretAccessKey: app.cfg.R2SecretAccessKey,
			Bucket:          app.cfg.R2Bucket,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize object storage: %w", err)
		}
		objectStorage = client
		log.Printf("Object storage initialized, bucket %q", app.cfg.R2Bucket)
	} else {
		log.Println("WARNING: R2 is not configured. Catalog discovery will serve fallback data!")
	}

	catalogCache := cache.NewMemoryCatalogCache(app.cfg.CatalogCacheTTL)

	// Service layer
	userService := services.NewUserService(userStorage, app.cfg.JWTSecret, app.cfg.TokenExpiration)
	departmentService := services.NewDepartmentService(departmentStorage)
	customerService := services.NewCustomerService(customerStorage)
	productService := services.NewProductService(productStorage)
	orderService := services.NewOrderService(orderStorage, draftStorage, userStorage)
	draftService := services.NewDraftService(draftStorage)
	catalogService := services.NewCatalogService(objectStorage, catalogCache, app.cfg.R2BaseFolder, app.cfg.R2PublicDomain)

	// Handler layer
	app.userHandler = handlers.NewUserHandler(userService)
	app.departmentHandler = handlers.NewDepartmentHandler(departmentService)
	app.customerHandler = handlers.NewCustomerHandler(customerService)
	app.productHandler = handlers.NewProductHandler(productService, catalogService)
	app.draftHandler = handlers.NewDraftHandler(draftService, orderService)
	app.orderHandler = handlers.NewOrderHandler(orderService)
	app.catalogHandler = handlers.NewCatalogHandler(catalogService)

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
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.PATCH, echo.DELETE},
	}))

	// Публичные маршруты (не требуют аутентификации)
	e.POST("/api/auth/register", app.userHandler.Register)
	e.POST("/api/auth/login", app.userHandler.Login)

	// Чтение каталога публично: товары с обнаружением по локации и список
	// локаций. Запись остаётся за администратором ниже.
	e.GET("/api/products", app.productHandler.List)
	e.GET("/api/locations", app.catalogHandler.Locations)

	// Защищённые маршруты (требуют аутентификации)
	api := e.Group("/api")
	api.Use(auth.JWTMiddleware(app.cfg.JWTSecret))

	// Пользователи - только администратор, кроме создания (отдел продаж
	// тоже может, с ограничением по ролям в сервисе)
	api.GET("/users", app.userHandler.List, auth.RequireRoles(models.RoleAdmin))
	api.POST("/users", app.userHandler.Create, auth.RequireRoles(models.RoleAdmin, models.RoleSalesDept))
	api.PUT("/users/:id", app.userHandler.Update, auth.RequireRoles(models.RoleAdmin))
	api.DELETE("/users/:id", app.userHandler.Delete, auth.RequireRoles(models.RoleAdmin))
	api.POST("/users/:id/reset-password", app.userHandler.ResetPassword, auth.RequireRoles(models.RoleAdmin))

	// Отделы
	api.GET("/departments", app.departmentHandler.List)
	api.POST("/departments", app.departmentHandler.Create, auth.RequireRoles(models.RoleAdmin))
	api.PUT("/departments/:id", app.departmentHandler.Update, auth.RequireRoles(models.RoleAdmin))
	api.DELETE("/departments/:id", app.departmentHandler.Delete, auth.RequireRoles(models.RoleAdmin))

	// Клиенты
	customerRoles := auth.RequireRoles(models.RoleAdmin, models.RoleSalesRep, models.RoleSalesDept, models.RoleWarehouse)
	api.GET("/customers", app.customerHandler.List, customerRoles)
	api.POST("/customers", app.customerHandler.Create, auth.RequireRoles(models.RoleAdmin, models.RoleSalesRep, models.RoleSalesDept))
	api.PUT("/customers/:id", app.customerHandler.Update, auth.RequireRoles(models.RoleAdmin, models.RoleSalesRep, models.RoleSalesDept))
	api.DELETE("/customers/:id", app.customerHandler.Delete, auth.RequireRoles(models.RoleAdmin, models.RoleSalesRep, models.RoleSalesDept))

	// Управление товарами и загрузка изображений
	api.POST("/products", app.productHandler.Create, auth.RequireRoles(models.RoleAdmin))
	api.PUT("/products/:id", app.productHandler.Update, auth.RequireRoles(models.RoleAdmin))
	api.DELETE("/products/:id", app.productHandler.Delete, auth.RequireRoles(models.RoleAdmin))
	api.POST("/uploads", app.catalogHandler.Upload, auth.RequireRoles(models.RoleAdmin))

	// Черновики заказов
	api.GET("/order-drafts", app.draftHandler.GetLive)
	api.POST("/order-drafts", app.draftHandler.Create)
	api.PUT("/order-drafts", app.draftHandler.Update)
	api.DELETE("/order-drafts", app.draftHandler.Delete)
	api.POST("/order-drafts/items", app.draftHandler.AddItem)
	api.PUT("/order-drafts/items/:id", app.draftHandler.UpdateItem)
	api.DELETE("/order-drafts/items/:id", app.draftHandler.DeleteItem)
	api.POST("/order-drafts/complete", app.draftHandler.Complete)

	// Заказы
	orderRoles := auth.RequireRoles(models.RoleAdmin, models.RoleSalesRep, models.RoleSalesDept, models.RoleWarehouse)
	api.GET("/orders", app.orderHandler.List, orderRoles)
	api.POST("/orders", app.orderHandler.Create, auth.RequireRoles(models.RoleSalesRep, models.RoleSalesDept))
	api.GET("/orders/:id", app.orderHandler.GetByID, orderRoles)
	api.PATCH("/orders/:id/status", app.orderHandler.UpdateStatus, auth.RequireRoles(models.RoleAdmin, models.RoleWarehouse))

	app.echo = e
}

// Start запускает приложение.
func (app *App) Start(ctx context.Context) error {
	log.Printf("pamiatki: listening on %s", app.cfg.RunAddress)
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
