package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fabrikasoft/fabrika-api/internal/cache"
	"github.com/fabrikasoft/fabrika-api/internal/config"
	"github.com/fabrikasoft/fabrika-api/internal/database"
	"github.com/fabrikasoft/fabrika-api/internal/handler"
	"github.com/fabrikasoft/fabrika-api/internal/middleware"
	"github.com/fabrikasoft/fabrika-api/internal/repository"
	"github.com/fabrikasoft/fabrika-api/internal/service"
	"github.com/fabrikasoft/fabrika-api/internal/storage"
)

// main is the application entrypoint for the fabrika workflow API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting fabrika api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis (refresh token store)
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Connect to MinIO (product reference files)
	files, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		log.Error().Err(err).Msg("object storage connection failed")
		fmt.Fprintf(os.Stderr, "object storage connection failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("object storage connected successfully")

	// 4. Initialize repositories
	flowRepo := repository.NewFlowRepository(db)
	packRepo := repository.NewPackRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	productRepo := repository.NewProductRepository(db)
	attrRepo := repository.NewAttributeRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	userRepo := repository.NewUserRepository(db)
	dashRepo := repository.NewDashboardRepository(db)

	// 5. Initialize services
	tokenStore := cache.NewRedisTokenStore(redisClient)
	authSvc := service.NewAuthService(userRepo, tokenStore, cfg.JWT)
	flowSvc := service.NewPackFlowService(flowRepo)
	packSvc := service.NewPackService(packRepo, productRepo)
	deptSvc := service.NewDepartmentService(deptRepo)
	productSvc := service.NewProductService(productRepo, files)
	dashSvc := service.NewDashboardService(dashRepo)

	// 6. Initialize handlers
	handlers := &Handlers{
		Health:     handler.NewHealthHandler(db, redisClient),
		Auth:       handler.NewAuthHandler(authSvc),
		Flow:       handler.NewFlowHandler(flowSvc),
		Pack:       handler.NewPackHandler(packSvc),
		Department: handler.NewDepartmentHandler(deptSvc),
		Employee:   handler.NewEmployeeHandler(employeeRepo),
		Product:    handler.NewProductHandler(productSvc),
		Attribute:  handler.NewAttributeHandler(attrRepo),
		Company:    handler.NewCompanyHandler(companyRepo),
		Dashboard:  handler.NewDashboardHandler(dashSvc),
	}

	// 7. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware(cfg.JWT.AccessSecret)
	loginLimiter := middleware.NewInvalidAuthRateLimiter()

	// 8. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	setupRoutes(router, handlers, jwtMw, loginLimiter)

	// 9. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 10. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 11. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health     *handler.HealthHandler
	Auth       *handler.AuthHandler
	Flow       *handler.FlowHandler
	Pack       *handler.PackHandler
	Department *handler.DepartmentHandler
	Employee   *handler.EmployeeHandler
	Product    *handler.ProductHandler
	Attribute  *handler.AttributeHandler
	Company    *handler.CompanyHandler
	Dashboard  *handler.DashboardHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware, loginLimiter *middleware.InvalidAuthRateLimiter) {
	router.GET("/v1/health", handlers.Health.GetHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth routes (public except register)
	auth := router.Group("/v1/auth")
	{
		auth.POST("/login", loginLimiter.Handle(), handlers.Auth.Login)
		auth.POST("/refresh", handlers.Auth.Refresh)
		auth.POST("/logout", handlers.Auth.Logout)
		auth.POST("/register", jwtMiddleware.Handle(), jwtMiddleware.RequireAdmin(), handlers.Auth.Register)
	}

	// Authenticated API
	api := router.Group("/v1")
	api.Use(jwtMiddleware.Handle())
	{
		// Pack flow operations
		api.POST("/packs", handlers.Flow.Intake)
		api.POST("/packs/:id/send", handlers.Flow.Send)
		api.POST("/packs/:id/accept", handlers.Flow.Accept)

		// Pack reads
		api.GET("/packs", handlers.Pack.ListPacks)
		api.GET("/packs/:id", handlers.Pack.GetPack)
		api.GET("/packs/:id/lineage", handlers.Pack.GetLineage)

		// Departments and their queues
		api.GET("/departments", handlers.Department.GetAll)
		api.GET("/departments/:id", handlers.Department.GetByID)
		api.GET("/departments/:id/next", handlers.Department.GetNext)
		api.GET("/departments/:id/pending", handlers.Pack.GetPending)
		api.GET("/departments/:id/history", handlers.Pack.GetHistory)

		// Employees
		api.GET("/employees", handlers.Employee.GetAll)
		api.GET("/employees/:id", handlers.Employee.GetByID)

		// Catalog
		api.GET("/products", handlers.Product.GetAll)
		api.GET("/products/:id", handlers.Product.GetByID)
		api.GET("/colors", handlers.Attribute.GetColors)
		api.GET("/sizes", handlers.Attribute.GetSizes)
		api.GET("/companies", handlers.Company.GetAll)
		api.GET("/companies/:id", handlers.Company.GetByID)
	}

	// Admin-only management
	admin := router.Group("/v1/admin")
	admin.Use(jwtMiddleware.Handle(), jwtMiddleware.RequireAdmin())
	{
		admin.GET("/dashboard", handlers.Dashboard.GetStats)

		admin.POST("/departments", handlers.Department.Create)
		admin.PUT("/departments/:id", handlers.Department.Update)
		admin.DELETE("/departments/:id", handlers.Department.Delete)

		admin.POST("/employees", handlers.Employee.Create)
		admin.PUT("/employees/:id", handlers.Employee.Update)
		admin.DELETE("/employees/:id", handlers.Employee.Delete)

		admin.POST("/products", handlers.Product.Create)
		admin.PUT("/products/:id", handlers.Product.UpdateAttributes)
		admin.DELETE("/products/:id", handlers.Product.Delete)
		admin.POST("/products/:id/files", handlers.Product.UploadFile)
		admin.DELETE("/products/files/:fileId", handlers.Product.DeleteFile)

		admin.POST("/colors", handlers.Attribute.CreateColor)
		admin.DELETE("/colors/:id", handlers.Attribute.DeleteColor)
		admin.POST("/sizes", handlers.Attribute.CreateSize)
		admin.DELETE("/sizes/:id", handlers.Attribute.DeleteSize)

		admin.POST("/companies", handlers.Company.Create)
		admin.PUT("/companies/:id", handlers.Company.Update)
		admin.DELETE("/companies/:id", handlers.Company.Delete)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
