// Package main provides the main entry point for the disco analytics API
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/powergridhq/disco-analytics/app/handlers"
	"github.com/powergridhq/disco-analytics/app/middleware"
	"github.com/powergridhq/disco-analytics/app/router"
	"github.com/powergridhq/disco-analytics/app/scheduler"
	"github.com/powergridhq/disco-analytics/app/services"
	businessflow "github.com/powergridhq/disco-analytics/business_flow"
	"github.com/powergridhq/disco-analytics/config"
	"github.com/powergridhq/disco-analytics/models"
	"github.com/powergridhq/disco-analytics/repository"
	"github.com/powergridhq/disco-analytics/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting disco analytics application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity.
// Returns nil when the cache is disabled; the overview flow degrades to
// computing every request.
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, 30*time.Second)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Seed the operator account from config
	if err := ensureAdminAccount(db, cfg.Admin); err != nil {
		return nil, err
	}

	// Initialize repositories
	locationRepo := repository.NewLocationRepository(db)
	energyRepo := repository.NewEnergyRepository(db)
	revenueRepo := repository.NewRevenueRepository(db)
	commercialRepo := repository.NewCommercialRepository(db)
	technicalRepo := repository.NewTechnicalRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	salesRepRepo := repository.NewSalesRepRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// Initialize token service
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	// Initialize business flows
	resolver := businessflow.NewLocationResolver(locationRepo)

	overviewFlow := businessflow.NewOverviewFlow(
		resolver,
		energyRepo,
		revenueRepo,
		commercialRepo,
		rc,
		cfg.Tariff.PerMWh,
	)

	commercialFlow := businessflow.NewCommercialFlow(
		locationRepo,
		resolver,
		energyRepo,
		revenueRepo,
		commercialRepo,
		technicalRepo,
		salesRepRepo,
		cfg.Tariff.PerMWh,
	)

	technicalFlow := businessflow.NewTechnicalFlow(locationRepo, resolver, technicalRepo)

	financialFlow := businessflow.NewFinancialFlow(
		locationRepo,
		resolver,
		revenueRepo,
		expenseRepo,
		salesRepRepo,
	)

	mergeFlow := businessflow.NewSalesRepMergeFlow(db, salesRepRepo)
	materializerFlow := businessflow.NewMaterializerFlow(db, energyRepo)
	hrFlow := businessflow.NewHRFlow(db, staffRepo, locationRepo)
	ingestFlow := businessflow.NewIngestFlow(locationRepo, energyRepo, revenueRepo, commercialRepo, technicalRepo, salesRepRepo)
	adminAuthFlow := businessflow.NewAdminAuthFlow(adminRepo, tokenService)

	// Initialize handlers
	overviewHandler := handlers.NewOverviewHandler(overviewFlow)
	commercialHandler := handlers.NewCommercialHandler(commercialFlow)
	technicalHandler := handlers.NewTechnicalHandler(technicalFlow)
	financialHandler := handlers.NewFinancialHandler(financialFlow, mergeFlow, materializerFlow)
	hrHandler := handlers.NewHRHandler(hrFlow)
	ingestHandler := handlers.NewIngestHandler(ingestFlow)
	adminHandler := handlers.NewAdminHandler(adminAuthFlow)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Initialize router
	appRouter := router.NewFiberRouter(
		overviewHandler,
		commercialHandler,
		technicalHandler,
		financialHandler,
		hrHandler,
		ingestHandler,
		adminHandler,
		authMiddleware,
		buildEntityRoutes(db),
		cfg.Security.AllowedOrigins,
	)

	if cfg.Scheduler.Enabled {
		sched := scheduler.NewMaterializerScheduler(materializerFlow, cfg.Scheduler.Interval, cfg.Logging.Dir)
		stopScheduler := sched.Start(context.Background())
		stopFuncs = append(stopFuncs, stopScheduler)
	}

	// Create application struct from FiberRouter
	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}

// buildEntityRoutes wires a generic CRUD handler for every persisted entity:
// the location hierarchy, its reference tables, and the fact tables. The
// materialized feeder_energy_daily and feeder_energy_monthly rollups are not
// mounted; the materializer owns them and a rebuild would clobber edits.
func buildEntityRoutes(db *gorm.DB) []router.EntityRoutes {
	return []router.EntityRoutes{
		entityRoutes[models.State](db, "states"),
		entityRoutes[models.BusinessDistrict](db, "business-districts"),
		entityRoutes[models.InjectionSubstation](db, "injection-substations"),
		entityRoutes[models.Band](db, "bands"),
		entityRoutes[models.Feeder](db, "feeders"),
		entityRoutes[models.DistributionTransformer](db, "distribution-transformers"),
		entityRoutes[models.Customer](db, "customers"),
		entityRoutes[models.SalesRepresentative](db, "sales-representatives"),
		entityRoutes[models.ExpenseCategory](db, "expense-categories"),
		entityRoutes[models.Department](db, "departments"),
		entityRoutes[models.Role](db, "roles"),
		entityRoutes[models.Staff](db, "staff"),
		entityRoutes[models.Expense](db, "expenses"),
		entityRoutes[models.GLBreakdown](db, "gl-breakdowns"),
		entityRoutes[models.DailyEnergyDelivered](db, "daily-energy-delivered"),
		entityRoutes[models.MonthlyEnergyBilled](db, "monthly-energy-billed"),
		entityRoutes[models.DailyRevenueCollected](db, "daily-revenue-collected"),
		entityRoutes[models.MonthlyRevenueBilled](db, "monthly-revenue-billed"),
		entityRoutes[models.MonthlyCustomerStats](db, "monthly-customer-stats"),
		entityRoutes[models.DailyCollection](db, "daily-collections"),
		entityRoutes[models.HourlyLoad](db, "hourly-loads"),
		entityRoutes[models.FeederInterruption](db, "feeder-interruptions"),
		entityRoutes[models.DailyHoursOfSupply](db, "daily-hours-of-supply"),
		entityRoutes[models.MonthlyCommercialSummary](db, "monthly-commercial-summaries"),
		entityRoutes[models.SalesRepPerformance](db, "sales-rep-performances"),
	}
}

func entityRoutes[T any](db *gorm.DB, name string) router.EntityRoutes {
	h := handlers.NewCRUDHandler(repository.NewBaseRepository[T](db), name)
	return router.EntityRoutes{
		Name:   name,
		List:   h.List,
		Get:    h.Get,
		Create: h.Create,
		Update: h.Update,
		Delete: h.Delete,
	}
}

// ensureAdminAccount creates the configured operator account when it does
// not exist yet. The password hash comes pre-computed from the environment.
func ensureAdminAccount(db *gorm.DB, cfg config.AdminConfig) error {
	if cfg.Username == "" || cfg.PasswordHash == "" {
		log.Println("Admin account seeding skipped: no credentials configured")
		return nil
	}

	adminRepo := repository.NewAdminRepository(db)
	existing, err := adminRepo.ByUsername(context.Background(), cfg.Username)
	if err != nil {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}
	if existing != nil {
		return nil
	}

	admin := models.Admin{
		UUID:         uuid.New(),
		Username:     cfg.Username,
		PasswordHash: cfg.PasswordHash,
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}
	if err := adminRepo.Save(context.Background(), &admin); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}
	log.Printf("Seeded admin account %q", cfg.Username)
	return nil
}
