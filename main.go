// Package main provides the main entry point for the print shop quoting service
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/smuelmfs/mp-pt-sub003/app/handlers"
	"github.com/smuelmfs/mp-pt-sub003/app/router"
	businessflow "github.com/smuelmfs/mp-pt-sub003/business_flow"
	"github.com/smuelmfs/mp-pt-sub003/config"
	"github.com/smuelmfs/mp-pt-sub003/models"
	"github.com/smuelmfs/mp-pt-sub003/repository"
)

// Application represents the main application structure
type Application struct {
	router    router.Router
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting quoting service...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

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

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging routes the standard logger to stdout, a rotated file, or both
func setupLogging(cfg config.LoggingConfig) {
	switch cfg.Output {
	case "file", "both":
		rotated := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		if cfg.Output == "both" {
			log.SetOutput(io.MultiWriter(os.Stdout, rotated))
		} else {
			log.SetOutput(rotated)
		}
	default:
		log.SetOutput(os.Stdout)
	}
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

	// Configure connection pooling
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

// migrateSchema keeps the schema aligned with the model definitions
func migrateSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Category{},
		&models.Supplier{},
		&models.Customer{},
		&models.Material{},
		&models.MaterialVariant{},
		&models.Printing{},
		&models.Finish{},
		&models.Product{},
		&models.ProductMaterial{},
		&models.ProductFinish{},
		&models.MarginRule{},
		&models.MarginRuleDynamic{},
		&models.CustomerMaterialPrice{},
		&models.CustomerPrintingPrice{},
		&models.CustomerFinishPrice{},
		&models.ConfigGlobal{},
		&models.Quote{},
		&models.QuoteItem{},
		&models.AuditLog{},
	)
}

// ensureGlobalConfig seeds the singleton pricing configuration when missing
func ensureGlobalConfig(db *gorm.DB) error {
	configRepo := repository.NewConfigRepository(db)

	existing, err := configRepo.Get(context.Background())
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	log.Println("Seeding global pricing configuration")
	return configRepo.Update(context.Background(), &models.ConfigGlobal{
		MarginDefault:     0.30,
		MarkupOperational: 0.10,
		RoundingStep:      0.05,
		RoundingStrategy:  models.RoundEndOnly,
		PricingStrategy:   models.StrategyCostMarkupMargin,
		LossFactor:        0,
		PrintingHourCost:  30,
		VATPercent:        0.23,
		SetupMinutes:      15,
	})
}

// initializeCache initializes the Cache client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
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

	if err := migrateSchema(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	if err := ensureGlobalConfig(db); err != nil {
		return nil, fmt.Errorf("failed to seed global config: %w", err)
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, 30*time.Second)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Initialize repositories
	categoryRepo := repository.NewCategoryRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	printingRepo := repository.NewPrintingRepository(db)
	finishRepo := repository.NewFinishRepository(db)
	productRepo := repository.NewProductRepository(db)
	marginRepo := repository.NewMarginRuleRepository(db)
	configRepo := repository.NewConfigRepository(db)
	overrideRepo := repository.NewPriceOverrideRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Initialize flows
	quoteFlow := businessflow.NewQuoteFlow(
		productRepo,
		printingRepo,
		customerRepo,
		overrideRepo,
		marginRepo,
		configRepo,
		quoteRepo,
		auditRepo,
		db,
		rc,
		&cfg.Cache,
	)

	catalogFlow := businessflow.NewCatalogAdminFlow(
		materialRepo,
		printingRepo,
		finishRepo,
		productRepo,
		categoryRepo,
		supplierRepo,
		auditRepo,
		db,
	)

	marginFlow := businessflow.NewMarginRuleAdminFlow(
		marginRepo,
		configRepo,
		categoryRepo,
		productRepo,
		auditRepo,
		db,
		rc,
		&cfg.Cache,
	)

	priceFlow := businessflow.NewCustomerPriceAdminFlow(
		overrideRepo,
		customerRepo,
		materialRepo,
		printingRepo,
		finishRepo,
		auditRepo,
		db,
	)

	exportFlow := businessflow.NewPriceListExportFlow(
		materialRepo,
		printingRepo,
		finishRepo,
		customerRepo,
		overrideRepo,
		quoteRepo,
		auditRepo,
	)

	// Initialize handlers
	quoteHandler := handlers.NewQuoteHandler(quoteFlow)
	catalogHandler := handlers.NewCatalogAdminHandler(catalogFlow)
	marginHandler := handlers.NewMarginRuleAdminHandler(marginFlow)
	priceHandler := handlers.NewCustomerPriceAdminHandler(priceFlow)
	exportHandler := handlers.NewExportHandler(exportFlow)

	// Initialize router
	appRouter := router.NewFiberRouter(
		cfg,
		quoteHandler,
		catalogHandler,
		marginHandler,
		priceHandler,
		exportHandler,
	)

	application := &Application{
		router:    appRouter,
		config:    cfg,
		server:    appRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}
