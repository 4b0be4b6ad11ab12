package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	importapp "github.com/Apolones/estore/internal/application/import"
	purchaseapp "github.com/Apolones/estore/internal/application/purchase"
	"github.com/Apolones/estore/internal/domain/shared"
	"github.com/Apolones/estore/internal/infrastructure/cache"
	"github.com/Apolones/estore/internal/infrastructure/config"
	"github.com/Apolones/estore/internal/infrastructure/logger"
	"github.com/Apolones/estore/internal/infrastructure/migration"
	"github.com/Apolones/estore/internal/infrastructure/persistence"
	"github.com/Apolones/estore/internal/infrastructure/storage"
	"github.com/Apolones/estore/internal/infrastructure/telemetry"
	"github.com/Apolones/estore/internal/interfaces/http/handler"
	"github.com/Apolones/estore/internal/interfaces/http/middleware"
	"github.com/Apolones/estore/internal/interfaces/http/router"
	"github.com/Apolones/estore/migrations"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/Apolones/estore/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			estore API
//	@version		1.0
//	@description	Electronics store backend: bulk CSV/ZIP import of the store catalog and stock-checked purchases.

//	@contact.name	API Support
//	@contact.url	https://github.com/Apolones/estore

//	@host		localhost:8080
//	@BasePath	/estore/api

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log, cfg.App)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting estore",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Telemetry providers are no-ops when telemetry is disabled
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	meter := meterProvider.Meter("estore")

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log = loggerProvider.Bridge(log, logger.ParseLevel(cfg.Log.Level))

	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	// Create GORM logger backed by zap
	gormLogOpts := []logger.GormLoggerOption{logger.WithSQL(cfg.Telemetry.DBLogFullSQL)}
	if cfg.Telemetry.DBSlowQueryThresh > 0 {
		gormLogOpts = append(gormLogOpts, logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	}
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), gormLogOpts...)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	if err := migrateSchema(db, log); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, tracerProvider.TraceProvider(), log); err != nil {
		log.Warn("Failed to enable database tracing", zap.Error(err))
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get underlying sql.DB", zap.Error(err))
	}
	if _, err := telemetry.RegisterDBPoolMetrics(meter, sqlDB); err != nil {
		log.Warn("Failed to register database pool metrics", zap.Error(err))
	}

	estoreMetrics, err := telemetry.NewEstoreMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create metrics", zap.Error(err))
	}

	// Idempotency store: Redis when enabled, in-memory otherwise
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		_ = idempotencyStore.Close()
	}()

	// Repositories
	historyRepo := persistence.NewGormImportHistoryRepository(db.DB)
	referenceRepo := persistence.NewGormReferenceRepository(db.DB)
	purchaseRepo := persistence.NewGormPurchaseRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)

	// Application services
	importOpts := []importapp.ServiceOption{
		importapp.WithMetrics(estoreMetrics),
		importapp.WithLogger(log.Named("import")),
	}
	if cfg.Storage.Enabled {
		archives, err := storage.NewS3ArchiveStorage(ctx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create archive storage", zap.Error(err))
		}
		if err := archives.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare archive bucket", zap.Error(err))
		}
		importOpts = append(importOpts, importapp.WithArchiveStore(archives))
	}
	importService := importapp.NewArchiveImportService(
		persistence.NewGormImportScope(db.DB, cfg.Import.BatchSize),
		historyRepo,
		importapp.Config{
			MaxUploadSize:    cfg.Import.MaxSize(),
			MaxExtractedSize: cfg.Import.MaxExtractedSize(),
			DefaultEncoding:  cfg.Import.DefaultEncoding,
			Delimiter:        cfg.Import.Delimiter(),
			LazyQuotes:       cfg.Import.LazyQuotes,
			ScratchDir:       cfg.Import.ScratchDir,
		},
		importOpts...,
	)
	historyService := importapp.NewImportHistoryService(historyRepo)

	purchaseCoordinator := purchaseapp.NewPurchaseCoordinator(
		referenceRepo,
		persistence.NewGormTransactionScope(db.DB),
		purchaseRepo,
		purchaseapp.WithIdempotency(idempotencyStore, shared.IdempotencyConfig{
			TTL:     cfg.Purchase.IdempotencyTTL,
			Enabled: cfg.Purchase.IdempotencyEnabled,
		}),
		purchaseapp.WithPurchaseMetrics(estoreMetrics),
		purchaseapp.WithLogger(log.Named("purchase")),
	)
	ledger := purchaseapp.NewInventoryLedger(stockRepo)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - Open the request span and tag it
	// 3. Recovery - Catch panics
	// 4. Logger - Log requests with request and trace ids
	// 5. Metrics - Count requests per route
	// 6. Profiling - Label profile samples per route
	// 7. Security - Add security headers
	// 8. CORS - Handle cross-origin requests
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		Enabled:        cfg.Telemetry.Enabled,
		TracerProvider: tracerProvider.TraceProvider(),
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if httpMetrics, err := middleware.HTTPMetrics(meter); err != nil {
		log.Warn("Failed to create HTTP metrics", zap.Error(err))
	} else {
		engine.Use(httpMetrics)
	}
	if profiler.IsEnabled() {
		engine.Use(middleware.Profiling(router.DefaultBasePath))
	}
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, sqlDB)

	engine.GET("/health", systemHandler.Health)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	r := router.NewRouter(engine)
	router.RegisterAPI(r, router.Handlers{
		Import:   handler.NewImportHandler(importService, cfg.Import.MaxSize()),
		History:  handler.NewImportHistoryHandler(historyService),
		Purchase: handler.NewPurchaseHandler(purchaseCoordinator, ledger),
		System:   systemHandler,
	}, router.BodyLimits{
		JSON:   cfg.HTTP.MaxBodySize,
		Upload: cfg.Import.MaxSize(),
	})
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush traces", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Failed to stop profiler", zap.Error(err))
	}
	log.Info("Server exited gracefully")
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush logs", zap.Error(err))
	}
}

// migrateSchema brings the schema up to date: the embedded SQL migrations on
// PostgreSQL, the gorm models on SQLite.
func migrateSchema(db *persistence.Database, log *zap.Logger) error {
	if !persistence.IsPostgres(db.DB) {
		return persistence.AutoMigrate(db.DB)
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.NewEmbedded(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	// Close would also close sqlDB, which the server keeps using
	return m.Up()
}
