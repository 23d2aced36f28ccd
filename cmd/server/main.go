package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printcalc/internal/config"
	"printcalc/internal/database"
	"printcalc/internal/handlers"
	"printcalc/internal/logger"
	"printcalc/internal/migrations"
	"printcalc/internal/redis"
	"printcalc/internal/repository"
	"printcalc/internal/services"
	"printcalc/internal/telemetry"
	"printcalc/pkg/whatsapp"
)

func main() {
	// Load configuration
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	zl, err := logger.New(cfg.LogLevel, cfg.GinMode == gin.DebugMode)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OTLPEndpoint, zl)
	if err != nil {
		zl.Fatal("failed to set up telemetry", zap.Error(err))
	}

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, database.Options{
		MaxOpenConns:       cfg.DBMaxOpenConns,
		MaxIdleConns:       cfg.DBMaxIdleConns,
		ConnMaxLifetime:    cfg.DBConnMaxLifetime,
		SlowQueryThreshold: cfg.SlowQueryThreshold,
	}, zl)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := migrations.RunMigrations(db, zl); err != nil {
		zl.Fatal("failed to migrate database", zap.Error(err))
	}
	if err := migrations.EnsureSeedData(ctx, db, migrations.SeedOptions{
		Admin: services.CreateEmployeeInput{
			Username: cfg.AdminUsername,
			Password: cfg.AdminPassword,
			FullName: cfg.AdminFullName,
			Phone:    cfg.AdminPhone,
		},
	}, zl); err != nil {
		zl.Fatal("failed to seed database", zap.Error(err))
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL, cfg.SessionTTL())
	if err != nil {
		zl.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Customer notifications are optional
	var whatsappClient *whatsapp.Client
	if cfg.WhatsAppAPIURL != "" {
		whatsappClient = whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath, cfg.WhatsAppCountryCode)
	} else {
		zl.Info("whatsapp notifications disabled")
	}

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(db)
	pricingRepo := repository.NewPricingRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Initialize services
	notifier := services.NewWhatsAppNotifier(whatsappClient)
	orderService := services.NewOrderService(orderRepo, notifier, cfg.OrdersPerPage, cfg.PublicBaseURL, zl)
	svc := handlers.Services{
		Auth:      services.NewAuthService(employeeRepo, redisClient, cfg.JWTSecret, cfg.SessionTTL(), cfg.LoginAttemptsPerMinute, zl),
		Employees: services.NewEmployeeService(employeeRepo),
		Catalog:   services.NewCatalogService(catalogRepo),
		Settings:  services.NewSettingsService(pricingRepo),
		Cart:      services.NewCartService(redisClient, catalogRepo),
		Checkout:  services.NewCheckoutService(redisClient, catalogRepo, pricingRepo, orderService, zl),
		Orders:    orderService,
	}

	router := handlers.NewRouter(svc, handlers.RouterOptions{
		SecureCookie: cfg.GinMode == gin.ReleaseMode,
		Health: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			if err := sqlDB.PingContext(ctx); err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		},
	}, zl)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server starting", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Error("server shutdown failed", zap.Error(err))
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		zl.Warn("telemetry shutdown failed", zap.Error(err))
	}
}
