package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/creditos/creditos-backend/config"
	mysqldb "github.com/creditos/creditos-backend/infra/mysql"
	redisdb "github.com/creditos/creditos-backend/infra/redis"
	appcron "github.com/creditos/creditos-backend/internal/cron"
	"github.com/creditos/creditos-backend/internal/model"
	"github.com/creditos/creditos-backend/pkg/password"
	ratelimiter "github.com/creditos/creditos-backend/pkg/rate-limiter"
	"github.com/creditos/creditos-backend/pkg/telemetry"
	"github.com/creditos/creditos-backend/presenter"
	"github.com/creditos/creditos-backend/router"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	slog.Info("Starting application setup...")

	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		slog.Error("No .env file found, using system environment variables", "error", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	tel, err := telemetry.New(ctx, cfg)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize monitoring: %v", err))
	}

	db, err := mysqldb.InitializeDatabase()
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	redisClient := redisdb.MonitorRedis(cfg)
	if redisClient == nil {
		panic("Failed to connect to Redis (MonitorRedis returned nil)")
	}
	go redisdb.WatchConnectionRedis(&redisClient, cfg)

	defer func() {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		zap.L().Info("Closing MySQL Connection...")
		if err := mysqldb.Close(db, shutdownCtx); err != nil {
			zap.L().Error("Error disconnecting from MySQL", zap.Error(err))
		} else {
			zap.L().Info("Disconnected from MySQL.")
		}

		zap.L().Info("Closing Redis connection...")
		if err := redisClient.Close(); err != nil {
			zap.L().Error("Error disconnecting from Redis", zap.Error(err))
		} else {
			zap.L().Info("Disconnected from Redis.")
		}

		zap.L().Info("Shutting down monitoring...")
		if err := tel.Shutdown(shutdownCtx); err != nil {
			zap.L().Error("Error during monitoring shutdown", zap.Error(err))
		} else {
			zap.L().Info("Monitoring shutdown complete.")
		}
	}()

	if err := model.AutoMigrate(db); err != nil {
		slog.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migration completed!")

	SeedAdmin(db, cfg)

	if err := mysqldb.Ping(db, ctx); err != nil {
		slog.Error("Database ping failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connection successful!")

	stats := mysqldb.GetStats(db)
	slog.Info("Database stats:", "stats", stats)

	rps := 100.0 / (15 * 60)
	limiter := ratelimiter.NewRateLimiter(redisClient, rps, 100, 15*time.Minute)
	if limiter == nil {
		panic("Failed to initialize rate limiter")
	}

	presenter := presenter.NewPresenter(db, cfg, tel)
	router := router.NewRouter(presenter, db, tel, cfg, limiter)

	scheduler := appcron.NewScheduler(presenter.ReminderService, cfg.CRON_SCHEDULE, tel.Log)
	if err := scheduler.Start(); err != nil {
		slog.Error("Failed to start reminder scheduler", "error", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	addr := ":" + cfg.SERVER_PORT

	listenErr := make(chan error, 1)

	go func() {
		zap.L().Info("Server starting", zap.String("address", addr))
		if err := router.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		} else {
			listenErr <- nil
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		zap.L().Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-listenErr:
		if err != nil {
			zap.L().Error("Server listen error", zap.Error(err))
			os.Exit(1)
		}
	}

	zap.L().Info("Starting graceful shutdown...")
	shutdownTimeout := 10 * time.Second
	if err := router.ShutdownWithTimeout(shutdownTimeout); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			zap.L().Warn("Server shutdown timed out", zap.Duration("timeout", shutdownTimeout))
		} else {
			zap.L().Error("Server shutdown error", zap.Error(err))
		}
	} else {
		zap.L().Info("Server gracefully stopped.")
	}

	zap.L().Info("Application shutdown complete.")
}

// SeedAdmin creates the first ADMIN user so the API is usable on a fresh
// database. Skipped when the user already exists or no password is set.
func SeedAdmin(db *gorm.DB, cfg *config.Config) {
	slog.Info("Checking for admin user...")

	var adminUser model.User
	err := db.Where("email = ?", cfg.ADMIN_EMAIL).First(&adminUser).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if cfg.ADMIN_PASSWORD == "" {
			slog.Warn("Admin user missing and ADMIN_PASSWORD not set, skipping seed")
			return
		}

		slog.Info("Admin user not found, creating one...")

		hash, err := password.HashPassword(cfg.ADMIN_PASSWORD)
		if err != nil {
			slog.Error("Failed to hash admin password", "error", err)
			os.Exit(1)
		}

		newAdmin := model.User{
			Nombre:       "Administrador",
			Email:        cfg.ADMIN_EMAIL,
			PasswordHash: hash,
			Role:         "ADMIN",
		}

		if err := db.Create(&newAdmin).Error; err != nil {
			slog.Error("Failed to seed admin user", "error", err)
			os.Exit(1)
		}
		slog.Info("Admin user created successfully.")
	} else if err != nil {
		slog.Error("Error checking for admin user", "error", err)
		os.Exit(1)
	} else {
		slog.Info("Admin user already exists.")
	}
}
