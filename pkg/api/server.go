package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/andresv1112/taskflow-artisanal-auth/internal/adapter/database/postgres"
	pgrepo "github.com/andresv1112/taskflow-artisanal-auth/internal/adapter/database/postgres/repository"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/adapter/database/sqlite"
	sqliterepo "github.com/andresv1112/taskflow-artisanal-auth/internal/adapter/database/sqlite/repository"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/adapter/http/handler"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/port"
	"github.com/andresv1112/taskflow-artisanal-auth/internal/core/service"
	"github.com/andresv1112/taskflow-artisanal-auth/pkg/config"
)

// Container wires the store, service and handler chain for the chosen
// database driver.
type Container struct {
	UserRepo port.UserRepository
	TaskRepo port.TaskRepository

	AuthService port.AuthService
	TaskService port.TaskService

	AuthHandler *handler.AuthHandler
	TaskHandler *handler.TaskHandler
}

func NewContainer(cfg *config.AppConfig, logger *config.AppLogger, metrics *config.AppMetrics) (*Container, error) {
	var userRepo port.UserRepository
	var taskRepo port.TaskRepository

	switch cfg.DatabaseDriver {
	case "postgres":
		db, err := postgres.NewDB(context.Background(), cfg.DatabaseURL, cfg.MigrationsPath)

		if err != nil {
			return nil, err
		}

		userRepo = pgrepo.NewUserRepository(db)
		taskRepo = pgrepo.NewTaskRepository(db)

	default:
		db, err := sqlite.NewDB(cfg.DatabasePath, cfg.MigrationsPath)

		if err != nil {
			return nil, err
		}

		userRepo = sqliterepo.NewUserRepository(db)
		taskRepo = sqliterepo.NewTaskRepository(db)
	}

	authService := service.NewAuthService(userRepo)
	taskService := service.NewTaskService(taskRepo)

	return &Container{
		UserRepo:    userRepo,
		TaskRepo:    taskRepo,
		AuthService: authService,
		TaskService: taskService,
		AuthHandler: handler.NewAuthHandler(authService, metrics),
		TaskHandler: handler.NewTaskHandler(taskService, logger, metrics),
	}, nil
}

func StartServer(cfg *config.AppConfig, metrics *config.AppMetrics, logger *config.AppLogger) error {
	container, err := NewContainer(cfg, logger, metrics)

	if err != nil {
		return err
	}

	router := SetupRouter(HandlersConfig{
		AuthHandler: container.AuthHandler,
		TaskHandler: container.TaskHandler,
	}, metrics, logger, cfg)

	slog.Info("Server starting",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"database", cfg.DatabaseDriver,
		"rate_limit_enabled", cfg.RateLimitEnabled,
		"cache_enabled", cfg.CacheEnabled,
		"https_enforced", cfg.EnforceHTTPS)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Server failed to start", "error", err)
		return err
	}

	return nil
}
