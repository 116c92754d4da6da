package app

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"examiner-registry-backend/internal/config"
	"examiner-registry-backend/internal/logger"
	"examiner-registry-backend/internal/repository"
	"examiner-registry-backend/internal/repository/firestore"
	"examiner-registry-backend/internal/repository/memory"
	"examiner-registry-backend/internal/repository/postgres"
	"examiner-registry-backend/internal/service"
)

// App holds the record store and every service built on it, shared by the server,
// the cron runner and the operator CLI.
type App struct {
	Config         *config.Config
	Store          repository.RecordStore
	Serials        service.SerialAllocator
	Promotion      service.PromotionService
	Intake         service.IntakeService
	Examiners      service.ExaminerService
	UpdateRequests service.UpdateRequestService
	TPins          service.TPinService
	Notifier       service.NotificationService

	closeStore func() error
}

// New opens the configured store and wires the services.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	settings := service.SettingsFromConfig(cfg)
	serials := service.NewSerialAllocator(store, cfg.Collections.Approved)
	notifier := service.NewNotificationService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	return &App{
		Config:         cfg,
		Store:          store,
		Serials:        serials,
		Promotion:      service.NewPromotionService(store, serials, notifier, settings),
		Intake:         service.NewIntakeService(store, serials, settings),
		Examiners:      service.NewExaminerService(store, settings),
		UpdateRequests: service.NewUpdateRequestService(store, settings),
		TPins:          service.NewTPinService(store, settings),
		Notifier:       notifier,
		closeStore:     closeStore,
	}, nil
}

func (a *App) Close() {
	if a.closeStore == nil {
		return
	}
	if err := a.closeStore(); err != nil {
		logger.Warn("Failed to close record store", "error", err)
	}
}

// OpenStore selects the record store backend named by cfg.Store.Backend.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.RecordStore, func() error, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db := cfg.Store.Postgres
		logger.Info("Connecting to database...", "host", db.Host, "port", db.Port, "database", db.Database, "user", db.User)
		conn, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := conn.PingContext(ctx); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		store := postgres.NewStore(conn)
		if err := store.EnsureSchema(ctx); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("failed to create schema: %w", err)
		}
		logger.Info("Database connection established")
		return store, conn.Close, nil

	case config.BackendFirestore:
		logger.Info("Opening Firestore", "project_id", cfg.Store.Firestore.ProjectID)
		store, err := firestore.Open(ctx, cfg.Store.Firestore.ProjectID, cfg.Store.Firestore.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case config.BackendMemory, "":
		logger.Warn("Using in-memory record store; data is lost on exit")
		return memory.NewStore(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend: %q", cfg.Store.Backend)
	}
}
