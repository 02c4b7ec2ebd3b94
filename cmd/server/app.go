package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskdeck/taskdeck-api/internal/config"
	"github.com/taskdeck/taskdeck-api/internal/events"
	"github.com/taskdeck/taskdeck-api/internal/notify"
	"github.com/taskdeck/taskdeck-api/internal/platform/mail"
	"github.com/taskdeck/taskdeck-api/internal/platform/objectstore"
	"github.com/taskdeck/taskdeck-api/internal/platform/postgres"
	"github.com/taskdeck/taskdeck-api/internal/queue"
	"github.com/taskdeck/taskdeck-api/internal/service"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore store.UserStore
	taskStore store.TaskStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	taskService      service.TaskService

	// Attachment uploads; nil when no bucket is configured
	uploadSigner objectstore.UploadURLSigner

	// Notification pipeline
	notificationQueue *queue.Queue
	consumer          *queue.Consumer
	emitter           events.Emitter
}

// newApplication creates a new application instance with all dependencies
// initialized, including the notification pipeline.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	// Stores
	userStore := postgres.NewUserStore(db, bcrypt.DefaultCost, logger)
	app.userStore = userStore
	app.taskStore = postgres.NewTaskStore(db, logger)

	// Notification pipeline: durable queue, dispatcher, batch consumer.
	queueStore := postgres.NewQueueStore(db, logger)
	app.notificationQueue = queue.New(queueStore, cfg.Queue.BufferSize, logger)
	app.emitter = events.NewQueueEmitter(app.notificationQueue, logger)

	renderer, err := notify.NewRenderer(cfg.Mail.AppBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build notification renderer: %w", err)
	}

	sender := mail.NewSMTPSender(cfg.Mail.SMTPAddr, cfg.Mail.SMTPUser, cfg.Mail.SMTPPass, logger)

	dispatcher, err := notify.NewDispatcher(
		app.taskStore,
		userStore,
		sender,
		renderer,
		cfg.Mail.FromAddress,
		nil,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build notification dispatcher: %w", err)
	}

	app.consumer = queue.NewConsumer(app.notificationQueue, dispatcher, queue.ConsumerConfig{
		BatchSize:     cfg.Queue.BatchSize,
		FlushInterval: time.Duration(cfg.Queue.FlushIntervalMillis) * time.Millisecond,
	}, logger)
	if err := app.consumer.Start(); err != nil {
		return nil, fmt.Errorf("failed to start notification consumer: %w", err)
	}
	logger.Info("Notification pipeline started",
		"buffer_size", cfg.Queue.BufferSize,
		"batch_size", cfg.Queue.BatchSize)

	// Task service
	app.taskService = service.NewTaskService(app.taskStore, app.emitter, logger)

	// Attachment uploads are optional; without a bucket the endpoint
	// responds 503.
	if cfg.Attachments.Bucket != "" {
		app.uploadSigner, err = objectstore.NewS3Signer(cfg.Attachments, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize attachment signer: %w", err)
		}
		logger.Info("Attachment upload signer initialized", "bucket", cfg.Attachments.Bucket)
	} else {
		logger.Warn("Attachment storage not configured, uploads disabled")
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources. The queue
// is closed before the consumer stops so in-flight records drain.
func (app *application) cleanup() {
	if app.notificationQueue != nil {
		app.notificationQueue.Close()
	}
	if app.consumer != nil {
		app.consumer.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
