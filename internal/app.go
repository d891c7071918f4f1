// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "centledger/internal/api"
	"centledger/internal/api/handler"
	"centledger/internal/auth"
	"centledger/internal/config"
	"centledger/internal/events"
	"centledger/internal/repository"
	"centledger/internal/repository/postgres"
	"centledger/internal/service"
	"centledger/internal/util"
	"centledger/pkg/db"
)

// Application holds all the initialized components of the application.
// Everything is constructed explicitly here; there is no DI container.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	AccountRepository     repository.AccountRepository
	TransactionRepository repository.TransactionRepository

	// Event publishing
	Publisher        events.Publisher
	webhookPublisher *events.WebhookPublisher

	// Services
	AuthService   auth.Service
	LedgerService service.LedgerService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()

	// 2. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	// 4. Initialize Repositories
	app.AccountRepository = postgres.NewAccountRepository()
	app.TransactionRepository = postgres.NewTransactionRepository()
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Event Publisher
	if app.Config.WebhookURL != "" {
		app.webhookPublisher = events.NewWebhookPublisher(app.Config.WebhookURL, app.Logger)
		app.Publisher = app.webhookPublisher
		app.Logger.Info("Webhook event publisher initialized.", "url", app.Config.WebhookURL)
	} else {
		app.Publisher = events.NewLogPublisher(app.Logger)
		app.Logger.Info("Log event publisher initialized.")
	}

	// 6. Initialize Services
	app.AuthService = auth.NewService(
		app.DB,
		app.DB,
		app.AccountRepository,
		app.Config.JWTSecret,
		app.Config.JWTTTL,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.LedgerService = service.NewLedgerService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.AccountRepository,
		app.TransactionRepository,
		service.NewStrategyFactory(),
		app.Publisher,
		app.Logger,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	// 7. Initialize HTTP Handlers and Router
	authHandler := handler.NewAuthHandler(app.AuthService, app.Logger)
	ledgerHandler := handler.NewLedgerHandler(app.LedgerService, app.Logger)
	app.HTTPHandler = router.NewRouter(authHandler, ledgerHandler, app.AuthService, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.webhookPublisher != nil {
		app.webhookPublisher.Close()
		app.Logger.Info("Webhook publisher drained.")
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
