package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/uranai-api/internal/config"
	"github.com/phrazzld/uranai-api/internal/domain/compare"
	"github.com/phrazzld/uranai-api/internal/events"
	"github.com/phrazzld/uranai-api/internal/generation"
	"github.com/phrazzld/uranai-api/internal/observability"
	"github.com/phrazzld/uranai-api/internal/platform/gemini"
	"github.com/phrazzld/uranai-api/internal/platform/kafka"
	"github.com/phrazzld/uranai-api/internal/platform/memory"
	"github.com/phrazzld/uranai-api/internal/platform/postgres"
	"github.com/phrazzld/uranai-api/internal/service"
	"github.com/phrazzld/uranai-api/internal/service/auth"
	"github.com/phrazzld/uranai-api/internal/store"
)

// application holds the shared dependencies and owns their cleanup.
type application struct {
	config *config.Config
	logger *slog.Logger

	db           *sql.DB
	resultStore  store.ResultStore
	companyStore store.CompanyStore

	// optional collaborators; nil when not configured
	tokens    auth.TokenService
	generator generation.Generator
	publisher *kafka.Publisher
	forwarder *events.AsyncHandler

	emitter *events.InMemoryEventEmitter

	divination service.DivinationService
	results    service.ResultService
	comparison service.ComparisonService
	feedback   service.FeedbackService
	analytics  service.AnalyticsService
	companies  service.CompanyService
}

// newApplication builds every dependency from cfg. Optional integrations
// (Postgres, bearer tokens, Gemini, Kafka) are wired only when configured.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	if err := app.setupStore(ctx); err != nil {
		app.cleanup(ctx)
		return nil, err
	}
	if err := app.setupIntegrations(ctx); err != nil {
		app.cleanup(ctx)
		return nil, err
	}
	if err := app.setupServices(); err != nil {
		app.cleanup(ctx)
		return nil, err
	}

	logger.Info("application initialized successfully")
	return app, nil
}

func (app *application) setupStore(ctx context.Context) error {
	if !app.config.Database.Enabled() {
		app.logger.Warn("no database configured, results are kept in memory")
		app.resultStore = memory.NewResultStore(app.logger)
		app.companyStore = memory.NewCompanyStore(app.logger)
		return nil
	}

	db, err := postgres.Open(ctx, app.config.Database.URL, app.logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	app.db = db

	if app.config.Database.RunMigrations {
		if err := postgres.Migrate(ctx, db, postgres.MigrateUp, app.logger); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	app.resultStore = postgres.NewPostgresResultStore(db, app.logger)
	app.companyStore = postgres.NewPostgresCompanyStore(db, app.logger)
	return nil
}

func (app *application) setupIntegrations(ctx context.Context) error {
	var err error

	if app.config.Auth.Enabled() {
		app.tokens, err = auth.NewJWTService(app.config.Auth)
		if err != nil {
			return fmt.Errorf("failed to initialize token service: %w", err)
		}
		app.logger.Info("bearer token authentication enabled",
			slog.Int("token_lifetime_minutes", app.config.Auth.TokenLifetimeMinutes))
	}

	if app.config.LLM.Enabled() {
		gen, err := gemini.NewGeminiGenerator(ctx, app.logger, app.config.LLM)
		if err != nil {
			return fmt.Errorf("failed to initialize LLM generator: %w", err)
		}
		app.generator = gen
		app.logger.Info("LLM generator initialized", slog.String("model", app.config.LLM.ModelName))
	} else {
		app.logger.Warn("no Gemini API key configured, feedback will use the fallback text")
	}

	app.emitter = events.NewInMemoryEventEmitter(app.logger)
	app.emitter.RegisterHandler(observability.EventsHandler())

	if app.config.Events.KafkaEnabled() {
		app.publisher, err = kafka.NewPublisher(app.config.Events.KafkaBrokers, app.config.Events.Topic, app.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize kafka publisher: %w", err)
		}
		app.forwarder = events.NewAsyncHandler(app.publisher, events.DefaultAsyncConfig(), app.logger)
		app.emitter.RegisterHandler(app.forwarder)
		app.logger.Info("forwarding result events to kafka", slog.String("topic", app.config.Events.Topic))
	}

	return nil
}

func (app *application) setupServices() error {
	var err error

	app.divination = service.NewDivinationService(nil, nil, app.logger)

	app.results, err = service.NewResultService(app.resultStore, app.emitter, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create result service: %w", err)
	}

	engine := compare.NewEngine(compare.WithElementalScoring(app.config.Comparison.ElementalScoring))
	app.comparison, err = service.NewComparisonService(app.resultStore, engine, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create comparison service: %w", err)
	}

	app.feedback, err = service.NewFeedbackService(app.resultStore, app.generator, nil, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create feedback service: %w", err)
	}

	app.analytics, err = service.NewAnalyticsService(app.resultStore, nil, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create analytics service: %w", err)
	}

	app.companies, err = service.NewCompanyService(app.companyStore, app.resultStore, app.comparison, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create company service: %w", err)
	}

	return nil
}

// Run serves HTTP until ctx is cancelled, then releases resources.
func (app *application) Run(ctx context.Context) error {
	err := app.startHTTPServer(ctx, app.setupRouter())
	app.cleanup(context.Background())
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup drains pending events and closes connections. It is safe to call
// on a partially built application.
func (app *application) cleanup(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, app.config.Server.ShutdownTimeout())
	defer cancel()

	if app.forwarder != nil {
		if err := app.forwarder.Stop(shutdownCtx); err != nil {
			app.logger.Error("event forwarder did not drain", "error", err)
		}
	}
	if app.publisher != nil {
		if err := app.publisher.Close(); err != nil {
			app.logger.Error("error closing kafka publisher", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
}
