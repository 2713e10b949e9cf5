package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	membershipservice "clearwater/contexts/identity-access/membership-service"
	directoryadapter "clearwater/contexts/identity-access/membership-service/adapters/directory"
	activityservice "clearwater/contexts/moderation-safety/activity-service"
	activitypostgres "clearwater/contexts/moderation-safety/activity-service/adapters/postgres"
	moderationlogservice "clearwater/contexts/moderation-safety/moderation-log-service"
	moderationpostgres "clearwater/contexts/moderation-safety/moderation-log-service/adapters/postgres"
	moderationports "clearwater/contexts/moderation-safety/moderation-log-service/ports"
	"clearwater/internal/platform/config"
	"clearwater/internal/platform/db"
	"clearwater/internal/platform/httpserver"
	"clearwater/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server    *httpserver.Server
	postgres  *db.Postgres
	directory *directoryadapter.Client
	guildID   string

	// In-process side channel, active only when no Kafka brokers are
	// configured. The activity consumer then runs inside the API process.
	bus      *messaging.Bus
	activity activityservice.Module
	topic    string

	kafka  *messaging.KafkaPublisher
	logger *slog.Logger
}

type WorkerApp struct {
	postgres *db.Postgres
	consumer *messaging.KafkaConsumer
	activity activityservice.Module
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")

	app := &APIApp{
		guildID: cfg.GuildID,
		topic:   cfg.ActivityTopic,
		logger:  logger,
	}

	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		pg, err := db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		app.postgres = pg
	}

	membership := buildMembership(cfg, logger, app)
	app.activity = buildActivity(app.postgres, logger)

	var publisher moderationports.ActivityPublisher
	if len(cfg.KafkaBrokers) > 0 {
		app.kafka = messaging.NewKafkaPublisher(cfg.KafkaBrokers, cfg.ActivityTopic, logger)
		publisher = app.kafka
	} else {
		app.bus = messaging.NewBus(logger)
		publisher = app.bus
	}

	var moderation moderationlogservice.Module
	if app.postgres != nil {
		moderation = moderationlogservice.NewModule(moderationlogservice.Dependencies{
			Repository:    moderationpostgres.NewRepository(app.postgres.DB, logger),
			Clock:         moderationpostgres.SystemClock{},
			Publisher:     publisher,
			ActivityTopic: cfg.ActivityTopic,
			Logger:        logger,
		})
	} else {
		moderation = moderationlogservice.NewInMemoryModule(publisher, cfg.ActivityTopic, logger)
	}

	app.server = httpserver.New(membership, moderation, app.activity, logger, normalizeAddr(cfg.HTTPPort))
	return app, nil
}

// buildMembership prefers the REST directory; without a base URL it
// falls back to an in-memory directory so local runs stay usable.
func buildMembership(cfg config.Config, logger *slog.Logger, app *APIApp) membershipservice.Module {
	if strings.TrimSpace(cfg.DirectoryBaseURL) == "" {
		logger.Warn("no directory configured, falling back to in-memory roles",
			"event", "bootstrap_directory_fallback",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		return membershipservice.NewInMemoryModule(logger)
	}

	client := directoryadapter.New(cfg.DirectoryBaseURL, cfg.DirectoryToken, logger)
	app.directory = client
	return membershipservice.NewModule(membershipservice.Dependencies{
		Directory:        client,
		Clock:            systemClock{},
		GuildID:          cfg.GuildID,
		StaffRoleID:      cfg.StaffRoleID,
		DispatchRoleID:   cfg.DispatchRoleID,
		HRRoleID:         cfg.HRRoleID,
		DirectoryTimeout: cfg.DirectoryTimeout,
		Logger:           logger,
	})
}

func buildActivity(pg *db.Postgres, logger *slog.Logger) activityservice.Module {
	if pg == nil {
		return activityservice.NewInMemoryModule(logger)
	}
	return activityservice.NewModule(activityservice.Dependencies{
		Repository:  activitypostgres.NewRepository(pg.DB, logger),
		Clock:       activitypostgres.SystemClock{},
		IDGenerator: activitypostgres.UUIDGenerator{},
		Logger:      logger,
	})
}

func (a *APIApp) Run(ctx context.Context) error {
	if a.directory != nil {
		a.directory.Start(ctx, a.guildID)
	}
	if a.bus != nil {
		go a.activity.Consumer.Run(ctx, a.bus.Subscribe(a.topic))
	}

	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return a.server.Start()
}

func (a *APIApp) Close() error {
	var errs []error
	if a.kafka != nil {
		errs = append(errs, a.kafka.Close())
	}
	if a.postgres != nil {
		errs = append(errs, a.postgres.Close())
	}
	return errors.Join(errs...)
}

// BuildWorker assembles the Kafka-fed activity writer. It requires both
// a DSN and brokers; without them the API process already records
// activity in-process and no worker is needed.
func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")

	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	return &WorkerApp{
		postgres: pg,
		consumer: messaging.NewKafkaConsumer(cfg.KafkaBrokers, cfg.ActivityTopic, "clearwater-activity-cg", logger),
		activity: buildActivity(pg, logger),
		logger:   logger,
	}, nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return w.consumer.Run(ctx, w.activity.Consumer.Handle)
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

// Migrate creates or updates the schema for both persistence-backed
// services.
func Migrate() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer func() { _ = pg.Close() }()

	if err := moderationpostgres.Migrate(pg.DB); err != nil {
		return err
	}
	return activitypostgres.Migrate(pg.DB)
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
