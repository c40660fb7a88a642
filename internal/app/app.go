package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"

	"github.com/draft-league/draftroom/internal/config"
	"github.com/draft-league/draftroom/internal/domain/feed"
	"github.com/draft-league/draftroom/internal/domain/player"
	"github.com/draft-league/draftroom/internal/domain/roster"
	"github.com/draft-league/draftroom/internal/domain/user"
	"github.com/draft-league/draftroom/internal/infrastructure/account/introspect"
	"github.com/draft-league/draftroom/internal/infrastructure/notify"
	"github.com/draft-league/draftroom/internal/infrastructure/repository/memory"
	"github.com/draft-league/draftroom/internal/infrastructure/repository/postgres"
	"github.com/draft-league/draftroom/internal/interfaces/httpapi"
	"github.com/draft-league/draftroom/internal/platform/cache"
	idgen "github.com/draft-league/draftroom/internal/platform/id"
	"github.com/draft-league/draftroom/internal/platform/logging"
	"github.com/draft-league/draftroom/internal/platform/resilience"
	"github.com/draft-league/draftroom/internal/usecase"
)

// App holds the wired HTTP server and the resources it owns.
type App struct {
	Server     *http.Server
	dispatcher *notify.Dispatcher
	db         *sqlx.DB
	logger     *logging.Logger
}

type repositories struct {
	players  player.Repository
	rosters  roster.Store
	events   feed.EventRepository
	posts    feed.PostRepository
	profiles user.ProfileRepository
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	limits := roster.DefaultLimits()

	var (
		repos repositories
		db    *sqlx.DB
		err   error
	)
	if cfg.DBEnabled {
		db, err = openDB(cfg)
		if err != nil {
			return nil, err
		}
		repos = repositories{
			players:  postgres.NewPlayerRepository(db),
			rosters:  postgres.NewRosterStore(db, limits),
			events:   postgres.NewEventRepository(db),
			posts:    postgres.NewPostRepository(db),
			profiles: postgres.NewProfileRepository(db),
		}
	} else {
		repos = repositories{
			players:  memory.NewPlayerRepository(memory.SeedPlayers()),
			rosters:  memory.NewRosterStore(limits),
			events:   memory.NewEventRepository(),
			posts:    memory.NewPostRepository(),
			profiles: memory.NewProfileRepository(),
		}
	}

	var catalogCache *cache.Store
	if cfg.CacheEnabled {
		catalogCache = cache.NewStore(cfg.CacheTTL)
	}

	var publisher notify.Publisher = notify.NopPublisher{}
	if cfg.WebhookEnabled {
		publisher = notify.NewWebhookPublisher(notify.WebhookPublisherConfig{
			URL:       cfg.WebhookURL,
			AuthToken: cfg.WebhookAuthToken,
			Timeout:   cfg.WebhookTimeout,
			Breaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.WebhookCircuitEnabled,
				FailureThreshold: cfg.WebhookCircuitFailures,
				OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMax,
			},
		})
	}
	dispatcher, err := notify.NewDispatcher(cfg.EventWorkers, publisher, logger)
	if err != nil {
		return nil, fmt.Errorf("build event dispatcher: %w", err)
	}

	idGen := idgen.NewRandomGenerator()

	draftSvc := usecase.NewDraftService(
		repos.players,
		repos.rosters,
		repos.events,
		repos.posts,
		repos.profiles,
		limits,
		idGen,
		dispatcher,
		catalogCache,
		logger,
	)
	catalogSvc := usecase.NewCatalogService(repos.players, repos.rosters, catalogCache, logger)
	feedSvc := usecase.NewFeedService(repos.posts, repos.events, repos.profiles, idGen, logger)
	profileSvc := usecase.NewProfileService(repos.profiles, logger)

	verifier := introspect.NewClient(
		&http.Client{Timeout: cfg.AuthTimeout},
		cfg.AuthBaseURL,
		cfg.AuthIntrospectPath,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.AuthCircuitEnabled,
			FailureThreshold: cfg.AuthCircuitFailureCount,
			OpenTimeout:      cfg.AuthCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AuthCircuitHalfOpenMaxReq,
		},
		logger,
	)

	handler := httpapi.NewHandler(draftSvc, catalogSvc, feedSvc, profileSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server:     server,
		dispatcher: dispatcher,
		db:         db,
		logger:     logger,
	}, nil
}

// Close releases everything the App owns, after the HTTP server has stopped.
func (a *App) Close(ctx context.Context) {
	if a.dispatcher != nil {
		a.dispatcher.Close(ctx)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("close db", "error", err)
		}
	}
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	opts := []otelsql.Option{
		otelsql.WithAttributes(semconv.DBSystemNamePostgreSQL),
	}
	if name := dbNameFromURL(dsn); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Connect("postgres", dsn, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	return db, nil
}
