// Package app wires the availability engine's repositories, services,
// and handlers into a single Container, selecting a Postgres or SQLite
// backend the way cmd/availctl needs it at startup.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/slotforge/availability/adapter/httpapi"
	"github.com/slotforge/availability/internal/availability/application/queries"
	"github.com/slotforge/availability/internal/availability/application/services"
	"github.com/slotforge/availability/internal/availability/domain"
	"github.com/slotforge/availability/internal/availability/infrastructure/cache"
	"github.com/slotforge/availability/internal/availability/infrastructure/persistence"
	"github.com/slotforge/availability/internal/shared/infrastructure/eventbus"
	"github.com/slotforge/availability/internal/shared/infrastructure/migrations"
	"github.com/slotforge/availability/pkg/config"
)

// Container holds every wired dependency the CLI and HTTP adapters need.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	PostgresPool *pgxpool.Pool
	SQLiteDB     *sql.DB
	RedisClient  *redis.Client

	BlockWriter domain.BlockWriter

	Cache     cache.Cache
	DirtySet  cache.DirtyMarker
	Publisher eventbus.Publisher

	Syncer *persistence.CalendarSyncer

	CalculateSlotsHandler *queries.CalculateAvailableSlotsHandler
	HTTPServer            *httpapi.Server
}

func httpConfig(cfg *config.Config) httpapi.Config {
	httpCfg := httpapi.DefaultConfig()
	httpCfg.Addr = cfg.HTTPAddr
	httpCfg.AllowedOrigins = cfg.HTTPAllowedOrigins
	return httpCfg
}

// Close releases every connection the container opened.
func (c *Container) Close() {
	if c.PostgresPool != nil {
		c.PostgresPool.Close()
	}
	if c.SQLiteDB != nil {
		_ = c.SQLiteDB.Close()
	}
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}
}

// NewContainer wires the full Postgres + Redis + RabbitMQ stack.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	c.PostgresPool = pool
	logger.Info("connected to postgres")

	repo := persistence.NewPostgresRepository(pool)
	c.BlockWriter = repo

	var baseCache cache.Cache = cache.NewInMemoryCache()
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Warn("invalid redis url, falling back to in-memory cache", "error", err)
		} else {
			client := redis.NewClient(opt)
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("redis unreachable, falling back to in-memory cache", "error", err)
			} else {
				c.RedisClient = client
				baseCache = cache.NewBreakerCache(cache.NewRedisCache(client), "availability-redis")
				logger.Info("connected to redis")
			}
		}
	}
	c.Cache = baseCache

	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
	if err != nil {
		logger.Warn("rabbitmq unreachable, invalidation notices will be local only", "error", err)
		c.Publisher = eventbus.NewNoopPublisher(logger)
	} else {
		c.Publisher = publisher
		logger.Info("connected to rabbitmq")
	}
	c.DirtySet = cache.NewNotifyingDirtySet(cache.NewDirtySet(baseCache), c.Publisher, logger)

	c.CalculateSlotsHandler = buildCalculateSlotsHandler(repo, repo, repo, repo, repo, logger)
	c.HTTPServer = httpapi.NewServer(httpConfig(cfg), httpapi.NewHandler(c.CalculateSlotsHandler, c.DirtySet), logger)

	if cfg.CalDAVEnabled() {
		c.Syncer = persistence.NewCalendarSyncer(cfg.CalDAVBaseURL, cfg.CalDAVUsername, cfg.CalDAVPassword, repo, logger)
	}

	return c, nil
}

// NewLocalContainer wires the zero-config SQLite + in-memory-cache stack.
func NewLocalContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	db, err := sql.Open("sqlite", cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database %q: %w", cfg.SQLitePath, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}
	c.SQLiteDB = db
	logger.Info("opened local sqlite database", "path", cfg.SQLitePath)

	if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running sqlite migrations: %w", err)
	}

	repo := persistence.NewSQLiteRepository(db)
	c.BlockWriter = repo

	inMemory := cache.NewInMemoryCache()
	c.Cache = inMemory
	c.Publisher = eventbus.NewNoopPublisher(logger)
	c.DirtySet = cache.NewDirtySet(inMemory)

	c.CalculateSlotsHandler = buildCalculateSlotsHandler(repo, repo, repo, repo, repo, logger)
	c.HTTPServer = httpapi.NewServer(httpConfig(cfg), httpapi.NewHandler(c.CalculateSlotsHandler, c.DirtySet), logger)

	if cfg.CalDAVEnabled() {
		c.Syncer = persistence.NewCalendarSyncer(cfg.CalDAVBaseURL, cfg.CalDAVUsername, cfg.CalDAVPassword, repo, logger)
	}

	return c, nil
}

func buildCalculateSlotsHandler(
	rules domain.RuleRepository,
	blocks domain.BlockRepository,
	bookings domain.BookingRepository,
	buffers domain.BufferRepository,
	organizerAndEventTypes interface {
		domain.OrganizerRepository
		domain.EventTypeRepository
	},
	logger *slog.Logger,
) *queries.CalculateAvailableSlotsHandler {
	resolver := services.NewRuleResolver(rules)
	blockFilter := services.NewBlockFilter(blocks, rules)
	conflict := services.NewConflictFilter(bookings)
	enumerator := services.NewSlotEnumerator()

	return queries.NewCalculateAvailableSlotsHandler(
		organizerAndEventTypes,
		organizerAndEventTypes,
		buffers,
		resolver,
		blockFilter,
		conflict,
		enumerator,
		logger,
	)
}
