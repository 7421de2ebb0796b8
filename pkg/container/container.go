package container

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/nats-io/nats.go"

	"artist-platform/internal/config"
	artistHandler "artist-platform/internal/domains/artist/handler"
	"artist-platform/internal/domains/artist/ledger"
	"artist-platform/internal/domains/artist/repository"
	artistService "artist-platform/internal/domains/artist/service"
	infraCache "artist-platform/internal/infrastructure/cache"
	"artist-platform/internal/infrastructure/database"
	"artist-platform/internal/infrastructure/events"
	"artist-platform/internal/infrastructure/queue"
	"artist-platform/internal/infrastructure/storage"
	"artist-platform/pkg/cache"
	"artist-platform/pkg/derive"
	"artist-platform/pkg/jwt"
	"artist-platform/pkg/logger"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds the dependency graph shared by the api, the worker and the CLI.
// Optional infrastructure (Redis, NATS, MinIO) is left nil when not configured.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infraCache.RedisClient
	Cache      cache.Cache
	NATS       *nats.Conn
	Storage    *storage.MinIOStorage
	JWTManager *jwt.Manager

	// Artist domain
	Store       repository.Store
	Deriver     derive.Deriver
	Leaderboard artistService.LeaderboardStore
	Events      *events.NATSPublisher
	Tasks       *queue.Enqueuer

	ArtistService artistService.ServiceInterface
	ArtistHandler *artistHandler.ArtistHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds in order: infrastructure, store, service, handler
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	// STEP 1: Store
	if err := c.initStore(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}

	// STEP 2: Optional infrastructure
	c.initRedis(ctx)
	if err := c.initNATS(); err != nil {
		c.Cleanup()
		return nil, err
	}
	if err := c.initStorage(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}

	// STEP 3: Auth
	tokens, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	if err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init jwt: %w", err)
	}
	c.JWTManager = tokens

	// STEP 4: Domain
	if err := c.initServices(); err != nil {
		c.Cleanup()
		return nil, err
	}
	c.initHandlers()

	logger.Info("container initialized", map[string]interface{}{
		"store":   cfg.App.StoreBackend,
		"redis":   c.Redis != nil,
		"nats":    c.NATS != nil,
		"storage": c.Storage != nil,
	})
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initStore(ctx context.Context) error {
	if c.Config.App.StoreBackend == config.StoreBackendMemory {
		logger.Warn("using in-memory account store, state is lost on exit", nil)
		c.Store = repository.NewMemoryStore()
		return nil
	}

	dbCfg := c.Config.Database
	db := database.NewPostgresDB(&database.DBConfig{
		Host:              dbCfg.Host,
		Port:              dbCfg.Port,
		Username:          dbCfg.User,
		Password:          dbCfg.Password,
		DBName:            dbCfg.Database,
		SSLMode:           dbCfg.SSLMode,
		MaxConns:          int32(dbCfg.MaxConns),
		MinConns:          int32(dbCfg.MinConns),
		MaxConnLifetime:   dbCfg.MaxConnLifetime,
		MaxConnIdleTime:   dbCfg.MaxConnIdleTime,
		HealthCheckPeriod: dbCfg.HealthCheckPeriod,
		MaxRetries:        dbCfg.MaxRetries,
		RetryDelay:        dbCfg.RetryDelay,
		ConnectTimeout:    dbCfg.ConnectTimeout,
	})
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	if err := repository.Migrate(ctx, db.Pool); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	c.Store = repository.NewPostgresStore(db.Pool)
	return nil
}

// initRedis - Redis failure is not critical for the api; reads fall back to the store
func (c *Container) initRedis(ctx context.Context) {
	rc := infraCache.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := rc.Connect(ctx); err != nil {
		logger.Warn("redis unavailable, running without cache, leaderboard and tasks", map[string]interface{}{
			"error": err.Error(),
		})
		_ = rc.Close()
		return
	}

	c.Redis = rc
	c.Cache = infraCache.NewRedisCache(rc, c.Config.Redis.KeyPrefix)
	c.Leaderboard = infraCache.NewRedisLeaderboard(rc)
	c.Tasks = queue.NewEnqueuer(c.RedisOpt())
}

func (c *Container) initNATS() error {
	if c.Config.NATS.URL == "" {
		return nil
	}
	conn, err := events.Connect(c.Config.NATS.URL, c.Config.App.Name)
	if err != nil {
		return err
	}
	c.NATS = conn
	c.Events = events.NewNATSPublisher(conn, c.Config.NATS.SubjectPrefix)
	return nil
}

func (c *Container) initStorage(ctx context.Context) error {
	if c.Config.MinIO.Endpoint == "" {
		return nil
	}
	s, err := storage.NewMinIOStorage(ctx, c.Config.MinIO)
	if err != nil {
		return err
	}
	c.Storage = s
	return nil
}

func (c *Container) initServices() error {
	deriver, err := derive.NewBlake2bDeriver(c.Config.Ledger.Namespace)
	if err != nil {
		return fmt.Errorf("failed to init deriver: %w", err)
	}
	c.Deriver = deriver

	deps := artistService.Dependencies{
		Store:   c.Store,
		Deriver: deriver,
		Reserve: ledger.ReservePolicy{
			LamportsPerByteYear: c.Config.Ledger.LamportsPerByteYear,
			ExemptionYears:      c.Config.Ledger.ExemptionYears,
			AccountOverhead:     c.Config.Ledger.AccountOverhead,
		},
		Cache:         c.Cache,
		Leaderboard:   c.Leaderboard,
		Decimals:      c.Config.Ledger.Decimals,
		FaucetEnabled: c.Config.Ledger.FaucetEnabled,
	}
	// Typed nils must not reach the interfaces
	if c.Events != nil {
		deps.Events = c.Events
	}
	if c.Tasks != nil {
		deps.Tasks = c.Tasks
	}

	c.ArtistService = artistService.NewArtistService(deps)
	return nil
}

func (c *Container) initHandlers() {
	var uploader artistHandler.ContentUploader
	if c.Storage != nil {
		uploader = c.Storage
	}
	c.ArtistHandler = artistHandler.NewArtistHandler(c.ArtistService, uploader)
}

// ========================================
// HELPER METHODS
// ========================================

// RedisOpt is the asynq connection for the configured Redis
func (c *Container) RedisOpt() asynq.RedisClientOpt {
	return queue.RedisOpt(c.Config.Redis)
}

// HealthCheck reports the status of each configured dependency
func (c *Container) HealthCheck(ctx context.Context) map[string]string {
	status := map[string]string{}
	report := func(name string, err error) {
		if err != nil {
			status[name] = err.Error()
			return
		}
		status[name] = "ok"
	}

	report("store", c.Store.Ping(ctx))
	if c.Cache != nil {
		report("redis", c.Cache.Ping(ctx))
	}
	if c.NATS != nil {
		if c.NATS.IsConnected() {
			report("nats", nil)
		} else {
			report("nats", fmt.Errorf("nats status %s", c.NATS.Status()))
		}
	}
	if c.Storage != nil {
		report("storage", c.Storage.HealthCheck(ctx))
	}
	return status
}

// Cleanup releases connections; safe on a partially built container
func (c *Container) Cleanup() {
	if c.Tasks != nil {
		if err := c.Tasks.Close(); err != nil {
			logger.Error("failed to close task client", err)
		}
	}
	if c.NATS != nil {
		if err := c.NATS.Drain(); err != nil {
			logger.Error("failed to drain nats", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
