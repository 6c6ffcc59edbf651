package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	// Domains
	"github.com/quickai/server/internal/domain/creation"
	"github.com/quickai/server/internal/domain/entitlement"
	"github.com/quickai/server/internal/domain/generation"

	// Ports
	"github.com/quickai/server/internal/port/inbound"
	"github.com/quickai/server/internal/port/outbound"

	// Outbound adapters
	"github.com/quickai/server/internal/adapter/outbound/aiprovider"
	"github.com/quickai/server/internal/adapter/outbound/document"
	"github.com/quickai/server/internal/adapter/outbound/identity"
	"github.com/quickai/server/internal/adapter/outbound/imageproc"
	"github.com/quickai/server/internal/adapter/outbound/postgres"
	redisadapter "github.com/quickai/server/internal/adapter/outbound/redis"
	s3adapter "github.com/quickai/server/internal/adapter/outbound/s3"

	// Shared infrastructure
	sharedcache "github.com/quickai/server/internal/shared/cache"
	"github.com/quickai/server/internal/shared/config"
	"github.com/quickai/server/internal/shared/database"
	"github.com/quickai/server/internal/shared/httpclient"
	"github.com/quickai/server/internal/shared/logger"
	"github.com/quickai/server/internal/shared/metrics"
)

// App wires configuration, infrastructure, domains and the HTTP router.
type App struct {
	config    *config.Config
	db        *gorm.DB
	redis     goredis.UniversalClient
	router    *gin.Engine
	logger    *logger.Logger
	zapLogger *zap.Logger
	metrics   *metrics.Metrics

	identity outbound.IdentityPort
	resolver *entitlement.Resolver
	limiter  outbound.RateLimiterPort

	creationDomain   inbound.CreationDomain
	generationDomain inbound.GenerationDomain

	cleanupFuncs []func()
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	return build(cfg, db)
}

// build assembles the application around an open database.
func build(cfg *config.Config, db *gorm.DB) (*App, error) {
	logCfg := &logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}
	zapLog, err := logger.NewZapLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("init zap logger: %w", err)
	}

	a := &App{
		config:    cfg,
		db:        db,
		logger:    logger.New(logCfg),
		zapLogger: zapLog,
		metrics:   metrics.New("quickai"),
	}
	a.cleanupFuncs = append(a.cleanupFuncs, func() {
		if err := database.Close(db); err != nil {
			zapLog.Warn("close database", zap.Error(err))
		}
	})

	a.initRedis()

	if err := a.initDomains(); err != nil {
		a.Stop()
		return nil, fmt.Errorf("init domains: %w", err)
	}

	a.router = a.setupRouter()
	a.registerRoutes()
	return a, nil
}

// initRedis connects to Redis when configured. Without Redis the feed
// cache and rate limiting are disabled.
func (a *App) initRedis() {
	if a.config.Redis.Address == "" {
		return
	}
	client, err := sharedcache.NewRedisClient(context.Background(), &a.config.Redis)
	if err != nil {
		a.zapLogger.Warn("Redis connection failed, continuing without cache", zap.Error(err))
		return
	}
	a.redis = client
	a.cleanupFuncs = append(a.cleanupFuncs, func() {
		if err := sharedcache.Close(client); err != nil {
			a.zapLogger.Warn("close redis", zap.Error(err))
		}
	})
}

func (a *App) initIdentity(ctx context.Context) (outbound.IdentityPort, error) {
	switch a.config.Identity.Provider {
	case config.IdentityProviderFirebase:
		fb := a.config.Identity.Firebase
		provider, err := identity.NewFirebaseProvider(ctx, identity.FirebaseConfig{
			CredentialsFile: fb.CredentialsFile,
			DatabaseURL:     fb.DatabaseURL,
			ProjectID:       fb.ProjectID,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	case config.IdentityProviderLocal:
		return identity.NewLocalProvider(identity.LocalConfig{
			Secret: a.config.Identity.JWTSecret,
			Issuer: a.config.Identity.JWTIssuer,
		}, postgres.NewAccountAdapter(a.db)), nil
	}
	return nil, fmt.Errorf("unknown identity provider %q", a.config.Identity.Provider)
}

func (a *App) initDomains() error {
	ctx := context.Background()
	cfg := a.config

	id, err := a.initIdentity(ctx)
	if err != nil {
		return fmt.Errorf("init identity: %w", err)
	}
	a.identity = id

	overrides := make(map[string]entitlement.PolicyOverride, len(cfg.Capabilities))
	for name, cc := range cfg.Capabilities {
		overrides[name] = entitlement.PolicyOverride{Cost: cc.Cost, PremiumRequired: cc.PremiumRequired}
	}
	catalog, err := entitlement.NewCatalog(overrides)
	if err != nil {
		return fmt.Errorf("init capability catalog: %w", err)
	}
	gate := entitlement.NewGate(cfg.Quota.FreeLimit)
	a.resolver = entitlement.NewResolver(id, cfg.Identity.PremiumPlan, a.zapLogger)
	committer := entitlement.NewCommitter(id, gate.FreeLimit(), a.zapLogger)

	clientCfg := httpclient.DefaultConfig()
	if cfg.AI.RequestTimeout > 0 {
		clientCfg.ResponseTimeout = cfg.AI.RequestTimeout
	}
	openai := aiprovider.NewOpenAIClient(httpclient.New(clientCfg), aiprovider.Config{
		BaseURL:    cfg.AI.BaseURL,
		APIKey:     cfg.AI.APIKey,
		TextModel:  cfg.AI.TextModel,
		ImageModel: cfg.AI.ImageModel,
		ImageSize:  cfg.AI.ImageSize,
	})
	provider := aiprovider.NewGuarded(openai, openai, aiprovider.BreakerConfig{
		Name:             "openai",
		FailureThreshold: cfg.AI.FailureThreshold,
		Timeout:          cfg.AI.CircuitTimeout,
	}, a.metrics, a.zapLogger)

	s3Client, err := s3adapter.NewClient(ctx, &cfg.Storage)
	if err != nil {
		return fmt.Errorf("init object storage: %w", err)
	}

	invoker := generation.NewInvoker(generation.Providers{
		Text:      provider,
		Image:     provider,
		Storage:   s3adapter.NewAssetStorageAdapter(s3Client, &cfg.Storage),
		Images:    imageproc.NewProcessor(imageproc.DefaultMaxDimension),
		Documents: document.NewPDFReader(generation.MaxDocumentSize),
	})

	var feed outbound.FeedCachePort
	if a.redis != nil {
		feed = redisadapter.NewFeedCache(a.redis)
		if cfg.RateLimit.Enabled {
			a.limiter = redisadapter.NewRateLimiter(a.redis)
		}
	}

	a.creationDomain = creation.NewCreationDomain(
		postgres.NewCreationAdapter(a.db),
		feed,
		creation.Config{FeedCacheTTL: cfg.Feed.CacheTTL},
		a.metrics,
		a.zapLogger,
	)
	a.generationDomain = generation.NewGenerationDomain(
		a.resolver,
		catalog,
		gate,
		committer,
		invoker,
		a.creationDomain,
		a.metrics,
		a.zapLogger,
	)
	return nil
}

// Router returns the HTTP handler.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop releases resources in reverse acquisition order.
func (a *App) Stop() {
	for i := len(a.cleanupFuncs) - 1; i >= 0; i-- {
		a.cleanupFuncs[i]()
	}
	a.cleanupFuncs = nil
	_ = a.zapLogger.Sync()
}

// pingDatabase reports whether the database answers within timeout.
func (a *App) pingDatabase(ctx context.Context, timeout time.Duration) error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
