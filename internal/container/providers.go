// Package container provides dependency injection and lifecycle management
// for the Billed web client.
package container

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/billed/internal/application/port"
	"github.com/garyjia/billed/internal/application/service"
	"github.com/garyjia/billed/internal/auth"
	"github.com/garyjia/billed/internal/config"
	"github.com/garyjia/billed/internal/infrastructure/api"
	"github.com/garyjia/billed/internal/infrastructure/cachestore"
	"github.com/garyjia/billed/internal/infrastructure/export"
	infraLark "github.com/garyjia/billed/internal/infrastructure/external/lark"
	"github.com/garyjia/billed/internal/infrastructure/persistence/repository"
	"github.com/garyjia/billed/internal/infrastructure/storage"
	apihttp "github.com/garyjia/billed/internal/interfaces/http"
	"github.com/garyjia/billed/migrations"
	"github.com/garyjia/billed/pkg/database"
)

// StoreBundle holds the bill store and what backs it.
// DB and Receipts are only set for the sqlite driver.
type StoreBundle struct {
	Store    port.BillStore
	DB       *database.DB
	Receipts *storage.LocalFileStorage
}

// ProvideStore creates the bill store selected by cfg.Store.Driver,
// wrapped in the list cache when a cache TTL is set.
func ProvideStore(cfg *config.Config, logger *zap.Logger) (*StoreBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	bundle := &StoreBundle{}

	switch cfg.Store.Driver {
	case config.StoreDriverHTTP:
		bundle.Store = api.NewClient(api.Config{
			BaseURL: cfg.Store.APIURL,
			Timeout: cfg.Store.Timeout,
		}, logger)

	case config.StoreDriverSQLite:
		db, err := database.New(database.Config{
			Path:            cfg.Database.Path,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		}, logger)
		if err != nil {
			return nil, err
		}

		if err := database.NewMigrator(db, logger).RunMigrations(migrations.FS); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		bundle.DB = db
		bundle.Receipts = storage.NewLocalFileStorage(cfg.Receipts.Dir, logger)
		bundle.Store = repository.NewBillRepository(db.DB, bundle.Receipts, cfg.Receipts.URLPrefix, logger)

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if cfg.Store.CacheTTL > 0 {
		bundle.Store = cachestore.NewBillStore(bundle.Store, cfg.Store.CacheTTL, logger)
	}

	logger.Info("Bill store ready",
		zap.String("driver", cfg.Store.Driver),
		zap.Duration("cache_ttl", cfg.Store.CacheTTL))

	return bundle, nil
}

// ProvideNotifier creates the approvers notifier.
// Without Lark credentials submissions are not announced.
func ProvideNotifier(cfg *config.LarkConfig, logger *zap.Logger) port.BillNotifier {
	larkCfg := infraLark.Config{
		AppID:     cfg.AppID,
		AppSecret: cfg.AppSecret,
		ChatID:    cfg.ChatID,
	}
	if !larkCfg.Enabled() {
		logger.Info("Lark notifications disabled")
		return infraLark.NoopNotifier{}
	}

	client := infraLark.NewSDKClient(larkCfg, logger)
	return infraLark.NewNotifier(client, larkCfg.ChatID, logger)
}

// HandlerDeps are the components the HTTP handlers are built from
type HandlerDeps struct {
	Config   *config.Config
	Stores   *StoreBundle
	Notifier port.BillNotifier
	Logger   *zap.Logger
}

// ProvideHandlers creates the HTTP handlers
func ProvideHandlers(deps *HandlerDeps) (*apihttp.Handlers, error) {
	if deps == nil || deps.Config == nil || deps.Stores == nil || deps.Logger == nil {
		return nil, fmt.Errorf("handler dependencies are incomplete")
	}
	cfg := deps.Config
	serviceLogger := &zapLoggerAdapter{logger: deps.Logger}

	handlerDeps := apihttp.Dependencies{
		BillList:    service.NewBillListService(deps.Stores.Store, serviceLogger),
		Store:       deps.Stores.Store,
		Notifier:    deps.Notifier,
		Exporter:    export.NewBillExporter(deps.Logger),
		Tokens:      auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Submissions: apihttp.NewSubmissionLimiter(cfg.RateLimit.SubmitInterval, cfg.RateLimit.SubmitBurst, 30*time.Minute),
		Cookie: apihttp.CookieConfig{
			Name:   cfg.Auth.CookieName,
			MaxAge: cfg.Auth.TokenTTL,
			Secure: cfg.Auth.SecureCookie,
		},
		AllowedExtensions: cfg.Receipts.AllowedExtensions,
	}
	if deps.Stores.Receipts != nil {
		handlerDeps.Receipts = deps.Stores.Receipts
	}

	return apihttp.NewHandlers(handlerDeps, serviceLogger), nil
}

// ProvideServer creates the HTTP server
func ProvideServer(cfg *config.Config, handlers *apihttp.Handlers, logger *zap.Logger) *apihttp.Server {
	return apihttp.NewServer(apihttp.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		RateEvery:    cfg.RateLimit.Every,
		RateBurst:    cfg.RateLimit.Burst,
	}, handlers, &zapLoggerAdapter{logger: logger})
}
