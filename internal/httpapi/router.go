package httpapi

import (
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/modeldeck/modeldeck/internal/auth"
	"github.com/modeldeck/modeldeck/internal/catalog"
	"github.com/modeldeck/modeldeck/internal/config"
	"github.com/modeldeck/modeldeck/internal/conncheck"
	"github.com/modeldeck/modeldeck/internal/keystore"
	"github.com/modeldeck/modeldeck/internal/logging"
	"github.com/modeldeck/modeldeck/internal/middleware"
	"github.com/modeldeck/modeldeck/internal/registry"
	"github.com/modeldeck/modeldeck/internal/storage"
	"github.com/modeldeck/modeldeck/internal/utils"
)

// Dependencies aggregates all services the HTTP layer needs.
type Dependencies struct {
	Auth     *auth.Service
	Registry *registry.Service
	Keys     *keystore.Service
	Tester   *conncheck.Tester

	DB    *storage.DB
	Redis *redis.Client // nil when no event buffer is configured
}

// Close releases everything the router owns.
func (d *Dependencies) Close() error {
	if d.Redis != nil {
		d.Redis.Close()
	}
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

// NewRouter creates an HTTP router with all dependencies wired up
func NewRouter(cfg *config.Config, logger *zap.Logger) (*http.ServeMux, *Dependencies, error) {
	db, err := storage.NewDB(storage.DBConfig{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		ModelCacheSize:  cfg.Cache.ModelCacheSize,
		ModelCacheTTL:   cfg.Cache.ModelCacheTTL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Events always reach the application log; a configured Redis address
	// adds the buffered list for external consumers.
	var sink logging.Sink = logging.NewZapSink(logger)
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Address,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		redisSink := logging.NewRedisSink(redisClient, logging.RedisSinkConfig{
			ListKey:   cfg.Events.ListKey,
			MaxEvents: int64(cfg.Events.MaxEvents),
		}, logger)
		sink = logging.NewMultiSink(sink, redisSink)
	}

	source := catalog.NewFallback(
		catalog.NewRemote(cfg.Catalog.BaseURL, cfg.Catalog.Timeout),
		catalog.NewStatic(),
		sink,
	)

	tester := conncheck.NewTester()
	var verifier keystore.Verifier
	if cfg.Keys.VerifyOnSave {
		verifier = tester
	}

	deps := &Dependencies{
		Auth:     auth.NewService(db.NewUserRepository(), []byte(cfg.JWTSecret)),
		Registry: registry.NewService(source, db.NewModelRepository(), sink),
		Keys:     keystore.NewService(db.NewKeyConfigRepository(), verifier, sink),
		Tester:   tester,
		DB:       db,
		Redis:    redisClient,
	}

	mux := http.NewServeMux()
	registerRoutes(mux, deps, cfg)

	return mux, deps, nil
}

func registerRoutes(mux *http.ServeMux, deps *Dependencies, cfg *config.Config) {
	jwt := middleware.JWTMiddleware([]byte(cfg.JWTSecret))

	authHandler := NewAuthHandler(deps.Auth)
	registryHandler := NewRegistryHandler(deps.Registry)
	keysHandler := NewKeysHandler(deps.Keys)
	connHandler := NewConnCheckHandler(deps.Tester)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if deps.DB != nil {
			if err := deps.DB.Health(r.Context()); err != nil {
				utils.RespondWithError(w, http.StatusServiceUnavailable, err.Error())
				return
			}
		}
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /v1/auth/login", authHandler.Login)

	mux.Handle("POST /v1/registry/sync", jwt(http.HandlerFunc(registryHandler.Sync)))
	mux.Handle("GET /v1/registry/models", jwt(http.HandlerFunc(registryHandler.ListModels)))
	mux.Handle("GET /v1/registry/models/by-provider", jwt(http.HandlerFunc(registryHandler.ListByProvider)))
	mux.Handle("GET /v1/registry/models/by-capability", jwt(http.HandlerFunc(registryHandler.ListByCapability)))

	mux.Handle("POST /v1/keys", jwt(http.HandlerFunc(keysHandler.Create)))
	mux.Handle("GET /v1/keys", jwt(http.HandlerFunc(keysHandler.List)))
	mux.Handle("GET /v1/keys/history", jwt(http.HandlerFunc(keysHandler.History)))
	mux.Handle("PUT /v1/keys/{id}", jwt(http.HandlerFunc(keysHandler.Update)))
	mux.Handle("DELETE /v1/keys/{id}", jwt(http.HandlerFunc(keysHandler.Delete)))
	mux.Handle("PATCH /v1/keys/{id}/notes", jwt(http.HandlerFunc(keysHandler.UpdateNotes)))

	mux.Handle("POST /v1/connection/test", jwt(http.HandlerFunc(connHandler.Test)))
}
