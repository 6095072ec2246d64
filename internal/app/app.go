// Package app assembles idstore from its configuration.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.pilab.hu/idstore/bolt"
	"go.pilab.hu/idstore/cache"
	cacheredis "go.pilab.hu/idstore/cache/redis"
	"go.pilab.hu/idstore/cleanup"
	"go.pilab.hu/idstore/config"
	"go.pilab.hu/idstore/docstore"
	"go.pilab.hu/idstore/domain"
	"go.pilab.hu/idstore/internal/metrics"
	"go.pilab.hu/idstore/log"
	"go.pilab.hu/idstore/mongodb"
	"go.pilab.hu/idstore/notify"
	"go.pilab.hu/idstore/serializer"
	"go.pilab.hu/idstore/stores"
)

const redisCachePrefix = "idstore:cache"

// App holds every long-lived component. Build it with New and release it
// with Close.
type App struct {
	Config      *config.Config
	Logger      log.Logger
	Backend     docstore.Store
	Collections docstore.Collections
	Stores      *stores.Stores
	Registry    *prometheus.Registry
	Metrics     *metrics.Metrics
	Cleanup     *cleanup.TokenCleanupService

	// Read paths, cached when the cache is enabled.
	Clients   domain.ClientStore
	Resources domain.ResourceStore
	Cors      domain.CorsPolicyService

	redis    *redis.Client
	memCache *cache.MemoryCache
}

// New connects the configured backend and wires stores, cache, metrics and
// the cleanup service. cfg must already be valid.
func New(ctx context.Context, cfg *config.Config, logger log.Logger) (_ *App, err error) {
	if logger == nil {
		logger = log.NewNop()
	}

	a := &App{
		Config:      cfg,
		Logger:      logger,
		Collections: docstore.NewCollections(cfg.CollectionPrefix),
		Registry:    prometheus.NewRegistry(),
	}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.Metrics = metrics.New(a.Registry, logger)

	if a.Backend, err = openBackend(ctx, cfg, a.Collections, logger); err != nil {
		return nil, err
	}

	if cfg.NeedsRedis() {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err = a.redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.Addr, err)
		}
	}

	a.Stores = stores.New(a.Backend, a.Collections, serializer.JSON{}, logger)
	a.Clients, a.Resources, a.Cors = a.Stores.Clients, a.Stores.Resources, a.Stores.Cors

	if cfg.Cache.Enabled {
		a.wrapCache()
	}

	var observers notify.Multi
	observers = append(observers, notify.NewLogging(logger.With(log.Fields{"component": "cleanup_notification"})))
	if cfg.Notification.RedisChannel != "" {
		observers = append(observers, notify.NewRedis(a.redis, cfg.Notification.RedisChannel))
	}

	a.Cleanup, err = cleanup.NewTokenCleanupService(a.Backend, a.Collections,
		cleanup.WithBatchSize(cfg.TokenCleanup.BatchSize),
		cleanup.WithNotification(observers),
		cleanup.WithRecorder(a.Metrics),
		cleanup.WithLogger(logger.With(log.Fields{"component": "token_cleanup"})),
	)
	if err != nil {
		return nil, err
	}

	return a, nil
}

func openBackend(ctx context.Context, cfg *config.Config, cols docstore.Collections, logger log.Logger) (docstore.Store, error) {
	switch cfg.StorageBackend {
	case config.StorageTypeMongoDB:
		client, err := mongodb.Connect(ctx, cfg.MongoURI, logger)
		if err != nil {
			return nil, err
		}
		store := mongodb.NewStore(client, cfg.MongoDBName,
			mongodb.WithTransactions(cfg.MongoTransactions),
			mongodb.WithLogger(logger),
		)
		if err := store.EnsureIndexes(ctx, cols); err != nil {
			_ = store.Close(context.Background())
			return nil, err
		}
		return store, nil

	case config.StorageTypeBolt:
		store, err := bolt.Open(cfg.BoltPath, logger)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureCollections(cols.All()...); err != nil {
			_ = store.Close(context.Background())
			return nil, err
		}
		return store, nil
	}

	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}

func (a *App) wrapCache() {
	var c cache.Cache
	if a.Config.Cache.Backend == config.CacheBackendRedis {
		c = cacheredis.NewCache(a.redis, redisCachePrefix)
	} else {
		a.memCache = cache.NewMemoryCache(a.Config.Cache.TTL)
		c = a.memCache
	}

	opts := []cache.Option{
		cache.WithTTL(a.Config.Cache.TTL),
		cache.WithRecorder(a.Metrics),
		cache.WithLogger(a.Logger.With(log.Fields{"component": "cache"})),
	}
	a.Clients = cache.NewClientStore(a.Stores.Clients, c, opts...)
	a.Resources = cache.NewResourceStore(a.Stores.Resources, c, opts...)
	a.Cors = cache.NewCorsPolicyService(a.Stores.Cors, c, opts...)
}

// Close releases the backend, Redis and the memory cache.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.memCache != nil {
		a.memCache.Stop()
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.Backend != nil {
		errs = append(errs, a.Backend.Close(ctx))
	}
	return errors.Join(errs...)
}
