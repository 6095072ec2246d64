// Package config loads idstore settings from a YAML file, IDSTORE_* environment
// variables and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.pilab.hu/idstore/docstore"
)

// StorageType selects the document store backend.
type StorageType string

const (
	StorageTypeMongoDB StorageType = "mongodb"
	StorageTypeBolt    StorageType = "bolt"
)

// CacheBackend selects where cached configuration lives.
type CacheBackend string

const (
	CacheBackendMemory CacheBackend = "memory"
	CacheBackendRedis  CacheBackend = "redis"
)

// Config holds all configuration for idstore.
type Config struct {
	StorageBackend    StorageType `mapstructure:"storage_backend"`
	MongoURI          string      `mapstructure:"mongo_uri"`
	MongoDBName       string      `mapstructure:"mongo_db_name"`
	MongoTransactions bool        `mapstructure:"mongo_transactions"` // requires a replica set
	BoltPath          string      `mapstructure:"bolt_path"`
	CollectionPrefix  string      `mapstructure:"collection_prefix"`

	TokenCleanup TokenCleanupConfig `mapstructure:"token_cleanup"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Notification NotificationConfig `mapstructure:"notification"`

	LogLevel        string `mapstructure:"log_level"`
	LogPretty       bool   `mapstructure:"log_pretty"`
	HTTPAddr        string `mapstructure:"http_addr"`
	OtelServiceName string `mapstructure:"otel_service_name"`
}

// TokenCleanupConfig drives the periodic removal of expired records.
type TokenCleanupConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	BatchSize int           `mapstructure:"batch_size"`
}

// CacheConfig enables the configuration store cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Backend CacheBackend  `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NotificationConfig publishes cleanup events on a Redis channel when set.
type NotificationConfig struct {
	RedisChannel string `mapstructure:"redis_channel"`
}

// LoadConfig reads path when given, otherwise idstore.yaml from the working
// directory, /etc/idstore/ or $HOME/.idstore. A missing default file is not an
// error; a missing explicit path is.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("idstore")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/idstore/")
		v.AddConfigPath("$HOME/.idstore")
	}

	v.SetEnvPrefix("IDSTORE") // IDSTORE_MONGO_URI, IDSTORE_TOKEN_CLEANUP_INTERVAL, ...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return &cfg, nil
}

// Every key needs a default, otherwise AutomaticEnv does not reach it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("storage_backend", string(StorageTypeMongoDB))
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_db_name", "idstore")
	v.SetDefault("mongo_transactions", false)
	v.SetDefault("bolt_path", "idstore.db")
	v.SetDefault("collection_prefix", docstore.DefaultCollectionPrefix)

	v.SetDefault("token_cleanup.enabled", true)
	v.SetDefault("token_cleanup.interval", "1h")
	v.SetDefault("token_cleanup.batch_size", 100)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.backend", string(CacheBackendMemory))
	v.SetDefault("cache.ttl", "5m")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("notification.redis_channel", "")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("http_addr", "0.0.0.0:8080")
	v.SetDefault("otel_service_name", "idstore")
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.StorageBackend {
	case StorageTypeMongoDB:
		if c.MongoURI == "" || c.MongoDBName == "" {
			errs = append(errs, errors.New("mongo_uri and mongo_db_name are required for the mongodb backend"))
		}
	case StorageTypeBolt:
		if c.BoltPath == "" {
			errs = append(errs, errors.New("bolt_path is required for the bolt backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage_backend %q", c.StorageBackend))
	}

	if c.TokenCleanup.BatchSize < 1 || c.TokenCleanup.BatchSize > docstore.MaxBatchWrites {
		errs = append(errs, fmt.Errorf("token_cleanup.batch_size must be between 1 and %d, got %d",
			docstore.MaxBatchWrites, c.TokenCleanup.BatchSize))
	}
	if c.TokenCleanup.Enabled && c.TokenCleanup.Interval <= 0 {
		errs = append(errs, errors.New("token_cleanup.interval must be positive"))
	}

	if c.Cache.Enabled {
		switch c.Cache.Backend {
		case CacheBackendMemory:
		case CacheBackendRedis:
			if c.Redis.Addr == "" {
				errs = append(errs, errors.New("redis.addr is required for the redis cache backend"))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown cache.backend %q", c.Cache.Backend))
		}
	}

	if c.Notification.RedisChannel != "" && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required for notification.redis_channel"))
	}

	return errors.Join(errs...)
}

// NeedsRedis reports whether any enabled component talks to Redis.
func (c *Config) NeedsRedis() bool {
	return (c.Cache.Enabled && c.Cache.Backend == CacheBackendRedis) || c.Notification.RedisChannel != ""
}
