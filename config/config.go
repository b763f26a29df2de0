package config

import (
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL"`
	StoreDriver string `envconfig:"STORE_DRIVER" default:"postgres"` // postgres | memory
	HTTPPort    string `envconfig:"HTTP_PORT"    default:":8000"`
	LogLevel    string `envconfig:"LOG_LEVEL"    default:"info"`

	CacheBackend  string        `envconfig:"CACHE_BACKEND"  default:"redis"` // redis | memory
	RedisAddr     string        `envconfig:"REDIS_ADDR"     default:"localhost:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB"       default:"0"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL"      default:"5m"`

	UpdateWindow            time.Duration `envconfig:"UPDATE_WINDOW"             default:"4h"`
	EnforceOwnership        bool          `envconfig:"ENFORCE_OWNERSHIP"         default:"false"`
	InvalidateFilteredLists bool          `envconfig:"INVALIDATE_FILTERED_LISTS" default:"false"`
	PageSize                int           `envconfig:"PAGE_SIZE"                 default:"100"`

	MediaRoot string `envconfig:"MEDIA_ROOT" default:"media"`
	MediaURL  string `envconfig:"MEDIA_URL"  default:"/media/"`
}

var (
	config Config
	once   sync.Once
)

// LoadConfig reads .env (if present) and the environment once per process.
func LoadConfig(logger *logrus.Logger) *Config {
	once.Do(func() {
		cfg, err := Load(logger)
		if err != nil {
			logger.Fatalf("Failed to process configuration from environment variables: %v", err)
		}
		config = *cfg
	})
	return &config
}

// Load builds a fresh Config without touching the process-wide copy.
func Load(logger *logrus.Logger) (*Config, error) {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		logger.Warnf("Error loading .env file (but continuing): %v", err)
	} else if err == nil {
		logger.Info("Loaded configuration from .env file")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Infof("Configuration loaded: HTTP Port=%s, LogLevel=%s, Store=%s, Cache=%s, CacheTTL=%s",
		cfg.HTTPPort, cfg.LogLevel, cfg.StoreDriver, cfg.CacheBackend, cfg.CacheTTL)
	logger.Infof("Configuration loaded: UpdateWindow=%s, EnforceOwnership=%t, InvalidateFilteredLists=%t",
		cfg.UpdateWindow, cfg.EnforceOwnership, cfg.InvalidateFilteredLists)
	if cfg.DatabaseURL != "" {
		logger.Info("Configuration loaded: DatabaseURL is set")
	}
	return &cfg, nil
}
