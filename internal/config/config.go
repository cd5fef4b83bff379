package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Cache     CacheConfig
	MinIO     MinIOConfig
	CMR       CMRConfig
	Thumbnail ThumbnailConfig
	Download  DownloadConfig
}

type ServerConfig struct {
	Port            int           `envconfig:"API_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"35s"`
	RequestTimeout  time.Duration `envconfig:"API_REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"10s"`
}

type RedisConfig struct {
	Host     string `envconfig:"CACHE_HOST" default:"localhost"`
	Port     int    `envconfig:"CACHE_PORT" default:"6379"`
	Password string `envconfig:"CACHE_PASSWORD" default:""`
	DB       int    `envconfig:"CACHE_DB" default:"0"`
	// Offline pins the connection to a local Redis regardless of
	// CACHE_HOST/CACHE_PORT, for development without deployed infrastructure.
	Offline bool `envconfig:"IS_OFFLINE" default:"false"`
}

func (c RedisConfig) Addr() string {
	if c.Offline {
		return "localhost:6379"
	}
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type CacheConfig struct {
	// Backend selects the cache implementation: "redis" or "minio".
	Backend string        `envconfig:"CACHE_BACKEND" default:"redis"`
	TTL     time.Duration `envconfig:"CACHE_KEY_EXPIRE" default:"24h"`
}

type MinIOConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	Bucket    string `envconfig:"MINIO_BUCKET" default:"thumbnails"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type CMRConfig struct {
	RootURL string `envconfig:"CMR_ROOT_URL" default:"https://cmr.earthdata.nasa.gov"`
	// Token is attached as an Echo-Token header on CMR requests when set.
	Token string `envconfig:"CMR_SYSTEM_TOKEN" default:""`
}

type ThumbnailConfig struct {
	DefaultHeight int `envconfig:"THUMBNAIL_HEIGHT" default:"85"`
	DefaultWidth  int `envconfig:"THUMBNAIL_WIDTH" default:"85"`
}

type DownloadConfig struct {
	// TimeoutDelta is subtracted from the remaining request deadline when
	// computing the budget for an external image download, so the pipeline
	// always has time left to respond before its own deadline elapses.
	TimeoutDelta time.Duration `envconfig:"EXTERNAL_TIMEOUT_DELTA" default:"10s"`
	// FallbackTimeout bounds a download when the request carries no deadline.
	FallbackTimeout time.Duration `envconfig:"EXTERNAL_FALLBACK_TIMEOUT" default:"20s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
