package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Config is loaded once at startup and passed by value to constructors.
type Config struct {
	Port          string `env:"PORT,            default=8000"`
	Env           string `env:"ENV,             default=development"`
	LogLevel      string `env:"LOG_LEVEL,       default=info"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL, default=http://localhost:8000"`

	Auth    AuthConfig
	HTTP    HTTPConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Storage StorageConfig
}

type AuthConfig struct {
	Secret      string        `env:"ACCESS_TOKEN_SECRET, required"`
	RegisterTTL time.Duration `env:"REGISTER_TOKEN_TTL,  default=48h"`
	LoginTTL    time.Duration `env:"LOGIN_TOKEN_TTL,     default=168h"`
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT,  default=15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT, default=30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,   default=10s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=travel_story"`
}

// RedisConfig enables the story list cache when Addr is set.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,        default=0"`
	CacheTTL time.Duration `env:"STORY_CACHE_TTL, default=5m"`
}

type StorageConfig struct {
	Driver         string `env:"STORAGE_DRIVER,  default=local"`
	UploadDir      string `env:"UPLOAD_DIR,      default=uploads"`
	AssetsDir      string `env:"ASSETS_DIR,      default=assets"`
	CleanupWorkers int    `env:"CLEANUP_WORKERS, default=2"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION, default=us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Prefix    string `env:"S3_PREFIX"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over .env entries.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith resolves configuration from an arbitrary lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.Secret) == "" {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET must not be empty"))
	}
	switch c.Storage.Driver {
	case StorageLocal:
	case StorageS3:
		if c.Storage.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required when STORAGE_DRIVER=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// PlaceholderImageURL is the image assigned to edited stories without one.
func (c Config) PlaceholderImageURL() string {
	return strings.TrimRight(c.PublicBaseURL, "/") + "/assets/placeholder.jpeg"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}
