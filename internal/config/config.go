package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Archdesk"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"archdesk"`
		Migrate  bool   `envconfig:"DB_MIGRATE" default:"true"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	// Redis caches project snapshots. An empty address keeps them in memory.
	Redis struct {
		Addr        string        `envconfig:"REDIS_ADDR"`
		Password    string        `envconfig:"REDIS_PASSWORD"`
		DB          int           `envconfig:"REDIS_DB" default:"0"`
		SnapshotTTL time.Duration `envconfig:"SNAPSHOT_TTL" default:"10m"`
	}

	S3 struct {
		Endpoint      string        `envconfig:"S3_ENDPOINT"`
		Region        string        `envconfig:"S3_REGION" default:"us-east-1"`
		Bucket        string        `envconfig:"S3_BUCKET" default:"archdesk"`
		AccessKey     string        `envconfig:"S3_ACCESS_KEY"`
		SecretKey     string        `envconfig:"S3_SECRET_KEY"`
		PresignExpiry time.Duration `envconfig:"S3_PRESIGN_EXPIRY" default:"15m"`
	}

	// Auth is disabled when JWTSecret is empty.
	Auth struct {
		JWTSecret string        `envconfig:"JWT_SECRET"`
		TokenTTL  time.Duration `envconfig:"JWT_TTL" default:"720h"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
