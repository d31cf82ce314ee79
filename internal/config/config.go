package config

import (
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/delta-student/wanderlust/internal/platform/logger"
)

// Config holds all configuration for the application. Values come from the
// environment (optionally via a .env file loaded in main); nothing sensitive
// lives in source.
type Config struct {
	HTTPPort      string `mapstructure:"HTTP_PORT"`
	MetricsPort   string `mapstructure:"METRICS_PORT"`
	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	SessionSecret string        `mapstructure:"SESSION_SECRET"`
	SessionStore  string        `mapstructure:"SESSION_STORE"` // "memory" or "redis"
	SessionTTL    time.Duration `mapstructure:"SESSION_TTL"`
	SecureCookies bool          `mapstructure:"SECURE_COOKIES"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`

	NATSURL string `mapstructure:"NATS_URL"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

// Load reads configuration from environment variables.
func Load(appLogger *logger.Logger) (*Config, error) {
	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("METRICS_PORT", "")
	viper.SetDefault("MONGO_URI", "mongodb://127.0.0.1:27017")
	viper.SetDefault("MONGO_DATABASE", "wanderlust")
	viper.SetDefault("SESSION_SECRET", "")
	viper.SetDefault("SESSION_STORE", "memory")
	viper.SetDefault("SESSION_TTL", 7*24*time.Hour)
	viper.SetDefault("SECURE_COOKIES", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("NATS_URL", "")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("SMTP_FROM", "")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")

	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		appLogger.Error("Failed to unmarshal configuration", zap.Error(err))
		return nil, err
	}

	if cfg.SessionSecret == "" {
		appLogger.Warn("SESSION_SECRET is empty; session cookies will not survive restarts. Set a strong secret in your environment.")
	}
	if cfg.MongoURI == "" {
		appLogger.Fatal("MONGO_URI is not set. This is required.")
	}
	if cfg.MongoDatabase == "" {
		appLogger.Fatal("MONGO_DATABASE is not set. This is required.")
	}

	appLogger.Debug("Configuration loaded",
		zap.String("http_port", cfg.HTTPPort),
		zap.String("metrics_port", cfg.MetricsPort),
		zap.Bool("mongo_uri_present", cfg.MongoURI != ""),
		zap.String("mongo_database", cfg.MongoDatabase),
		zap.String("session_store", cfg.SessionStore),
		zap.Duration("session_ttl", cfg.SessionTTL),
		zap.Bool("nats_enabled", cfg.NATSURL != ""),
		zap.Bool("smtp_enabled", cfg.SMTPHost != ""),
	)

	return &cfg, nil
}
