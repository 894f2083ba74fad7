package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/williamdagle/clinic-admin-api/internal/email"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Email    email.Config   `mapstructure:"email"`
	Outbox   OutboxConfig   `mapstructure:"outbox"`
}

type ServerConfig struct {
	Port           int     `mapstructure:"port" envconfig:"SERVER_PORT"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" envconfig:"SERVER_TIMEOUT_SECONDS"`
	RateLimit      float64 `mapstructure:"rate_limit" envconfig:"SERVER_RATE_LIMIT"`
	RateBurst      int     `mapstructure:"rate_burst" envconfig:"SERVER_RATE_BURST"`
}

// DatabaseConfig describes the app pool. PrivilegedUser, when set, opens a
// second pool used only by provisioning and hard-delete paths.
type DatabaseConfig struct {
	Host               string `mapstructure:"host" envconfig:"DB_HOST"`
	Port               int    `mapstructure:"port" envconfig:"DB_PORT"`
	User               string `mapstructure:"user" envconfig:"DB_USER"`
	Password           string `mapstructure:"password" envconfig:"DB_PASSWORD"`
	Name               string `mapstructure:"name" envconfig:"DB_NAME"`
	SSLMode            string `mapstructure:"sslmode" envconfig:"DB_SSLMODE"`
	PrivilegedUser     string `mapstructure:"privileged_user" envconfig:"DB_PRIVILEGED_USER"`
	PrivilegedPassword string `mapstructure:"privileged_password" envconfig:"DB_PRIVILEGED_PASSWORD"`
}

type JWTConfig struct {
	Secret             string `mapstructure:"secret" envconfig:"JWT_SECRET"`
	RefreshSecret      string `mapstructure:"refresh_secret" envconfig:"JWT_REFRESH_SECRET"`
	ExpiryHours        int    `mapstructure:"expiry_hours" envconfig:"JWT_EXPIRY_HOURS"`
	RefreshExpiryHours int    `mapstructure:"refresh_expiry_hours" envconfig:"JWT_REFRESH_EXPIRY_HOURS"`
}

type RedisConfig struct {
	URL string `mapstructure:"url" envconfig:"REDIS_URL"`
}

type OutboxConfig struct {
	PollIntervalSeconds int `mapstructure:"poll_interval_seconds" envconfig:"OUTBOX_POLL_INTERVAL_SECONDS"`
	BatchSize           int `mapstructure:"batch_size" envconfig:"OUTBOX_BATCH_SIZE"`
	RetentionDays       int `mapstructure:"retention_days" envconfig:"OUTBOX_RETENTION_DAYS"`
}

// LoadConfig reads config.yaml, then lets environment variables override.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timeout_seconds", 30)
	viper.SetDefault("server.rate_limit", 100)
	viper.SetDefault("server.rate_burst", 200)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("jwt.expiry_hours", 1)
	viper.SetDefault("jwt.refresh_expiry_hours", 168)
	viper.SetDefault("outbox.poll_interval_seconds", 5)
	viper.SetDefault("outbox.batch_size", 100)
	viper.SetDefault("outbox.retention_days", 30)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment overrides: %w", err)
	}

	return &config, nil
}
