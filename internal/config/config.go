package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Redis    RedisConfig    `mapstructure:"redis"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	ML       MLConfig       `mapstructure:"ml"`
}

type ServerConfig struct {
	Port           int     `mapstructure:"port" envconfig:"SERVER_PORT"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" envconfig:"SERVER_TIMEOUT_SECONDS"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps" envconfig:"SERVER_RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst" envconfig:"SERVER_RATE_LIMIT_BURST"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host" envconfig:"POSTGRES_HOST"`
	Port     int    `mapstructure:"port" envconfig:"POSTGRES_PORT"`
	User     string `mapstructure:"user" envconfig:"POSTGRES_USER"`
	Password string `mapstructure:"password" envconfig:"POSTGRES_PASSWORD"`
	Name     string `mapstructure:"name" envconfig:"POSTGRES_DB"`
	SSLMode  string `mapstructure:"sslmode" envconfig:"POSTGRES_SSLMODE"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret" envconfig:"JWT_SECRET"`
	ExpiryHours int    `mapstructure:"expiry_hours" envconfig:"JWT_EXPIRY_HOURS"`
}

type RedisConfig struct {
	URL string `mapstructure:"url" envconfig:"REDIS_URL"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host" envconfig:"SMTP_HOST"`
	Port     int    `mapstructure:"port" envconfig:"SMTP_PORT"`
	Username string `mapstructure:"username" envconfig:"SMTP_USER"`
	Password string `mapstructure:"password" envconfig:"SMTP_PASSWORD"`
	From     string `mapstructure:"from" envconfig:"SMTP_FROM"`
}

type MLConfig struct {
	DeploymentURL  string        `mapstructure:"deployment_url" envconfig:"ML_DEPLOYMENT_URL"`
	APIKey         string        `mapstructure:"api_key" envconfig:"ML_API_KEY"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" envconfig:"ML_REQUEST_TIMEOUT"`
}

// LoadConfig reads config.yaml and applies environment overrides.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Environment variables win over file values.
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment overrides: %w", err)
	}

	return &config, nil
}
