package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/teraclinic/clinic-api/pkg/ai"
	"github.com/teraclinic/clinic-api/pkg/auth"
	"github.com/teraclinic/clinic-api/pkg/messaging/redis"
)

type DatabaseConfig struct {
	Host     string `yaml:"host" envconfig:"DB_HOST"`
	Port     int    `yaml:"port" envconfig:"DB_PORT"`
	User     string `yaml:"user" envconfig:"DB_USER"`
	Password string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name     string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode  string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
}

type ServerConfig struct {
	Port           int           `yaml:"port" envconfig:"SERVER_PORT"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type SMTPConfig struct {
	Host     string `yaml:"host" envconfig:"SMTP_HOST"`
	Port     int    `yaml:"port" envconfig:"SMTP_PORT"`
	Username string `yaml:"username" envconfig:"SMTP_USERNAME"`
	Password string `yaml:"password" envconfig:"SMTP_PASSWORD"`
	From     string `yaml:"from" envconfig:"SMTP_FROM"`
}

type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       auth.Config     `yaml:"jwt"`
	Redis     redis.Config    `yaml:"redis"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	AI        ai.Config       `yaml:"ai"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
}

// LoadConfig reads config.yml from the usual search paths, then applies
// environment overrides for deployment-sensitive fields.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/app")
	viper.AddConfigPath("/app/config")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Environment wins over the file for credentials and endpoints.
	if err := envconfig.Process("", &config.Database); err != nil {
		return nil, fmt.Errorf("failed to apply database env overrides: %w", err)
	}
	if err := envconfig.Process("", &config.Server); err != nil {
		return nil, fmt.Errorf("failed to apply server env overrides: %w", err)
	}
	if err := envconfig.Process("", &config.SMTP); err != nil {
		return nil, fmt.Errorf("failed to apply smtp env overrides: %w", err)
	}

	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 30 * time.Second
	}
	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 50
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 100
	}
}
