package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
)

const envPrefix = "INTEGRITY_"

type Config struct {
	Primary  Primary        `koanf:"primary"`
	Server   ServerConfig   `koanf:"server"`
	Stripe   StripeConfig   `koanf:"stripe"`
	Notify   NotifyConfig   `koanf:"notify"`
	Ledger   LedgerConfig   `koanf:"ledger"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Kafka    KafkaConfig    `koanf:"kafka"`
	Logger   LoggerConfig   `koanf:"logger"`
	Worker   WorkerConfig   `koanf:"worker"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port           string        `koanf:"port" validate:"required"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout   time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout    time.Duration `koanf:"idle_timeout" validate:"required"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"required"`
	// PublicURL is used for redirect urls when a request carries no Origin header.
	PublicURL     string `koanf:"public_url" validate:"required,url"`
	AllowedOrigin string `koanf:"allowed_origin" validate:"required"`
}

// StripeConfig secrets are optional at load time; the gateway and verifier
// report a ConfigurationError when they are used without them.
type StripeConfig struct {
	SecretKey        string        `koanf:"secret_key"`
	WebhookSecret    string        `koanf:"webhook_secret"`
	WebhookTolerance time.Duration `koanf:"webhook_tolerance" validate:"required"`
	APIURL           string        `koanf:"api_url"`
	ConnTimeout      time.Duration `koanf:"conn_timeout" validate:"required"`
}

type NotifyConfig struct {
	APIKey      string        `koanf:"api_key"`
	BaseURL     string        `koanf:"base_url" validate:"required,url"`
	From        string        `koanf:"from"`
	Operator    string        `koanf:"operator"`
	ConnTimeout time.Duration `koanf:"conn_timeout" validate:"required"`
}

type LedgerConfig struct {
	Backend   string        `koanf:"backend" validate:"required,oneof=memory bolt redis postgres"`
	Retention time.Duration `koanf:"retention" validate:"required"`
	BoltPath  string        `koanf:"bolt_path"`
}

// DatabaseConfig is only required when the ledger backend is postgres.
type DatabaseConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

type RedisConfig struct {
	Addr      string `koanf:"addr"`
	Password  string `koanf:"password"`
	DB        int    `koanf:"db"`
	KeyPrefix string `koanf:"key_prefix"`
}

// KafkaConfig enables the payment.completed publisher when Brokers is set.
type KafkaConfig struct {
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
}

type LoggerConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"omitempty,oneof=json text"`
}

type WorkerConfig struct {
	Interval time.Duration `koanf:"interval" validate:"required"`
}

var defaults = map[string]interface{}{
	"primary.env":                 "development",
	"server.port":                 "3000",
	"server.read_timeout":         "15s",
	"server.write_timeout":        "60s",
	"server.request_timeout":      "10s",
	"server.idle_timeout":         "60s",
	"server.public_url":           "http://localhost:3000",
	"server.allowed_origin":       "*",
	"stripe.webhook_tolerance":    "5m",
	"stripe.conn_timeout":         "30s",
	"notify.base_url":             "https://api.resend.com",
	"notify.from":                 "Integrity Clean Solutions <info@pay.integritycleansolutions.com>",
	"notify.operator":             "info@integritycleansolutions.com",
	"notify.conn_timeout":         "10s",
	"ledger.backend":              "memory",
	"ledger.retention":            "72h",
	"ledger.bolt_path":            "ledger.db",
	"database.port":               5432,
	"database.ssl_mode":           "disable",
	"database.max_open_conns":     10,
	"database.max_idle_conns":     2,
	"database.conn_max_lifetime":  "1h",
	"database.conn_max_idle_time": "10m",
	"redis.addr":                  "localhost:6379",
	"redis.key_prefix":            "integrity:event:",
	"kafka.topic":                 "payment.completed",
	"logger.level":                "info",
	"logger.format":               "json",
	"worker.interval":             "1h",
}

// legacyEnv maps the storefront's historical variable names onto config keys.
// INTEGRITY_ variables take precedence.
var legacyEnv = map[string]string{
	"STRIPE_SECRET_KEY":     "stripe.secret_key",
	"STRIPE_WEBHOOK_SECRET": "stripe.webhook_secret",
	"RESEND_API_KEY":        "notify.api_key",
	"FROM_EMAIL":            "notify.from",
	"TO_EMAIL":              "notify.operator",
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		logger.Error("failed to load defaults", "error", err)
		return nil, err
	}

	err := k.Load(env.Provider("", ".", func(s string) string {
		return legacyEnv[s]
	}), nil)
	if err != nil {
		logger.Error("failed to load legacy environment variables", "error", err)
		return nil, err
	}

	err = k.Load(env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(key, envPrefix)),
			"__",
			".",
		)
		if key == "kafka.brokers" {
			return key, splitList(value)
		}
		return key, value
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	if err := mainConfig.Validate(); err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}

// Validate checks struct tags and the settings that depend on the chosen ledger backend.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	switch c.Ledger.Backend {
	case "postgres":
		if c.Database.Host == "" || c.Database.User == "" || c.Database.Name == "" {
			return errors.New("database host, user and name are required for the postgres ledger")
		}
	case "redis":
		if c.Redis.Addr == "" {
			return errors.New("redis addr is required for the redis ledger")
		}
	case "bolt":
		if c.Ledger.BoltPath == "" {
			return errors.New("ledger bolt_path is required for the bolt ledger")
		}
	}

	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka topic is required when brokers are set")
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
