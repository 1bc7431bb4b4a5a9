// Package config loads the company service configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file used when CONFIG_PATH is unset.
var DefaultPath = filepath.Join("internal", "company", "config", "config.yaml")

type Config struct {
	GRPCPort int `yaml:"GRPC_PORT"`
	HTTPPort int `yaml:"HTTP_PORT"`

	// DBDriver is "memory", "sqlite" or "postgres".
	DBDriver     string `yaml:"DB_DRIVER"`
	DBHost       string `yaml:"DB_HOST"`
	DBPort       int    `yaml:"DB_PORT"`
	DBUser       string `yaml:"DB_USER"`
	DBPassword   string `yaml:"DB_PASSWORD"`
	DBName       string `yaml:"DB_NAME"`
	DBSSLMode    string `yaml:"DB_SSLMODE"`
	DBSQLitePath string `yaml:"DB_SQLITE_PATH"`
	// DBConnectTimeout bounds the retries of the initial connection.
	DBConnectTimeout time.Duration `yaml:"DB_CONNECT_TIMEOUT"`

	KafkaBrokers []string `yaml:"KAFKA_BROKERS"`
	Topic        string   `yaml:"TOPIC"`
	// ConsumerGroup is the Kafka group ledgerwatch reads the topic with.
	ConsumerGroup string `yaml:"CONSUMER_GROUP"`

	RedisAddr   string `yaml:"REDIS_ADDR"`
	RedisPrefix string `yaml:"REDIS_PREFIX"`

	JWTSecret   string   `yaml:"JWT_SECRET"`
	CORSOrigins []string `yaml:"CORS_ORIGINS"`

	StartingCapital decimal.Decimal `yaml:"-"`
	// RawStartingCapital is the decimal text parsed into StartingCapital.
	RawStartingCapital string        `yaml:"STARTING_CAPITAL"`
	PaymentInterval    time.Duration `yaml:"PAYMENT_INTERVAL"`
	PayrollInterval    time.Duration `yaml:"PAYROLL_INTERVAL"`
}

// Load reads the file at path, or at CONFIG_PATH / DefaultPath when path is
// empty. JWT_SECRET and DB_PASSWORD from the environment take precedence
// over the file.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(file)
}

// Parse decodes a YAML document and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.DBPassword = v
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() error {
	if c.GRPCPort == 0 {
		c.GRPCPort = 50051
	}
	if c.HTTPPort == 0 {
		c.HTTPPort = 8080
	}
	if c.DBDriver == "" {
		c.DBDriver = "memory"
	}
	if c.DBConnectTimeout == 0 {
		c.DBConnectTimeout = 30 * time.Second
	}
	if c.Topic == "" {
		c.Topic = "company-events"
	}
	if c.ConsumerGroup == "" {
		c.ConsumerGroup = "ledgerwatch"
	}
	if c.RedisPrefix == "" {
		c.RedisPrefix = "simbiz:"
	}
	if c.PaymentInterval <= 0 {
		c.PaymentInterval = time.Minute
	}
	if c.PayrollInterval <= 0 {
		c.PayrollInterval = time.Hour
	}

	if c.RawStartingCapital != "" {
		capital, err := decimal.NewFromString(c.RawStartingCapital)
		if err != nil {
			return fmt.Errorf("invalid STARTING_CAPITAL %q: %w", c.RawStartingCapital, err)
		}
		if capital.IsNegative() {
			return fmt.Errorf("invalid STARTING_CAPITAL %q: must not be negative", c.RawStartingCapital)
		}
		c.StartingCapital = capital
	}

	switch c.DBDriver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}
