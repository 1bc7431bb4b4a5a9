package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	cfg, err := Parse([]byte("JWT_SECRET: s3cret\n"))
	require.NoError(t, err)

	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "memory", cfg.DBDriver)
	assert.Equal(t, "company-events", cfg.Topic)
	assert.Equal(t, "ledgerwatch", cfg.ConsumerGroup)
	assert.Equal(t, time.Minute, cfg.PaymentInterval)
	assert.Equal(t, time.Hour, cfg.PayrollInterval)
	assert.True(t, cfg.StartingCapital.IsZero())
}

func TestParseValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	doc := `
DB_DRIVER: sqlite
DB_SQLITE_PATH: /tmp/simbiz.db
KAFKA_BROKERS: [a:9092, b:9092]
JWT_SECRET: s3cret
STARTING_CAPITAL: "12345.67"
PAYMENT_INTERVAL: 30s
PAYROLL_INTERVAL: 2h
`
	cfg, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "12345.67", cfg.StartingCapital.String())
	assert.Equal(t, 30*time.Second, cfg.PaymentInterval)
	assert.Equal(t, 2*time.Hour, cfg.PayrollInterval)
}

func TestParseErrors(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	tests := map[string]string{
		"missing secret":   "DB_DRIVER: memory\n",
		"unknown driver":   "JWT_SECRET: x\nDB_DRIVER: mongo\n",
		"bad capital":      "JWT_SECRET: x\nSTARTING_CAPITAL: lots\n",
		"negative capital": "JWT_SECRET: x\nSTARTING_CAPITAL: \"-1\"\n",
		"malformed yaml":   "JWT_SECRET: [\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DB_PASSWORD", "pw")
	cfg, err := Parse([]byte("JWT_SECRET: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, "pw", cfg.DBPassword)
}

func TestLoad(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET: x\nHTTP_PORT: 9090\n"), 0o600))

	t.Setenv("CONFIG_PATH", path)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestShippedConfigParses(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	data, err := os.ReadFile("config.yaml")
	require.NoError(t, err)
	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "50000", cfg.StartingCapital.String())
}
