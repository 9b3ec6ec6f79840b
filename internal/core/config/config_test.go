package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "test-secret")
}

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("APP_ENV")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("KAFKA_BROKERS")
	setRequired(t)

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 30, cfg.OrderRateLimit)
	assert.Equal(t, "storefront", cfg.Mongo.Database)
	assert.Equal(t, "orders", cfg.Mongo.OrdersCollection)
	assert.Equal(t, 10*time.Second, cfg.Mongo.ConnectTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, "orders", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Kafka.BrokerList())
	assert.Equal(t, "http://localhost:8080", cfg.Checkout.APIBaseURL)
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("STOREFRONT_API_TIMEOUT", "3s")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.BrokerList())
	assert.Equal(t, 3*time.Second, cfg.Checkout.RequestTimeout)
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	os.Unsetenv("APP_ENV")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("SERVER_PORT")

	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
MONGO_URI=mongodb://staging:27017
JWT_SECRET=staging-secret
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.Equal(t, "mongodb://staging:27017", cfg.Mongo.URI)
}

// TestLoad_ValidationFailure verifies that missing required fields return an error.
func TestLoad_ValidationFailure(t *testing.T) {
	os.Unsetenv("MONGO_URI")
	os.Unsetenv("JWT_SECRET")

	cfg, err := Load(".")
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "missing required configuration")
}

// TestLoadClient verifies the client config needs neither database nor secret.
func TestLoadClient(t *testing.T) {
	os.Unsetenv("MONGO_URI")
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("STOREFRONT_SESSION")
	t.Setenv("STOREFRONT_TOKEN", "abc")
	t.Setenv("STOREFRONT_API_URL", "http://shop.test")

	cfg, err := LoadClient(".")
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.Session)
	assert.Equal(t, "abc", cfg.Token)
	assert.Equal(t, 720*time.Hour, cfg.CartTTL)
	assert.Equal(t, "http://shop.test", cfg.Checkout.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.Checkout.RequestTimeout)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.False(t, cfg.Proxy.HasProxy())
}
