package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"storefront/internal/core/proxy"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the storefront service and its client library.
// Tags used:
// - mapstructure: env key used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// OrderRateLimit is the number of order submissions accepted per client per minute.
	OrderRateLimit int `mapstructure:"ORDER_RATE_LIMIT" default:"30"`

	Mongo    MongoConfig    `mapstructure:",squash"`
	Redis    RedisConfig    `mapstructure:",squash"`
	Auth     AuthConfig     `mapstructure:",squash"`
	Kafka    KafkaConfig    `mapstructure:",squash"`
	Checkout CheckoutConfig `mapstructure:",squash"`
}

// MongoConfig holds the document database connection details.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	URI string `mapstructure:"MONGO_URI" required:"true"`
	// Database is the database holding the order collection.
	Database string `mapstructure:"MONGO_DATABASE" default:"storefront"`
	// OrdersCollection is the collection name for orders.
	OrdersCollection string `mapstructure:"MONGO_ORDERS_COLLECTION" default:"orders"`
	// ConnectTimeout bounds the initial connection and ping.
	ConnectTimeout time.Duration `mapstructure:"MONGO_CONNECT_TIMEOUT" default:"10s"`
}

// RedisConfig holds the Redis connection used for settings, idempotency keys and client snapshots.
type RedisConfig struct {
	// URL has the form redis://[:password@]host[:port][/database].
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
	// IdempotencyTTL is how long an order idempotency key is remembered.
	IdempotencyTTL time.Duration `mapstructure:"IDEMPOTENCY_TTL" default:"24h"`
}

// AuthConfig holds bearer token validation settings.
type AuthConfig struct {
	// JWTSecret is the HMAC secret used to verify bearer tokens.
	JWTSecret string `mapstructure:"JWT_SECRET" required:"true"`
}

// KafkaConfig holds the order event publisher settings. Empty brokers disable publishing.
type KafkaConfig struct {
	Brokers string `mapstructure:"KAFKA_BROKERS"`
	Topic   string `mapstructure:"KAFKA_ORDERS_TOPIC" default:"orders"`
}

// BrokerList splits the comma separated broker list.
func (k KafkaConfig) BrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// CheckoutConfig configures the storefront client library.
type CheckoutConfig struct {
	// APIBaseURL is the REST backend the checkout client talks to.
	APIBaseURL string `mapstructure:"STOREFRONT_API_URL" default:"http://localhost:8080"`
	// RequestTimeout bounds every outbound call made by the client.
	RequestTimeout time.Duration `mapstructure:"STOREFRONT_API_TIMEOUT" default:"10s"`
}

// ClientConfig configures the storefront client CLI. It shares the Redis and
// checkout settings with the service but needs no database or signing secret.
type ClientConfig struct {
	Environment string `mapstructure:"APP_ENV" default:"development"`
	LogLevel    string `mapstructure:"LOG_LEVEL" default:"info"`
	// Session identifies the local cart and fallback order snapshots.
	Session string `mapstructure:"STOREFRONT_SESSION" default:"default"`
	// Token is the bearer token presented to the backend. Empty means signed out.
	Token string `mapstructure:"STOREFRONT_TOKEN"`
	// CartTTL is how long an untouched cart snapshot is kept.
	CartTTL time.Duration `mapstructure:"STOREFRONT_CART_TTL" default:"720h"`

	Redis    RedisConfig    `mapstructure:",squash"`
	Checkout CheckoutConfig `mapstructure:",squash"`
	Proxy    proxy.Settings `mapstructure:",squash"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig
	if err := load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadClient loads the client configuration the same way Load does.
func LoadClient(path string) (*ClientConfig, error) {
	var cfg ClientConfig
	if err := load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// load fills target, which must be a pointer to a tagged struct.
func load(path string, target interface{}) error {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	elem := reflect.ValueOf(target).Elem()

	bindTags(v, elem.Type())

	if err := v.Unmarshal(target); err != nil {
		return fmt.Errorf("unable to decode into struct: %w", err)
	}

	return validateRequired(elem)
}

// bindTags walks the struct type, binding every env key and registering its default.
func bindTags(v *viper.Viper, t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			bindTags(v, field.Type)
			continue
		}

		key := field.Tag.Get("mapstructure")
		if key == "" {
			continue
		}

		_ = v.BindEnv(key)

		if def := field.Tag.Get("default"); def != "" {
			v.SetDefault(key, def)
		}
	}
}

// validateRequired checks that fields tagged required:"true" are not zero.
func validateRequired(val reflect.Value) error {
	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i)); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && val.Field(i).IsZero() {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}
