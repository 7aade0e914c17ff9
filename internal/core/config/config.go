package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"shipment-planner/internal/core/proxy"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// DayStart is the wall-clock time ETAs are accumulated from (HH:MM).
	DayStart string `mapstructure:"DAY_START" default:"08:00"`

	// Database holds the database configuration.
	Database DatabaseConfig `mapstructure:",squash"`

	// Redis holds the cache configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// Engine holds the optimization and layout engine configuration.
	Engine EngineConfig `mapstructure:",squash"`

	// Proxy holds the optional egress proxy for outbound engine calls.
	Proxy proxy.Settings `mapstructure:",squash"`
}

// DatabaseConfig holds database connection details.
type DatabaseConfig struct {
	// URL is the Postgres connection string.
	URL string `mapstructure:"DATABASE_URL" required:"true"`
	// MaxOpenConns caps the pool size.
	MaxOpenConns int `mapstructure:"DB_MAX_OPEN_CONNS" default:"10"`
	// MaxIdleConns caps idle connections kept in the pool.
	MaxIdleConns int `mapstructure:"DB_MAX_IDLE_CONNS" default:"10"`
	// ConnMaxLifetime recycles connections older than this.
	ConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME" default:"30m"`
}

// RedisConfig holds the Redis connection and cache TTLs.
type RedisConfig struct {
	// URL is in the format redis://[:password@]host[:port][/database]. Empty disables caching.
	URL string `mapstructure:"REDIS_URL"`
	// KeyPrefix namespaces every cache key.
	KeyPrefix string `mapstructure:"REDIS_KEY_PREFIX" default:"shipment-planner:"`
	// LayoutTTL is how long layout engine results are cached per shipment.
	LayoutTTL time.Duration `mapstructure:"LAYOUT_CACHE_TTL" default:"10m"`
}

// EngineConfig holds the external optimization/layout engine endpoint.
type EngineConfig struct {
	// URL is the base URL of the engine (routes /api/priority and /api/layouting).
	URL string `mapstructure:"ENGINE_URL" required:"true"`
	// Key is the bearer credential sent with every engine call.
	Key string `mapstructure:"ENGINE_KEY" required:"true"`
	// OptimizerTimeout bounds the optimization call at the transport level.
	OptimizerTimeout time.Duration `mapstructure:"OPTIMIZER_TIMEOUT" default:"120s"`
	// LayoutTimeout bounds the layout call.
	LayoutTimeout time.Duration `mapstructure:"LAYOUT_TIMEOUT" default:"30s"`
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if _, err := time.Parse("15:04", config.DayStart); err != nil {
		return nil, fmt.Errorf("invalid DAY_START %q: %w", config.DayStart, err)
	}

	return &config, nil
}

// processTags binds every tagged key to the environment and registers its default.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("bind env %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
