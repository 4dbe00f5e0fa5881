package config

import (
	"errors"
	"fmt"
	"reflect"

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

	// Store holds the demo store persistence configuration.
	Store StoreConfig `mapstructure:",squash"`

	// Ticker holds the auto-delivery ticker configuration.
	Ticker TickerConfig `mapstructure:",squash"`

	// RemoteAPI holds the remote backend API configuration.
	RemoteAPI RemoteAPIConfig `mapstructure:",squash"`
}

// StoreConfig holds the snapshot storage configuration.
type StoreConfig struct {
	// RedisURL is the connection URL for the Redis storage backend.
	RedisURL string `mapstructure:"REDIS_URL" required:"true"`
	// SnapshotKey is the storage key for the persisted snapshot document.
	SnapshotKey string `mapstructure:"STORE_KEY" default:"uza_logistics_demo_store_v1"`
	// SessionKey is the storage key for the persisted session document.
	SessionKey string `mapstructure:"SESSION_KEY" default:"uza_logistics_session_v1"`
}

// TickerConfig tunes the simulated-delivery background ticker.
type TickerConfig struct {
	// IntervalMs is the tick interval in milliseconds.
	IntervalMs int `mapstructure:"TICKER_INTERVAL_MS" default:"6500"`
	// Probability is the chance per tick of auto-delivering one shipment.
	Probability float64 `mapstructure:"TICKER_PROBABILITY" default:"0.18"`
	// Enabled turns the background ticker on or off.
	Enabled bool `mapstructure:"TICKER_ENABLED" default:"true"`
}

// RemoteAPIConfig holds the base URL of the external backend service.
// An empty BaseURL means the application runs purely against the local demo store.
type RemoteAPIConfig struct {
	// BaseURL is the root URL of the remote API.
	BaseURL string `mapstructure:"REMOTE_API_URL"`
	// TimeoutMs is the per-call timeout in milliseconds.
	TimeoutMs int `mapstructure:"REMOTE_API_TIMEOUT_MS" default:"10000"`
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

	return &config, nil
}

// processTags iterates over the struct fields, binds env keys and sets default values in Viper.
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
			v.BindEnv(key)
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
