package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

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
	// LogFile is an optional path for a rotating log file written next to stdout.
	LogFile string `mapstructure:"LOG_FILE"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// ServiceName identifies this process in traces.
	ServiceName string `mapstructure:"SERVICE_NAME" default:"parcel-tracker"`

	// HTTP holds outbound request settings.
	HTTP HTTPConfig `mapstructure:",squash"`

	// Track123 holds the aggregation API configuration.
	Track123 Track123Config `mapstructure:",squash"`

	// Carriers holds the tracking page endpoints.
	Carriers CarriersConfig `mapstructure:",squash"`

	// Proxy holds the optional upstream proxy.
	Proxy ProxyConfig `mapstructure:",squash"`

	// RateLimit holds the inbound rate limiter settings.
	RateLimit RateLimitConfig `mapstructure:",squash"`

	// Tracing holds the OTLP exporter settings.
	Tracing TracingConfig `mapstructure:",squash"`
}

// HTTPConfig holds settings shared by every outbound tracking request.
type HTTPConfig struct {
	// Timeout bounds a single outbound request.
	Timeout time.Duration `mapstructure:"HTTP_TIMEOUT" default:"15s"`
	// LookupTimeout bounds a whole lookup, including browser start-up.
	LookupTimeout time.Duration `mapstructure:"LOOKUP_TIMEOUT" default:"20s"`
	// UserAgent is sent to carriers that reject non-browser clients.
	UserAgent string `mapstructure:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/115.0.0.0 Safari/537.36"`
	// BrowserCarriers lists carrier keys fetched through a headless browser.
	BrowserCarriers []string `mapstructure:"BROWSER_CARRIERS"`
}

// Track123Config holds the credentials for the Track123 aggregation API.
type Track123Config struct {
	// URL is the tracking query endpoint.
	URL string `mapstructure:"TRACK123_API_URL" default:"https://api.track123.com/gateway/open-api/tk/v2/track/query"`
	// Secret is the pre-shared API secret. Without it the fallback is off and
	// only scraped carriers are served.
	Secret string `mapstructure:"TRACK123_API_SECRET"`
	// Couriers maps carrier keys to Track123 courier codes, e.g. "japanpost:japan-post".
	Couriers string `mapstructure:"FALLBACK_COURIERS" default:"japanpost:japan-post,nittsu:nippon-express,ecohai:ecohai"`
}

// CarriersConfig holds the public tracking endpoints of the scraped carriers.
type CarriersConfig struct {
	SagawaURL  string `mapstructure:"SAGAWA_URL" default:"https://k2k.sagawa-exp.co.jp/p/web/okurijosearch.do"`
	YamatoURL  string `mapstructure:"YAMATO_URL" default:"https://toi.kuronekoyamato.co.jp/cgi-bin/tneko"`
	FukutsuURL string `mapstructure:"FUKUTSU_URL" default:"https://corp.fukutsu.co.jp/situation/tracking_no_hunt"`
	SeinoURL   string `mapstructure:"SEINO_URL" default:"https://track.seino.co.jp/cgi-bin/gnpquery.pgm"`
	TonamiURL  string `mapstructure:"TONAMI_URL" default:"https://trc1.tonami.co.jp/trc/search3/excSearch3"`
	HidaURL    string `mapstructure:"HIDA_URL" default:"http://www.hida-unyu.co.jp/tsuiseki/sho100.html"`
}

// ProxyConfig holds the upstream proxy used for carrier requests.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"PROXY_ENABLED" default:"false"`
	Hostname string `mapstructure:"PROXY_HOST"`
	Port     int    `mapstructure:"PROXY_PORT"`
	Username string `mapstructure:"PROXY_USERNAME"`
	Password string `mapstructure:"PROXY_PASSWORD"`
}

// RateLimitConfig holds the per-client request budget.
type RateLimitConfig struct {
	// RedisURL enables the limiter when set, e.g. redis://localhost:6379/0.
	RedisURL string `mapstructure:"REDIS_URL"`
	// PerMinute is the number of lookups one client IP may issue per minute.
	PerMinute int `mapstructure:"RATE_LIMIT_PER_MINUTE" default:"60"`
}

// TracingConfig holds the OTLP trace exporter settings.
type TracingConfig struct {
	// Endpoint is the OTLP gRPC collector address; tracing export is off when empty.
	Endpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Enabled reports whether the aggregation API can be called.
func (c Track123Config) Enabled() bool {
	return c.Secret != ""
}

// FallbackCouriers parses the FALLBACK_COURIERS list into a carrier key -> courier code map.
func (c Track123Config) FallbackCouriers() (map[string]string, error) {
	couriers := make(map[string]string)
	for _, pair := range strings.Split(c.Couriers, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		key, code, ok := strings.Cut(pair, ":")
		key = strings.ToLower(strings.TrimSpace(key))
		code = strings.TrimSpace(code)
		if !ok || key == "" || code == "" {
			return nil, fmt.Errorf("invalid fallback courier entry %q, want key:code", pair)
		}
		couriers[key] = code
	}
	return couriers, nil
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

	if _, err := config.Track123.FallbackCouriers(); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
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
				return fmt.Errorf("failed to bind %s: %w", key, err)
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
