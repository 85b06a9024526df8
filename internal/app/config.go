package app

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// StoreEmbedded runs the key-value store in-process (offline-first,
	// state lives as long as the process). Set REDIS_ADDR and
	// STORE_EMBEDDED=false to persist across restarts.
	StoreEmbedded bool   `envconfig:"STORE_EMBEDDED" default:"true"`
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`

	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	CSRFSecret string        `envconfig:"CSRF_SECRET"`
}

// LoadConfig reads configuration from environment variables. A CSRF secret
// left unset is generated for the lifetime of the process; fine for a
// single-user deployment, open forms just reset on restart.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.CSRFSecret == "" {
		cfg.CSRFSecret = randomSecret()
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

func randomSecret() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
