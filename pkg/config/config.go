package config

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App struct {
		Env         string `env:"APP_ENV" env-default:"development"`
		Port        int    `env:"APP_PORT" env-default:"3001"`
		SentryUrl   string `env:"SENTRY_URL"`
		CorsOrigins string `env:"CORS_ORIGINS" env-default:"*"`
	}
	RateLimit struct {
		Requests int           `env:"RATE_LIMIT_REQUESTS" env-default:"0"`
		Per      time.Duration `env:"RATE_LIMIT_PER" env-default:"1m"`
		Burst    int           `env:"RATE_LIMIT_BURST" env-default:"20"`
	}
	Instagram struct {
		BaseURL    string        `env:"INSTAGRAM_BASE_URL" env-default:"https://www.instagram.com"`
		AppID      string        `env:"INSTAGRAM_APP_ID" env-default:"936619743392459"`
		MediaDocID string        `env:"INSTAGRAM_MEDIA_DOC_ID" env-default:"7950326061742207"`
		Timeout    time.Duration `env:"UPSTREAM_TIMEOUT" env-default:"0s"`
	}
	Postgres struct {
		Port    int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `env:"POSTGRES_HOST"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Lookup struct {
		Retention time.Duration `env:"LOOKUP_RETENTION" env-default:"120h"`
	}
}

var (
	once sync.Once
	cfg  *Config
)

func New() (*Config, error) {
	once.Do(func() {
		cfg = &Config{}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			help, _ := cleanenv.GetDescription(cfg, nil)
			log.Fatalf("Failed to read configuration: %v\n%v", err, help)
		}
	})
	return cfg, nil
}

// PostgresEnabled reports whether the lookup log has a database to write to.
func (c *Config) PostgresEnabled() bool {
	return c.Postgres.Host != ""
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Pass,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.Name,
		c.Postgres.SslMode,
	)
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.App.CorsOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
