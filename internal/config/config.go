package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the viewer's configuration. The relay reads pkg/config instead.
type Config struct {
	Env    string `env:"APP_ENV" env-default:"development"`
	Viewer struct {
		RelayURL        string        `env:"VIEWER_RELAY_URL" env-default:"http://localhost:3001" env-description:"Base URL of the relay"`
		PageSize        int           `env:"VIEWER_PAGE_SIZE" env-default:"12"`
		ScrollDebounce  time.Duration `env:"VIEWER_SCROLL_DEBOUNCE" env-default:"150ms"`
		ScrollThreshold int           `env:"VIEWER_SCROLL_THRESHOLD" env-default:"3" env-description:"Rows from the end of the thumbnail list that trigger loading more"`
		LogFile         string        `env:"VIEWER_LOG_FILE" env-default:"viewer.log"`
		Timeout         time.Duration `env:"VIEWER_TIMEOUT" env-default:"0s" env-description:"Bound on relay calls, 0 for none"`
	}
}

// Load reads path as a .env file when it exists, then applies the environment on top.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		err := cleanenv.ReadConfig(path, cfg)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Usage describes every supported variable.
func Usage() string {
	help, _ := cleanenv.GetDescription(&Config{}, nil)
	return help
}
