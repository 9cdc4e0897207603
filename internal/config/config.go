package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"UTC"`
	}

	HTTP struct {
		Host                  string `env:"HTTP_SERVER_HOST" envDefault:"0.0.0.0"`
		Port                  string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		RequestTimeoutSeconds int    `env:"HTTP_REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
	}

	Google struct {
		CredentialsPath string `env:"GOOGLE_CREDENTIALS_PATH" envDefault:"credentials/service-account-key.json"`
		CalendarID      string `env:"GOOGLE_CALENDAR_ID" envDefault:"primary"`
	}

	Agent struct {
		BaseURL     string  `env:"LLM_BASE_URL" envDefault:"https://api.openai.com"`
		APIKey      string  `env:"LLM_API_KEY"`
		Model       string  `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
		Temperature float64 `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	}

	Hours struct {
		StartHour              int `env:"BUSINESS_HOURS_START" envDefault:"9"`
		EndHour                int `env:"BUSINESS_HOURS_END" envDefault:"17"`
		GranularityMinutes     int `env:"SLOT_GRANULARITY_MINUTES" envDefault:"30"`
		DefaultDurationMinutes int `env:"DEFAULT_DURATION_MINUTES" envDefault:"60"`
	}

	Session struct {
		WindowSize int `env:"SESSION_WINDOW_SIZE" envDefault:"10"`
		StoreSize  int `env:"SESSION_STORE_SIZE" envDefault:"1000"`
	}

	Auth struct {
		Enabled  bool   `env:"AUTH_ENABLED"`
		Username string `env:"AUTH_USERNAME"`
		Password string `env:"AUTH_PASSWORD"`
	}

	RabbitMQ struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED"`
		URL      string `env:"RABBITMQ_URL"`
		Queue    string `env:"RABBITMQ_QUEUE" envDefault:"calendar-changes"`
		Exchange string `env:"RABBITMQ_EXCHANGE" envDefault:"calendar"`
		Binding  string `env:"RABBITMQ_BINDING" envDefault:"calendar.event.*"`
	}

	Cache struct {
		Enabled bool `env:"CACHE_ENABLED"`
		Size    int  `env:"CACHE_SIZE" envDefault:"512"`
	}
}

func NewConfig() (*Config, error) {
	// Missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	// Without the change feed there is nothing to keep the cache fresh,
	// so it stays off.
	if !cfg.RabbitMQ.Enabled {
		cfg.Cache.Enabled = false
	}

	return cfg, nil
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.HTTP.RequestTimeoutSeconds) * time.Second
}
