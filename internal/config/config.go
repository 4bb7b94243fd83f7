package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

const (
	AuthProviderLocal  = "local"
	AuthProviderRemote = "remote"

	GeneratorCohere = "cohere"
	GeneratorOpenAI = "openai"

	DefaultTimezone = "America/New_York"
)

type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// LocalUser is a user known to the local auth provider.
// Password hashes are produced with `fittrackctl hash-password`.
type LocalUser struct {
	ID           string `toml:"id"`
	Email        string `toml:"email"`
	PasswordHash string `toml:"password_hash"`
}

type Config struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Environment string `toml:"environment"`
	SiteURL     string `toml:"site_url"`
	Timezone    string `toml:"timezone"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// auth
	AuthProvider        string      `toml:"auth_provider"`
	AuthURL             string      `toml:"auth_url"`
	SessionTTL          Duration    `toml:"session_ttl"`
	SessionCookieSecure bool        `toml:"session_cookie_secure"`
	Users               []LocalUser `toml:"users"`
	// workout generation
	Generator     string `toml:"generator"`
	CohereURL     string `toml:"cohere_url"`
	CohereModel   string `toml:"cohere_model"`
	OpenAIBaseURL string `toml:"openai_base_url"`
	OpenAIModel   string `toml:"openai_model"`
	// rate limits, 0 disables
	SignInRateLimitPerMin    int `toml:"signin_rate_limit_per_min"`
	RecommendRateLimitPerMin int `toml:"recommend_rate_limit_per_min"`

	AllowedOrigins []string `toml:"allowed_origins"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing", env)
	}
	return cfg, nil
}

// Load reads the TOML file at path and returns the validated config for env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}
	return FromToml(&t, env)
}

func FromToml(t *Toml, env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.PostgresDBName == "" {
		c.PostgresDBName = "fittrack"
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
	if c.AuthProvider == "" {
		c.AuthProvider = AuthProviderLocal
	}
	if c.SessionTTL.Duration == 0 {
		c.SessionTTL.Duration = 7 * 24 * time.Hour
	}
	if c.Generator == "" {
		c.Generator = GeneratorCohere
	}
	if c.CohereURL == "" {
		c.CohereURL = "https://api.cohere.ai/v1/generate"
	}
	if c.CohereModel == "" {
		c.CohereModel = "command"
	}
	if c.OpenAIModel == "" {
		c.OpenAIModel = "gpt-4o-mini"
	}
}

func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	switch c.AuthProvider {
	case AuthProviderLocal:
	case AuthProviderRemote:
		if c.AuthURL == "" {
			return errors.New("auth_url is required for the remote auth provider")
		}
	default:
		return fmt.Errorf("unknown auth provider: %s", c.AuthProvider)
	}

	switch c.Generator {
	case GeneratorCohere, GeneratorOpenAI:
	default:
		return fmt.Errorf("unknown generator: %s", c.Generator)
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone [%s]: %w", c.Timezone, err)
	}

	if c.SignInRateLimitPerMin < 0 || c.RecommendRateLimitPerMin < 0 {
		return errors.New("rate limits cannot be negative")
	}

	// user ids end up in uuid columns
	for _, u := range c.Users {
		if _, err := uuid.Parse(u.ID); err != nil {
			return fmt.Errorf("invalid id [%s] for user [%s]: %w", u.ID, u.Email, err)
		}
	}

	return nil
}

func (c *Config) PostgresAddr() string {
	return fmt.Sprintf("%s:%s", c.PostgresHost, c.PostgresPort)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
