package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// DevelopmentSecret is the signing secret used when AUTH_SECRET is not provided.
	DevelopmentSecret = "dev_secret_change_me"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string
	WebRoot   string

	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	Password  PasswordConfig
	LLM       LLMConfig
	RateLimit RateLimitConfig
	Dashboard DashboardConfig
	Jobs      JobsConfig
	CORS      CORSConfig
	Log       LogConfig
}

type DatabaseConfig struct {
	URL          string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	URL      string
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig governs signed session tokens and the cookie that carries them.
type SessionConfig struct {
	Secret                string
	TTL                   time.Duration
	CookieName            string
	RedirectAuthenticated bool
	RevocationEnabled     bool
}

type PasswordConfig struct {
	BcryptCost int
}

// LLMConfig points the question generator at an OpenAI compatible endpoint.
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// RateLimitConfig bounds question generation per client within a fixed window.
type RateLimitConfig struct {
	Enabled     bool
	MaxRequests int
	Window      time.Duration
}

// DashboardConfig governs result summary caching.
type DashboardConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

type JobsConfig struct {
	Workers int
	Retries int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.WebRoot = v.GetString("WEB_ROOT")

	cfg.Database = DatabaseConfig{
		URL:          v.GetString("DATABASE_URL"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		URL:      v.GetString("REDIS_URL"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Session = SessionConfig{
		Secret:                v.GetString("AUTH_SECRET"),
		TTL:                   parseDuration(v.GetString("SESSION_TTL"), 7*24*time.Hour),
		CookieName:            v.GetString("SESSION_COOKIE_NAME"),
		RedirectAuthenticated: v.GetBool("SESSION_REDIRECT_AUTHENTICATED"),
		RevocationEnabled:     v.GetBool("SESSION_REVOCATION_ENABLED"),
	}

	cfg.Password = PasswordConfig{BcryptCost: v.GetInt("BCRYPT_COST")}

	cfg.LLM = LLMConfig{
		APIKey:      v.GetString("LLM_API_KEY"),
		BaseURL:     v.GetString("LLM_BASE_URL"),
		Model:       v.GetString("LLM_MODEL"),
		Temperature: float32(v.GetFloat64("LLM_TEMPERATURE")),
		Timeout:     parseDuration(v.GetString("LLM_TIMEOUT"), time.Minute),
	}

	cfg.RateLimit = RateLimitConfig{
		Enabled:     v.GetBool("RATE_LIMIT_ENABLED"),
		MaxRequests: v.GetInt("RATE_LIMIT_MAX_REQUESTS"),
		Window:      parseDuration(v.GetString("RATE_LIMIT_WINDOW"), 24*time.Hour),
	}

	cfg.Dashboard = DashboardConfig{
		CacheEnabled: v.GetBool("ENABLE_DASHBOARD_CACHE"),
		CacheTTL:     parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Jobs = JobsConfig{
		Workers: v.GetInt("JOBS_WORKERS"),
		Retries: v.GetInt("JOBS_RETRIES"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations that are unsafe to run.
func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		if c.Env == EnvProduction {
			return errors.New("AUTH_SECRET is required in production")
		}
		c.Session.Secret = DevelopmentSecret
	}
	if c.Env == EnvProduction && c.Session.Secret == DevelopmentSecret {
		return errors.New("AUTH_SECRET must not use the development default in production")
	}
	if c.Password.BcryptCost <= 0 {
		c.Password.BcryptCost = 10
	}
	if c.RateLimit.MaxRequests <= 0 {
		c.RateLimit.MaxRequests = 4
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "session"
	}
	return nil
}

// IsProduction reports whether secure cookies and release mode apply.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("WEB_ROOT", "")

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "mcq_exam")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("AUTH_SECRET", "")
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("SESSION_COOKIE_NAME", "session")
	v.SetDefault("SESSION_REDIRECT_AUTHENTICATED", true)
	v.SetDefault("SESSION_REVOCATION_ENABLED", false)

	v.SetDefault("BCRYPT_COST", 10)

	v.SetDefault("LLM_API_KEY", "")
	v.SetDefault("LLM_BASE_URL", "")
	v.SetDefault("LLM_MODEL", "gpt-4o")
	v.SetDefault("LLM_TEMPERATURE", 0.7)
	v.SetDefault("LLM_TIMEOUT", "60s")

	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_MAX_REQUESTS", 4)
	v.SetDefault("RATE_LIMIT_WINDOW", "24h")

	v.SetDefault("ENABLE_DASHBOARD_CACHE", true)
	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")

	v.SetDefault("JOBS_WORKERS", 2)
	v.SetDefault("JOBS_RETRIES", 3)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
