package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Polling  PollingConfig
	Resume   ResumeConfig
	Scoring  ScoringConfig
	Guides   GuidesConfig
}

type DatabaseConfig struct {
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
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// PollingConfig tunes the dashboard poller cadences.
type PollingConfig struct {
	RequestInterval      time.Duration
	NotificationInterval time.Duration
	SessionInterval      time.Duration
	RequestTimeout       time.Duration
}

// ResumeConfig controls resume upload storage and the screening worker pool.
type ResumeConfig struct {
	StorageDir        string
	SignedURLSecret   string
	SignedURLTTL      time.Duration
	MaxFileSizeBytes  int64
	AllowedExtensions []string
	WorkerConcurrency int
	WorkerRetries     int
}

// ScoringConfig points at the external resume scoring service.
type ScoringConfig struct {
	BaseURL string
	Timeout time.Duration
}

// GuidesConfig tunes caching of the guide directory.
type GuidesConfig struct {
	CacheTTL time.Duration
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
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
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Polling = PollingConfig{
		RequestInterval:      parseDuration(v.GetString("POLL_REQUEST_INTERVAL"), 30*time.Second),
		NotificationInterval: parseDuration(v.GetString("POLL_NOTIFICATION_INTERVAL"), 15*time.Second),
		SessionInterval:      parseDuration(v.GetString("POLL_SESSION_INTERVAL"), 30*time.Second),
		RequestTimeout:       parseDuration(v.GetString("POLL_REQUEST_TIMEOUT"), 10*time.Second),
	}

	maxResumeSize := v.GetInt64("RESUME_MAX_FILE_SIZE")
	if maxResumeSize <= 0 {
		maxResumeSize = 5 * 1024 * 1024
	}
	cfg.Resume = ResumeConfig{
		StorageDir:        v.GetString("RESUME_STORAGE_DIR"),
		SignedURLSecret:   v.GetString("RESUME_SIGNED_URL_SECRET"),
		SignedURLTTL:      parseDuration(v.GetString("RESUME_SIGNED_URL_TTL"), 30*time.Minute),
		MaxFileSizeBytes:  maxResumeSize,
		AllowedExtensions: splitAndTrim(v.GetString("RESUME_ALLOWED_EXTENSIONS")),
		WorkerConcurrency: v.GetInt("RESUME_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("RESUME_WORKER_RETRIES"),
	}

	cfg.Scoring = ScoringConfig{
		BaseURL: v.GetString("SCORING_BASE_URL"),
		Timeout: parseDuration(v.GetString("SCORING_TIMEOUT"), 30*time.Second),
	}

	cfg.Guides = GuidesConfig{
		CacheTTL: parseDuration(v.GetString("GUIDES_CACHE_TTL"), 5*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "aegis")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "aegis-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("POLL_REQUEST_INTERVAL", "30s")
	v.SetDefault("POLL_NOTIFICATION_INTERVAL", "15s")
	v.SetDefault("POLL_SESSION_INTERVAL", "30s")
	v.SetDefault("POLL_REQUEST_TIMEOUT", "10s")

	v.SetDefault("RESUME_STORAGE_DIR", "./uploads")
	v.SetDefault("RESUME_SIGNED_URL_SECRET", "dev_resume_secret")
	v.SetDefault("RESUME_SIGNED_URL_TTL", "30m")
	v.SetDefault("RESUME_ALLOWED_EXTENSIONS", "pdf,docx,doc")
	v.SetDefault("RESUME_WORKER_CONCURRENCY", 4)
	v.SetDefault("RESUME_WORKER_RETRIES", 2)

	v.SetDefault("SCORING_BASE_URL", "http://localhost:9090")
	v.SetDefault("SCORING_TIMEOUT", "30s")

	v.SetDefault("GUIDES_CACHE_TTL", "5m")
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
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
