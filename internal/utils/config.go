package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServerPort     string
	Debug          bool
	JWTSecret      string
	AllowedOrigins []string
	Postgres       PostgresConfig
	Redis          RedisConfig
	Groq           GroqConfig
	Voice          VoiceConfig
	Billing        BillingConfig
	Logging        LoggingConfig
}

type PostgresConfig struct {
	DSN             string
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
}

type RedisConfig struct {
	URL string
}

// GroqConfig configures the chat completion provider. An empty APIKey
// switches the server into offline mock mode instead of failing startup.
type GroqConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxRetries int
	Timeout    time.Duration
}

// VoiceConfig and BillingConfig are recognized but optional; the
// corresponding integrations live outside this service.
type VoiceConfig struct {
	ElevenLabsAPIKey string
}

type BillingConfig struct {
	RevenueCatAPIKey string
}

type LoggingConfig struct {
	Level        string
	Encoding     string
	Development  bool
	EnableCaller bool
	ServiceName  string
}

func LoadConfig() (*Config, error) {
	pgPort, _ := strconv.Atoi(envOrDefault("POSTGRES_PORT", "5432"))

	cfg := &Config{
		ServerPort:     envOrDefault("PORT", "8000"),
		Debug:          parseBool(envOrDefault("DEBUG", "false"), false),
		JWTSecret:      envOrDefault("JWT_SECRET", "dev-secret"),
		AllowedOrigins: splitAndTrim(envOrDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		Postgres: PostgresConfig{
			DSN:             os.Getenv("POSTGRES_DSN"),
			Host:            envOrDefault("POSTGRES_HOST", "localhost"),
			Port:            pgPort,
			User:            envOrDefault("POSTGRES_USER", "postgres"),
			Password:        envOrDefault("POSTGRES_PASSWORD", "postgres"),
			Database:        envOrDefault("POSTGRES_DB", "careerwise"),
			MaxConns:        parseInt32(envOrDefault("POSTGRES_MAX_CONNS", "8"), 8),
			MinConns:        parseInt32(envOrDefault("POSTGRES_MIN_CONNS", "1"), 1),
			MaxConnLifetime: parseDuration(envOrDefault("POSTGRES_MAX_CONN_LIFETIME", "1h"), time.Hour),
			MaxConnIdleTime: parseDuration(envOrDefault("POSTGRES_MAX_CONN_IDLE", "30m"), 30*time.Minute),
			ConnectTimeout:  parseDuration(envOrDefault("POSTGRES_CONNECT_TIMEOUT", "5s"), 5*time.Second),
		},
		Redis: RedisConfig{
			URL: envOrDefault("REDIS_URL", "redis://localhost:6379"),
		},
		Groq: GroqConfig{
			APIKey:     strings.TrimSpace(os.Getenv("GROQ_API_KEY")),
			BaseURL:    strings.TrimRight(envOrDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1"), "/"),
			Model:      envOrDefault("GROQ_MODEL", "llama-3.1-8b-instant"),
			MaxRetries: int(parseInt32(envOrDefault("GROQ_MAX_RETRIES", "3"), 3)),
			Timeout:    parseDuration(envOrDefault("GROQ_TIMEOUT", "30s"), 30*time.Second),
		},
		Voice: VoiceConfig{
			ElevenLabsAPIKey: strings.TrimSpace(os.Getenv("ELEVENLABS_API_KEY")),
		},
		Billing: BillingConfig{
			RevenueCatAPIKey: strings.TrimSpace(os.Getenv("REVENUECAT_API_KEY")),
		},
		Logging: LoggingConfig{
			Level:        strings.ToLower(envOrDefault("LOG_LEVEL", "info")),
			Encoding:     strings.ToLower(envOrDefault("LOG_ENCODING", "console")),
			Development:  parseBool(envOrDefault("LOG_DEVELOPMENT", "false"), false),
			EnableCaller: parseBool(envOrDefault("LOG_CALLER", "false"), false),
			ServiceName:  envOrDefault("SERVICE_NAME", "careerwise-api"),
		},
	}

	return cfg, nil
}

// OfflineMode reports whether the completion provider credentials are
// absent, in which case the mock responder substitutes for the provider.
func (c *Config) OfflineMode() bool {
	return c.Groq.APIKey == ""
}

func (c PostgresConfig) BuildDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.Database
}

func envOrDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		result = append(result, trimmed)
	}
	return result
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt32(value string, fallback int32) int32 {
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return int32(i)
}

func parseBool(value string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return v
}
