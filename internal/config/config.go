package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel string

	// Document store service
	Addr          string
	DatabaseURL   string
	MigrationsDir string
	AuthSecret    string
	CORSOrigin    string
	MeiliURL      string
	MeiliAPIKey   string
	SeedInbox     bool

	// Console
	StoreURL       string
	StoreToken     string
	StoreTimeout   time.Duration
	RedisURL       string
	CacheTTL       time.Duration
	NotifyDuration time.Duration
	PrintMode      string
	PrintDir       string
	// MinIO print archive; disabled when MinioEndpoint is empty
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// Load reads the environment, after applying any .env file found in the
// working directory. Variables already set in the environment win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		LogLevel: getenv("LOG_LEVEL", "info"),

		Addr:          getenv("DOCSTORE_ADDR", ":8788"),
		DatabaseURL:   getenv("DATABASE_URL", ""),
		MigrationsDir: getenv("DOCSTORE_MIGRATIONS_DIR", "./db/migrations"),
		AuthSecret:    getenv("DOCSTORE_AUTH_SECRET", ""),
		CORSOrigin:    getenv("DOCSTORE_CORS_ORIGIN", "*"),
		MeiliURL:      getenv("MEILI_URL", ""),
		MeiliAPIKey:   getenv("MEILI_MASTER_KEY", ""),
		SeedInbox:     getenvBool("DOCSTORE_SEED_INBOX", true),

		StoreURL:       strings.TrimRight(getenv("DOCSTORE_URL", "http://localhost:8788/api"), "/"),
		StoreToken:     getenv("DOCSTORE_TOKEN", ""),
		StoreTimeout:   getenvDuration("DOCSTORE_TIMEOUT", 15*time.Second),
		RedisURL:       getenv("REDIS_URL", ""),
		CacheTTL:       getenvDuration("CACHE_TTL", 5*time.Minute),
		NotifyDuration: getenvDuration("NOTIFY_DURATION", 3*time.Second),
		PrintMode:      getenv("PRINT_MODE", "html"),
		PrintDir:       getenv("PRINT_DIR", "./data/prints"),
		MinioEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "erpdesk-prints"),
		MinioUseSSL:    getenvBool("MINIO_USE_SSL", false),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// getenvDuration accepts Go durations ("3s") or a bare number of seconds.
func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if parsed, err := time.ParseDuration(value); err == nil {
		return parsed
	}
	if seconds := getenvInt(key, -1); seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}
