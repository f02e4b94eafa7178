package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	Logger LoggerConfig

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Identity IdentityConfig
	Storage  StorageConfig
	Email    EmailConfig
}

type LoggerConfig struct {
	Level string
}

// IdentityConfig selects how operator sessions are resolved.
// "live" always queries the operators table; "cached" puts a redis
// session cache in front of the live lookup.
type IdentityConfig struct {
	Mode           string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	SessionTTLSecs int
}

type StorageConfig struct {
	Driver        string // "gcs" or "local"
	Bucket        string
	LocalDir      string
	PublicBaseURL string
}

type EmailConfig struct {
	Enabled      bool
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

const (
	IdentityModeLive   = "live"
	IdentityModeCached = "cached"

	StorageDriverGCS   = "gcs"
	StorageDriverLocal = "local"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "pestora"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		Logger: LoggerConfig{
			Level: getenv("LOG_LEVEL", "info"),
		},
		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "pestora"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),
		Identity: IdentityConfig{
			Mode:           normalizeIdentityMode(getenv("IDENTITY_MODE", IdentityModeLive)),
			RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
			RedisPassword:  getenv("REDIS_PASSWORD", ""),
			RedisDB:        getenvInt("REDIS_DB", 0),
			SessionTTLSecs: getenvInt("IDENTITY_SESSION_TTL", 900),
		},
		Storage: StorageConfig{
			Driver:        normalizeStorageDriver(getenv("STORAGE_DRIVER", StorageDriverLocal)),
			Bucket:        strings.TrimSpace(getenv("STORAGE_BUCKET", "")),
			LocalDir:      getenv("STORAGE_LOCAL_DIR", "./uploads"),
			PublicBaseURL: strings.TrimRight(getenv("STORAGE_PUBLIC_BASE_URL", "/uploads"), "/"),
		},
		Email: EmailConfig{
			Enabled:      getenvBool("EMAIL_ENABLED", false),
			SMTPHost:     getenv("SMTP_HOST", "localhost"),
			SMTPPort:     getenvInt("SMTP_PORT", 587),
			SMTPUsername: getenv("SMTP_USERNAME", ""),
			SMTPPassword: getenv("SMTP_PASSWORD", ""),
			SMTPFrom:     getenv("SMTP_FROM", "no-reply@pestora.app"),
		},
	}

	return cfg
}

func normalizeIdentityMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case IdentityModeCached:
		return IdentityModeCached
	default:
		return IdentityModeLive
	}
}

func normalizeStorageDriver(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case StorageDriverGCS:
		return StorageDriverGCS
	default:
		return StorageDriverLocal
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
