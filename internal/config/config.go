package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret      string
	AccessTokenTTL time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	// BaseURL of the front-end, used to build password reset links.
	BaseURL string

	Log      string
	LogLevel string
}

// Load reads .env (if present) and the environment, applying defaults.
func Load() *Config {
	_ = godotenv.Load(".env")

	ttl, err := time.ParseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "24h"))
	if err != nil {
		ttl = 24 * time.Hour
	}

	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "pmuser"),
		DBPassword: getEnv("DB_PASSWORD", "pmpassword"),
		DBName:     getEnv("DB_NAME", "project_management"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:      getEnv("JWT_SECRET", "default-secret-key-change-me"),
		AccessTokenTTL: ttl,

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "Project Management System"),

		BaseURL: getEnv("BASE_URL", "http://localhost:5173"),

		Log:      getEnv("LOG", "dev"),
		LogLevel: strings.ToLower(getEnv("LOGLEVEL", "info")),
	}
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}
