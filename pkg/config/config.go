package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	// Database. Driver is one of "mysql", "postgres", "sqlite".
	DBDriver string
	DSN      string

	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// Root directory for uploaded voice samples and generated audio.
	OutputDir string

	// External XTTS synthesis service.
	TTSBaseURL string
	TTSTimeout time.Duration

	LogMode       string
	LogLevel      string
	LogFile       string
	LogMaxSize    int
	LogMaxAge     int
	LogMaxBackups int

	// Cron spec for the orphan artifact sweep. Empty disables the sweep.
	SweepSchedule string
	SweepGrace    time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DBDriver: getEnv("DB_DRIVER", "sqlite"),
		DSN:      getEnv("DSN", "voiceclone.db"),

		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:  getDurationEnv("JWT_ACCESS_EXPIRY", 15*time.Minute),
		JWTRefreshExpiry: getDurationEnv("JWT_REFRESH_EXPIRY", 168*time.Hour),

		OutputDir: getEnv("OUTPUT_DIR", "outputs"),

		TTSBaseURL: getEnv("TTS_BASE_URL", "http://localhost:8000"),
		TTSTimeout: getDurationEnv("TTS_TIMEOUT", 5*time.Minute),

		LogMode:       getEnv("LOG_MODE", "dev"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       getEnv("LOG_FILE", ""),
		LogMaxSize:    getIntEnv("LOG_MAX_SIZE", 100),
		LogMaxAge:     getIntEnv("LOG_MAX_AGE", 30),
		LogMaxBackups: getIntEnv("LOG_MAX_BACKUPS", 5),

		SweepSchedule: getEnv("SWEEP_SCHEDULE", ""),
		SweepGrace:    getDurationEnv("SWEEP_GRACE", 24*time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
