package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration. It is loaded once at startup and
// passed into constructors; no other package reads the environment.
type Config struct {
	Port       string
	MongoURI   string
	MongoDB    string
	JWTSecret  string
	JWTExpiry  time.Duration
	MQTTBroker string
	LogLevel   string
}

// Load reads configuration from a .env file (if present) and the
// environment, falling back to development defaults.
func Load() *Config {
	// A missing .env file is fine; env vars still apply.
	_ = godotenv.Load()

	return &Config{
		Port:       getEnv("PORT", "5000"),
		MongoURI:   getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:    getEnv("MONGO_DB", "autogen"),
		JWTSecret:  getEnv("JWT_SECRET", "default-secret-key-change-in-production"),
		JWTExpiry:  getDuration("JWT_EXPIRY", 24*time.Hour),
		MQTTBroker: getEnv("MQTT_BROKER", ""),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
