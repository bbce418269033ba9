// Package config provides configuration management for the application
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file if one is present in the working directory.
// Variables already set in the environment keep their values.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// OpenAIConfig holds settings for the intent extractor
type OpenAIConfig struct {
	APIKey string
	Model  string
}

// BrowserConfig holds settings for the DiBS browser flow
type BrowserConfig struct {
	LandingURL string
	Headless   bool
	SlowMotion time.Duration
	Username   string
	Password   string
	// UserDataDir is the persistent browser profile. Keeping it between
	// runs keeps the Okta session alive, so most submissions skip the
	// login and 2FA push entirely.
	UserDataDir string
}

// RedisConfig holds Redis/Valkey configuration for booking persistence
type RedisConfig struct {
	Enabled bool
	// URI is prioritized if provided, otherwise individual connection parameters are used
	URI       string
	Host      string
	Port      string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
	// TTL for stored bookings (0 means no expiration)
	BookingTTL time.Duration
}

// GetOpenAIConfig loads extractor configuration from environment variables
func GetOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		APIKey: getEnv("OPENAI_API_KEY", ""),
		Model:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
	}
}

// GetBrowserConfig loads browser flow configuration from environment variables.
// BOOKING_HEADLESS takes precedence over HEADLESS; both accept "1"/"0".
func GetBrowserConfig() BrowserConfig {
	slowMo, _ := strconv.Atoi(getEnv("BOOKING_SLOW_MOTION_MS", "400"))

	headless := true
	switch getEnv("BOOKING_HEADLESS", getEnv("HEADLESS", "")) {
	case "1":
		headless = true
	case "0":
		headless = false
	}

	return BrowserConfig{
		LandingURL: getEnv("BOOKING_LANDING_URL",
			"https://library.unimelb.edu.au/services/book-a-room-or-computer"),
		Headless:    headless,
		SlowMotion:  time.Duration(slowMo) * time.Millisecond,
		Username:    getEnv("DIBS_USERNAME", ""),
		Password:    getEnv("DIBS_PASSWORD", ""),
		UserDataDir: getEnv("BOOKING_USER_DATA_DIR", ".dibs-profile"),
	}
}

// GetRedisConfig loads Redis/Valkey configuration from environment variables
func GetRedisConfig() RedisConfig {
	// Parse TTL from environment variable (in hours)
	ttlHours, _ := strconv.Atoi(getEnv("REDIS_BOOKING_TTL_HOURS", "720")) // Default 30 days
	ttl := time.Duration(ttlHours) * time.Hour

	// Parse DB index
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	return RedisConfig{
		Enabled:    getEnvBool("REDIS_ENABLED", false),
		URI:        getEnv("REDIS_URI_BOOKINGS", ""),
		Host:       getEnv("REDIS_HOST_BOOKINGS", getEnv("REDIS_ADDRESS", "localhost")),
		Port:       getEnv("REDIS_PORT_BOOKINGS", "6379"),
		Username:   getEnv("REDIS_USERNAME_BOOKINGS", ""),
		Password:   getEnv("REDIS_PASSWORD_BOOKINGS", getEnv("REDIS_PASSWORD", "")),
		DB:         db,
		KeyPrefix:  getEnv("REDIS_KEY_PREFIX", "bookings:"),
		BookingTTL: ttl,
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool retrieves a boolean environment variable
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
