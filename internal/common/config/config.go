package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings, read from the environment.
type Config struct {
	Env     string
	Port    string
	GinMode string

	CORSAllowedOrigins []string

	Database DatabaseConfig
	Redis    RedisConfig
	OTP      OTPConfig
	Chat     ChatConfig
	Razorpay RazorpayConfig

	PlacesAPIKey string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
}

// OTPConfig controls phone verification codes.
type OTPConfig struct {
	TTL   time.Duration
	Store string // postgres or redis
	// MaxAttempts of 0 disables the verification lockout.
	MaxAttempts int
	// DiscloseCode returns the issued code in the API response. Never enabled in prod.
	DiscloseCode  bool
	EncryptionKey string
	// Retention keeps expired records around so late verifications report expiry.
	Retention time.Duration

	AuthKey           string
	AuthKeyTemplateID string
}

type ChatConfig struct {
	HFAPIKey       string
	HFBaseURL      string
	HFModel        string
	MaxTokens      int
	RequestTimeout time.Duration
}

type RazorpayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	env := getEnv("APP_ENV", "local")

	cfg := Config{
		Env:     env,
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "release"),

		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),

		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "mediconnect"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASS", ""),
		},
		OTP: OTPConfig{
			TTL:               getDuration("OTP_TTL", 10*time.Minute),
			Store:             getEnv("OTP_STORE", "postgres"),
			MaxAttempts:       getInt("OTP_MAX_ATTEMPTS", 0),
			DiscloseCode:      getBool("OTP_DISCLOSE_CODE", false) && !IsProduction(env),
			EncryptionKey:     getEnv("OTP_ENCRYPTION_KEY", ""),
			Retention:         getDuration("OTP_RETENTION", 24*time.Hour),
			AuthKey:           getEnv("AUTHKEY_API_KEY", ""),
			AuthKeyTemplateID: getEnv("AUTHKEY_TEMPLATE_ID", ""),
		},
		Chat: ChatConfig{
			HFAPIKey:       getEnv("HF_API_KEY", ""),
			HFBaseURL:      getEnv("HF_BASE_URL", "https://router.huggingface.co/v1"),
			HFModel:        getEnv("HF_MODEL", "mistralai/Mistral-7B-Instruct-v0.2"),
			MaxTokens:      getInt("HF_MAX_TOKENS", 500),
			RequestTimeout: getDuration("HF_TIMEOUT", 30*time.Second),
		},
		Razorpay: RazorpayConfig{
			KeyID:         getEnv("RAZORPAY_KEY_ID", ""),
			KeySecret:     getEnv("RAZORPAY_KEY_SECRET", ""),
			WebhookSecret: getEnv("RAZORPAY_WEBHOOK_SECRET", ""),
		},
		PlacesAPIKey: getEnv("PLACES_API_KEY", ""),
	}

	return cfg
}

// IsProduction reports whether env names a production deployment.
func IsProduction(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "prod", "production":
		return true
	default:
		return false
	}
}

// getEnv retrieves environment variable or returns default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v < 0 {
		return defaultValue
	}
	return v
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func splitList(s string) []string {
	var result []string
	for _, p := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
