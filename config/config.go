package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server configuration
	Port        string
	Environment string

	// Redis configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string

	// MTN MoMo Collections API
	MomoAPIURL            string
	MomoAPIKey            string
	MomoUserID            string
	MomoUserSecret        string
	MomoTargetEnvironment string
	MomoCallbackHost      string
	MomoCallbackToken     string

	// Telecel (Vodafone Cash) API - placeholder integration
	TelecelAPIURL string
	TelecelAPIKey string

	// Payment configuration
	PaymentsEnabled bool
	RecipientNumber string
	ListingFee      string
	Currency        string

	// Payment session / polling configuration
	PaymentSessionTTL    time.Duration
	StatusPollInterval   time.Duration
	StatusPollMaxRetries int

	// Development mode simulation
	SimulatedPaymentDelay time.Duration
	SimulatedStatusDelay  time.Duration

	// Monitoring
	EnableMetrics bool
	MetricsPort   string
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Redis
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),

		// MTN MoMo
		MomoAPIURL:            getEnv("MOMO_API_URL", "https://sandbox.momodeveloper.mtn.com"),
		MomoAPIKey:            getEnv("MOMO_API_KEY", ""),
		MomoUserID:            getEnv("MOMO_USER_ID", ""),
		MomoUserSecret:        getEnv("MOMO_USER_SECRET", ""),
		MomoTargetEnvironment: getEnv("MOMO_TARGET_ENVIRONMENT", "sandbox"),
		MomoCallbackHost:      getEnv("MOMO_CALLBACK_HOST", "http://localhost:8090"),
		MomoCallbackToken:     getEnv("MOMO_CALLBACK_TOKEN", ""),

		// Telecel
		TelecelAPIURL: getEnv("TELECEL_API_URL", ""),
		TelecelAPIKey: getEnv("TELECEL_API_KEY", ""),

		// Payments
		PaymentsEnabled: getEnvAsBool("PAYMENTS_ENABLED", false),
		RecipientNumber: getEnv("MOMO_RECIPIENT_NUMBER", "0556317768"),
		ListingFee:      getEnv("LISTING_FEE", "5"),
		Currency:        getEnv("PAYMENT_CURRENCY", "GHS"),

		// Sessions / polling
		PaymentSessionTTL:    getEnvAsDuration("PAYMENT_SESSION_TTL", "10m"),
		StatusPollInterval:   getEnvAsDuration("STATUS_POLL_INTERVAL", "3s"),
		StatusPollMaxRetries: getEnvAsInt("STATUS_POLL_MAX_RETRIES", 20),

		// Development mode simulation
		SimulatedPaymentDelay: getEnvAsDuration("SIMULATED_PAYMENT_DELAY", "2s"),
		SimulatedStatusDelay:  getEnvAsDuration("SIMULATED_STATUS_DELAY", "1s"),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),
	}
}

// DevelopmentMode reports whether the MTN MoMo credentials are missing.
// Without them every provider call is simulated and responses carry a
// developmentMode flag so callers do not mistake them for real settlement.
func (c *Config) DevelopmentMode() bool {
	return c.MomoAPIKey == "" || c.MomoUserID == "" || c.MomoUserSecret == ""
}

// TelecelConfigured reports whether the Telecel placeholder credentials are set.
func (c *Config) TelecelConfigured() bool {
	return c.TelecelAPIURL != "" && c.TelecelAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, try to parse default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
