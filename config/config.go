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

	// Allocation defaults (percent of venue capacity per category; the
	// Regular share absorbs the remainder)
	VVIPPercent int
	VIPPercent  int

	// Default ticket prices per category
	VVIPPrice    float64
	VIPPrice     float64
	RegularPrice float64

	// Exchange rate configuration (THB -> KES)
	ExchangeRateURL  string
	ExchangeRateTTL  time.Duration
	DefaultThbToKes  float64
	RateFetchTimeout time.Duration

	// Report configuration
	ReportRateLimit int

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

		// Allocation
		VVIPPercent:  getEnvAsInt("ALLOC_VVIP_PERCENT", 10),
		VIPPercent:   getEnvAsInt("ALLOC_VIP_PERCENT", 30),
		VVIPPrice:    getEnvAsFloat("VVIP_PRICE", 3),
		VIPPrice:     getEnvAsFloat("VIP_PRICE", 2),
		RegularPrice: getEnvAsFloat("REGULAR_PRICE", 1),

		// Exchange rate
		ExchangeRateURL:  getEnv("EXCHANGE_RATE_URL", ""),
		ExchangeRateTTL:  getEnvAsDuration("EXCHANGE_RATE_TTL", "1h"),
		DefaultThbToKes:  getEnvAsFloat("DEFAULT_THB_TO_KES", 3.7),
		RateFetchTimeout: getEnvAsDuration("RATE_FETCH_TIMEOUT", "10s"),

		// Reports
		ReportRateLimit: getEnvAsInt("REPORT_RATE_LIMIT", 30),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),
	}
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
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
