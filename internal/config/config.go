// Package config loads the API server settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	DefaultGatewayURL = "https://ai.gateway.lovable.dev/v1"
	DefaultChatModel  = "google/gemini-2.5-flash"
	DefaultImageModel = "google/gemini-2.5-flash-image-preview"
)

// Config holds everything the API server needs at startup.
type Config struct {
	Port int

	// Upstream OpenAI-compatible gateway.
	GatewayURL     string
	GatewayAPIKey  string
	ChatModel      string
	ImageModel     string
	RequestTimeout time.Duration

	// Per-IP requests per minute on the AI routes.
	RateLimitPerMinute int
	ImageCacheSize     int
	AllowedOrigins     []string

	// Proxies (CIDRs or bare IPs) whose X-Forwarded-For entries are believed.
	// Empty means the peer address is the client.
	TrustedProxies []string
}

// LoadConfig reads .env (if present) and the process environment. A missing
// gateway key is not fatal here; the endpoints report it per request.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
	}

	apiKey := getEnv("AI_GATEWAY_API_KEY", "")
	if apiKey == "" {
		apiKey = getEnv("LOVABLE_API_KEY", "")
	}

	return &Config{
		Port:               getEnvInt("PORT", 8080),
		GatewayURL:         strings.TrimRight(getEnv("AI_GATEWAY_URL", DefaultGatewayURL), "/"),
		GatewayAPIKey:      apiKey,
		ChatModel:          getEnv("AI_CHAT_MODEL", DefaultChatModel),
		ImageModel:         getEnv("AI_IMAGE_MODEL", DefaultImageModel),
		RequestTimeout:     getEnvDuration("AI_REQUEST_TIMEOUT", 60*time.Second),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 20),
		ImageCacheSize:     getEnvInt("IMAGE_CACHE_SIZE", 128),
		AllowedOrigins:     getEnvList("ALLOWED_ORIGINS", []string{"https://*", "http://*"}),
		TrustedProxies:     getEnvList("TRUSTED_PROXIES", nil),
	}
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func getEnvList(key string, fallback []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
