package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port            string
	PublicBaseURL   string
	UpstreamTimeout time.Duration

	// Postgres. Empty DSN selects demo mode (in-memory fixtures).
	DatabaseURL string

	// Redis cart snapshot storage. Empty selects the in-memory store.
	RedisAddr string
	RedisDB   int

	// RabbitMQ order events. Empty disables publishing.
	RabbitURL string

	// Payment provider (hosted checkout sessions).
	PaymentAPIKey        string
	PaymentBaseURL       string
	PaymentWebhookSecret string

	// Completion provider for the AI proxy.
	AIAPIKey  string
	AIBaseURL string
	AIModel   string

	// Object storage for image uploads. Empty URL selects the
	// placeholder store.
	StorageURL    string
	StorageKey    string
	StorageBucket string

	// Admin dashboard auth. Empty secret leaves admin routes open
	// (demo mode).
	AdminJWTSecret string

	// CORS
	CORSAllowOrigins []string
}

func Load() Config {
	cfg := Config{
		Port:            getenv("PORT", "8080"),
		PublicBaseURL:   getenv("PUBLIC_BASE_URL", "http://localhost:8080"),
		UpstreamTimeout: parseDuration(getenv("UPSTREAM_TIMEOUT", "10s"), 10*time.Second),

		DatabaseURL: getenv("DATABASE_URL", ""),

		RedisAddr: getenv("REDIS_ADDR", ""),
		RedisDB:   parseInt(getenv("REDIS_DB", "0"), 0),

		RabbitURL: getenv("RABBITMQ_URL", ""),

		PaymentAPIKey:        getenv("PAYMENT_API_KEY", ""),
		PaymentBaseURL:       getenv("PAYMENT_BASE_URL", "https://api.stripe.com"),
		PaymentWebhookSecret: getenv("PAYMENT_WEBHOOK_SECRET", ""),

		AIAPIKey:  getenv("ANTHROPIC_API_KEY", ""),
		AIBaseURL: getenv("AI_BASE_URL", "https://api.anthropic.com"),
		AIModel:   getenv("AI_MODEL", "claude-sonnet-4-5-20250929"),

		StorageURL:    getenv("STORAGE_URL", ""),
		StorageKey:    getenv("STORAGE_SERVICE_KEY", ""),
		StorageBucket: getenv("STORAGE_BUCKET", "uploads"),

		AdminJWTSecret: getenv("ADMIN_JWT_SECRET", ""),

		CORSAllowOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", "*")),
	}
	return cfg
}

// Demo reports whether the service runs against fixtures instead of a
// real database.
func (c Config) Demo() bool {
	return c.DatabaseURL == ""
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func parseInt(v string, def int) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
