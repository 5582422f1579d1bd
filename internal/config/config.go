package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Port string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
	CartTTL       time.Duration
	CacheTTL      time.Duration

	// Optional integrations; empty disables them.
	RabbitURL        string
	TelegramBotToken string
	TelegramChatID   string

	JWTSecret         string
	TokenTTL          time.Duration
	AdminUsername     string
	AdminPasswordHash string

	CORSAllowOrigins []string
}

func Load() Config {
	return Config{
		Port: getenv("PORT", "8080"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		CartTTL:       parseDuration(getenv("CART_TTL", "720h"), 720*time.Hour),
		CacheTTL:      parseDuration(getenv("CACHE_TTL", "5m"), 5*time.Minute),

		RabbitURL:        os.Getenv("RABBITMQ_URL"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),

		JWTSecret:         getenv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:          parseDuration(getenv("TOKEN_TTL", "24h"), 24*time.Hour),
		AdminUsername:     getenv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		CORSAllowOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", "*")),
	}
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
