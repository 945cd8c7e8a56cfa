package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	// session tokens
	JWTSecret     string
	TokenTTL      time.Duration
	SessionCookie string

	// payment processor
	StripeSecretKey string

	// cross-origin clients allowed to send the session cookie
	AllowedOrigins []string

	// revocation registry; empty addr falls back to the in-process registry
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// bootstrap admin account
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

func Load() Config {
	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("PORT", 5000)

	return Config{
		Env:   env,
		Port:  port,
		DBURL: buildDBURL(),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenTTL:      time.Duration(getEnvInt("TOKEN_TTL_MINUTES", 60)) * time.Minute,
		SessionCookie: getEnv("SESSION_COOKIE_NAME", "JWT_TOKEN"),

		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),

		AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "Admin"),
	}
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "payrollhub")
	pass := getEnv("DB_PASSWORD", "payrollhub")
	name := getEnv("DB_NAME", "payrollhub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)

		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}
