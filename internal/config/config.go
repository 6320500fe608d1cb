package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPAddr string

	// Smartie persistence API (the backend this engine writes through).
	APIBaseURL      string
	APITokenURL     string
	APIClientID     string
	APIClientSecret string
	APITimeoutSec   int

	DBDriver string
	DBDSN    string

	// exact | word-subset
	MatchRule string

	AuthHMACSecret string
	CORSOrigins    []string
	LogLevel       string
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8081"
	}
	return Config{
		HTTPAddr:        addr,
		APIBaseURL:      envOr("SMARTIE_API_URL", "http://localhost:8080"),
		APITokenURL:     os.Getenv("SMARTIE_TOKEN_URL"),
		APIClientID:     os.Getenv("SMARTIE_CLIENT_ID"),
		APIClientSecret: os.Getenv("SMARTIE_CLIENT_SECRET"),
		APITimeoutSec:   envInt("SMARTIE_TIMEOUT_SEC", 10),
		DBDriver:        envOr("DB_DRIVER", "sqlite"),
		DBDSN:           envOr("DB_DSN", ""),
		MatchRule:       envOr("MATCH_RULE", "exact"),
		AuthHMACSecret:  envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		CORSOrigins:     csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		LogLevel:        envOr("LOG_LEVEL", "info"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
