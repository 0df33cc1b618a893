package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port           int
	APIBaseURL     string
	RedisURL       string
	SessionTTL     time.Duration
	CookieSecure   bool
	RateLimitLogin RateLimitConfig
}

// RateLimitConfig representa limites simples para throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "3000")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("API_BASE_URL", "http://localhost:8080/api")), "/")
	if cfg.APIBaseURL == "" {
		return nil, errors.New("API_BASE_URL obrigatória")
	}

	cfg.RedisURL = getEnv("REDIS_URL", "")
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL obrigatório")
	}

	sessionTTL, err := parseDurationEnv("SESSION_TTL", 12*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.SessionTTL = sessionTTL

	cfg.CookieSecure = strings.EqualFold(getEnv("COOKIE_SECURE", "false"), "true")

	loginRPS, err := parseFloatEnv("LOGIN_RATE_LIMIT", 5)
	if err != nil {
		return nil, err
	}
	loginBurst, err := parseIntEnv("LOGIN_RATE_BURST", 10)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitLogin = RateLimitConfig{RequestsPerSecond: loginRPS, Burst: loginBurst}

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseFloatEnv(key string, def float64) (float64, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || f <= 0 {
		return 0, errors.New(key + " inválido")
	}
	return f, nil
}

func parseIntEnv(key string, def int) (int, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return 0, errors.New(key + " inválido")
	}
	return n, nil
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}
