package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CartViewTTL   time.Duration

	LedgerBaseURL        string
	LedgerTimeout        time.Duration
	LedgerPort           string
	LedgerStore          string
	LedgerInitialBalance int64
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    getEnv("APP_PORT", "8080"),
		AppEnv:     os.Getenv("APP_ENV"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CartViewTTL:   getEnvDuration("CART_VIEW_TTL", 15*time.Minute),

		LedgerBaseURL:        getEnv("LEDGER_BASE_URL", "http://localhost:8081"),
		LedgerTimeout:        getEnvDuration("LEDGER_TIMEOUT", 5*time.Second),
		LedgerPort:           getEnv("LEDGER_PORT", "8081"),
		LedgerStore:          getEnv("LEDGER_STORE", "postgres"),
		LedgerInitialBalance: int64(getEnvInt("LEDGER_INITIAL_BALANCE", 100000)),
	}

	if cfg.DBHost == "" && cfg.LedgerStore != "memory" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("invalid %s=%q, using default %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
