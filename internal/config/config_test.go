package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		// t.Setenv restores the variables after the test.
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("APP_PORT", "9090")
		t.Setenv("APP_ENV", "test")
		t.Setenv("REDIS_ADDR", "redis:6379")
		t.Setenv("REDIS_DB", "2")
		t.Setenv("CART_VIEW_TTL", "5m")
		t.Setenv("LEDGER_BASE_URL", "http://ledger:8081")
		t.Setenv("LEDGER_TIMEOUT", "750ms")
		t.Setenv("LEDGER_STORE", "memory")
		t.Setenv("LEDGER_INITIAL_BALANCE", "500")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "9090", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, 2, cfg.RedisDB)
		assert.Equal(t, 5*time.Minute, cfg.CartViewTTL)
		assert.Equal(t, "http://ledger:8081", cfg.LedgerBaseURL)
		assert.Equal(t, 750*time.Millisecond, cfg.LedgerTimeout)
		assert.Equal(t, "memory", cfg.LedgerStore)
		assert.Equal(t, int64(500), cfg.LedgerInitialBalance)
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("APP_PORT", "")
		t.Setenv("LEDGER_TIMEOUT", "not-a-duration")
		t.Setenv("LEDGER_INITIAL_BALANCE", "")
		t.Setenv("LEDGER_STORE", "")

		cfg := LoadConfig()

		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, 5*time.Second, cfg.LedgerTimeout)
		assert.Equal(t, int64(100000), cfg.LedgerInitialBalance)
		assert.Equal(t, "postgres", cfg.LedgerStore)
	})
}
