package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("ORDERS_PER_PAGE", "")
	t.Setenv("PUBLIC_BASE_URL", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 20, cfg.OrdersPerPage)
	assert.Equal(t, "http://localhost:8080", cfg.PublicBaseURL)
	assert.Equal(t, 5, cfg.LoginAttemptsPerMinute)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ORDERS_PER_PAGE", "50")
	t.Setenv("SESSION_TIMEOUT", "60")
	t.Setenv("DB_SLOW_QUERY_THRESHOLD", "1s")
	t.Setenv("PUBLIC_BASE_URL", "https://print.example.com/")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 50, cfg.OrdersPerPage)
	assert.Equal(t, time.Minute, cfg.SessionTTL())
	assert.Equal(t, time.Second, cfg.SlowQueryThreshold)
	assert.Equal(t, "https://print.example.com", cfg.PublicBaseURL)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("ORDERS_PER_PAGE", "twenty")
	t.Setenv("DB_CONN_MAX_LIFETIME", "soon")

	cfg := Load()

	assert.Equal(t, 20, cfg.OrdersPerPage)
	assert.Equal(t, 30*time.Minute, cfg.DBConnMaxLifetime)
}
