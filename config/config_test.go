package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, ":8080", cfg.Server.HTTPPort)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "inventory.events", cfg.Kafka.InventoryTopic)
	assert.Equal(t, 10, cfg.Postgres.MaxOpenConns)
	assert.InDelta(t, 5.99, cfg.Order.DeliveryFee, 1e-9)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("APP_ENV", "production")
	t.Setenv("REDIS_DB", "3")

	cfg := LoadEnv()

	assert.Equal(t, ":9000", cfg.Server.HTTPPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.False(t, cfg.IsDevelopment())
}
