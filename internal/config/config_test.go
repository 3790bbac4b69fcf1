package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	for _, key := range []string{
		"WITHINGS_API_HOST", "WITHINGS_ACCESS_TOKEN", "WITHINGS_REQUEST_TIMEOUT",
		"REDIS_ADDR", "REDIS_DB", "TOKEN_CACHE_ENABLED", "MQTT_ENABLED",
		"MQTT_WEBHOOK_TOPIC", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://wbsapi.withings.net", cfg.Withings.APIHost)
	assert.Equal(t, 10*time.Second, cfg.Withings.RequestTimeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.False(t, cfg.TokenCacheEnabled)
	assert.False(t, cfg.MQTT.Enabled)
	assert.Equal(t, "withings/webhook", cfg.MQTT.WebhookTopic)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("WITHINGS_API_HOST", "http://localhost:8080")
	t.Setenv("WITHINGS_ACCESS_TOKEN", "tok")
	t.Setenv("WITHINGS_CLIENT_ID", "cid")
	t.Setenv("WITHINGS_REQUEST_TIMEOUT", "3")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("TOKEN_CACHE_ENABLED", "true")
	t.Setenv("MQTT_ENABLED", "true")
	t.Setenv("MQTT_SNAPSHOT_TOPIC", "snap")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.Withings.APIHost)
	assert.Equal(t, "tok", cfg.Withings.AccessToken)
	assert.Equal(t, "cid", cfg.Withings.ClientID)
	assert.Equal(t, 3*time.Second, cfg.Withings.RequestTimeout)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.True(t, cfg.TokenCacheEnabled)
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, "snap", cfg.MQTT.SnapshotTopic)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidNumbers(t *testing.T) {
	t.Setenv("WITHINGS_REQUEST_TIMEOUT", "soon")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("WITHINGS_REQUEST_TIMEOUT", "0")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("WITHINGS_REQUEST_TIMEOUT", "5")
	t.Setenv("REDIS_DB", "x")
	_, err = Load()
	require.Error(t, err)
}
