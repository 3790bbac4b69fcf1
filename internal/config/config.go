package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config owl-withings 配置
type Config struct {
	Withings struct {
		APIHost        string
		AccessToken    string // 静态 token，设置后不走刷新流程
		RefreshToken   string
		ClientID       string
		ClientSecret   string
		RedirectURL    string
		RequestTimeout time.Duration
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	// TokenCacheEnabled 是否把 token 缓存到 Redis（多实例共享刷新结果）
	TokenCacheEnabled bool

	MQTT struct {
		Enabled       bool
		Broker        string
		ClientID      string
		Username      string
		Password      string
		WebhookTopic  string // Withings webhook 被转发到的主题
		SnapshotTopic string // 聚合快照的发布主题前缀
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Withings.APIHost = getEnv("WITHINGS_API_HOST", "https://wbsapi.withings.net")
	cfg.Withings.AccessToken = getEnv("WITHINGS_ACCESS_TOKEN", "")
	cfg.Withings.RefreshToken = getEnv("WITHINGS_REFRESH_TOKEN", "")
	cfg.Withings.ClientID = getEnv("WITHINGS_CLIENT_ID", "")
	cfg.Withings.ClientSecret = getEnv("WITHINGS_CLIENT_SECRET", "")
	cfg.Withings.RedirectURL = getEnv("WITHINGS_REDIRECT_URL", "")
	timeout, err := parseInt("WITHINGS_REQUEST_TIMEOUT", 10)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("WITHINGS_REQUEST_TIMEOUT must be positive, got %d", timeout)
	}
	cfg.Withings.RequestTimeout = time.Duration(timeout) * time.Second

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	if cfg.Redis.DB, err = parseInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	cfg.TokenCacheEnabled = getEnv("TOKEN_CACHE_ENABLED", "false") == "true"

	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "owl-withings")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.WebhookTopic = getEnv("MQTT_WEBHOOK_TOPIC", "withings/webhook")
	cfg.MQTT.SnapshotTopic = getEnv("MQTT_SNAPSHOT_TOPIC", "withings/snapshot")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
