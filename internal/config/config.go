package config

import (
	"os"
	"strconv"

	"roomfindr-data/pkg/database"
)

// Config roomfindr-data (HTTP API) configuration
type Config struct {
	HTTP struct {
		Addr string
	}
	DBEnabled bool
	Database  database.Config
	Redis     struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	Notify NotifyConfig
}

// NotifyConfig notification channel selection.
// Driver: "none" | "webhook" | "stream" | "mqtt"
type NotifyConfig struct {
	Driver     string
	WebhookURL string // delivery gateway base URL (webhook driver)
	WebhookKey string // gateway API key, optional
	Stream     string // redis stream name (stream driver)
	MQTT       struct {
		Broker   string
		ClientID string
		Username string
		Password string
		Topic    string
	}
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	// Default to true for local dev: if DB is unavailable, roomfindr-data
	// falls back to memory repos so admin pages aren't empty.
	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "roomfindr")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = 0

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Notify.Driver = getEnv("NOTIFY_DRIVER", "none")
	cfg.Notify.WebhookURL = getEnv("NOTIFY_WEBHOOK_URL", "")
	cfg.Notify.WebhookKey = getEnv("NOTIFY_WEBHOOK_KEY", "")
	cfg.Notify.Stream = getEnv("NOTIFY_STREAM", "roomfindr:notifications")
	cfg.Notify.MQTT.Broker = getEnv("NOTIFY_MQTT_BROKER", "tcp://localhost:1883")
	cfg.Notify.MQTT.ClientID = getEnv("NOTIFY_MQTT_CLIENT_ID", "roomfindr-data")
	cfg.Notify.MQTT.Username = getEnv("NOTIFY_MQTT_USERNAME", "")
	cfg.Notify.MQTT.Password = getEnv("NOTIFY_MQTT_PASSWORD", "")
	cfg.Notify.MQTT.Topic = getEnv("NOTIFY_MQTT_TOPIC", "roomfindr/notifications")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
