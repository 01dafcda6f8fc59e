// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the HTTP server, downstream
// collaborators and the placement policy.
type Config struct {
	HTTPAddr          string
	ShutdownTimeout   time.Duration
	MySQLDSN          string
	KafkaAddr         string
	NotificationTopic string
	InventoryURL      string
	InventoryTimeout  time.Duration
	BreakerEnabled    bool
	BreakerMaxFails   uint32
	BreakerOpenFor    time.Duration
	StrictLineItems   bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func boolenv(key string, def bool) bool {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func durenvms(key string, defMs int) time.Duration {
	return time.Duration(atoienv(key, defMs)) * time.Millisecond
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout:   time.Duration(atoienv("SHUTDOWN_TIMEOUT_SEC", 5)) * time.Second,
		MySQLDSN:          getenv("MYSQL_DSN", "root:root@tcp(localhost:3306)/orders?parseTime=true"),
		KafkaAddr:         getenv("KAFKA_ADDR", "localhost:9092"),
		NotificationTopic: getenv("NOTIFICATION_TOPIC", "notificationTopic"),
		InventoryURL:      getenv("INVENTORY_URL", "http://localhost:8082"),
		InventoryTimeout:  durenvms("INVENTORY_TIMEOUT_MS", 2000),
		BreakerEnabled:    boolenv("BREAKER_ENABLED", true),
		BreakerMaxFails:   uint32(atoienv("BREAKER_MAX_FAILURES", 5)),
		BreakerOpenFor:    durenvms("BREAKER_OPEN_MS", 30000),
		StrictLineItems:   boolenv("STRICT_LINE_ITEMS", false),
	}
}
