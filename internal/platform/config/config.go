package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName   string
	HTTPPort      string
	PostgresDSN   string
	KafkaBrokers  []string
	ActivityTopic string

	DirectoryBaseURL string
	DirectoryToken   string
	DirectoryTimeout time.Duration

	GuildID        string
	StaffRoleID    string
	DispatchRoleID string
	HRRoleID       string
}

func Load() (Config, error) {
	// Dev overlay only; production supplies real env vars.
	if os.Getenv("ENV") != "prod" {
		_ = godotenv.Load()
	}

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "clearwater"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}

	topic := os.Getenv("ACTIVITY_TOPIC")
	if topic == "" {
		topic = "clearwater.staff-activity"
	}

	return Config{
		ServiceName:   service,
		HTTPPort:      port,
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		KafkaBrokers:  brokers,
		ActivityTopic: topic,

		DirectoryBaseURL: os.Getenv("DIRECTORY_BASE_URL"),
		DirectoryToken:   os.Getenv("DIRECTORY_TOKEN"),
		DirectoryTimeout: envDurationMS("DIRECTORY_TIMEOUT_MS", 3*time.Second),

		GuildID:        os.Getenv("GUILD_ID"),
		StaffRoleID:    os.Getenv("STAFF_ROLE_ID"),
		DispatchRoleID: os.Getenv("DISPATCH_ROLE_ID"),
		HRRoleID:       os.Getenv("HR_ROLE_ID"),
	}, nil
}

func envDurationMS(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
