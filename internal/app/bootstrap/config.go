package bootstrap

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID string
	LogLevel  slog.Level

	HTTPPort int
	GRPCPort int

	// DatabaseURL may be empty for the API, which then keeps everything in memory.
	DatabaseURL  string
	RedisURL     string
	KafkaBrokers []string
	MaxDBConns   int32

	KafkaTopicServices string
	KafkaTopicEvents   string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxClaimTTL     time.Duration
	OutboxMaxRetries   int

	ServicesCacheTTL   time.Duration
	CascadeConcurrency int

	AIBaseURL string
	AIAPIKey  string
	AIModel   string
	AITimeout time.Duration

	AuthDisabled   bool
	AllowedEmail   string
	GoogleClientID string
	SessionSecret  string
	SessionTTL     time.Duration
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL        string   `yaml:"postgres_url"`
		RedisURL           string   `yaml:"redis_url"`
		KafkaBrokers       []string `yaml:"kafka_brokers"`
		KafkaTopicServices string   `yaml:"kafka_topic_services"`
		KafkaTopicEvents   string   `yaml:"kafka_topic_events"`
	} `yaml:"dependencies"`
	Outbox struct {
		PollSeconds  int `yaml:"poll_seconds"`
		BatchSize    int `yaml:"batch_size"`
		ClaimSeconds int `yaml:"claim_seconds"`
		MaxRetries   int `yaml:"max_retries"`
	} `yaml:"outbox"`
	Timeline struct {
		ServicesCacheSeconds int `yaml:"services_cache_seconds"`
		CascadeConcurrency   int `yaml:"cascade_concurrency"`
	} `yaml:"timeline"`
	Classifier struct {
		BaseURL        string `yaml:"base_url"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"classifier"`
	Auth struct {
		Disabled          *bool  `yaml:"disabled"`
		AllowedEmail      string `yaml:"allowed_email"`
		GoogleClientID    string `yaml:"google_client_id"`
		SessionTTLMinutes int    `yaml:"session_ttl_minutes"`
	} `yaml:"auth"`
}

// defaultAIBaseURL is Gemini's OpenAI-compatible endpoint.
const defaultAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:          "timeline-service",
		LogLevel:           slog.LevelInfo,
		HTTPPort:           8080,
		GRPCPort:           9090,
		MaxDBConns:         10,
		KafkaTopicServices: "timeline.services.v1",
		KafkaTopicEvents:   "timeline.events.v1",
		OutboxPollInterval: 2 * time.Second,
		OutboxBatchSize:    100,
		OutboxClaimTTL:     30 * time.Second,
		OutboxMaxRetries:   5,
		ServicesCacheTTL:   5 * time.Minute,
		CascadeConcurrency: 8,
		AIBaseURL:          defaultAIBaseURL,
		AIModel:            "gemini-2.0-flash",
		AITimeout:          20 * time.Second,
		SessionTTL:         12 * time.Hour,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Service.LogLevel != "" {
			cfg.LogLevel = parseLevel(f.Service.LogLevel, cfg.LogLevel)
		}
		cfg.DatabaseURL = f.Dependencies.PostgresURL
		cfg.RedisURL = f.Dependencies.RedisURL
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
		}
		if f.Dependencies.KafkaTopicServices != "" {
			cfg.KafkaTopicServices = f.Dependencies.KafkaTopicServices
		}
		if f.Dependencies.KafkaTopicEvents != "" {
			cfg.KafkaTopicEvents = f.Dependencies.KafkaTopicEvents
		}
		if f.Outbox.PollSeconds > 0 {
			cfg.OutboxPollInterval = time.Duration(f.Outbox.PollSeconds) * time.Second
		}
		if f.Outbox.BatchSize > 0 {
			cfg.OutboxBatchSize = f.Outbox.BatchSize
		}
		if f.Outbox.ClaimSeconds > 0 {
			cfg.OutboxClaimTTL = time.Duration(f.Outbox.ClaimSeconds) * time.Second
		}
		if f.Outbox.MaxRetries > 0 {
			cfg.OutboxMaxRetries = f.Outbox.MaxRetries
		}
		if f.Timeline.ServicesCacheSeconds > 0 {
			cfg.ServicesCacheTTL = time.Duration(f.Timeline.ServicesCacheSeconds) * time.Second
		}
		if f.Timeline.CascadeConcurrency > 0 {
			cfg.CascadeConcurrency = f.Timeline.CascadeConcurrency
		}
		if f.Classifier.BaseURL != "" {
			cfg.AIBaseURL = f.Classifier.BaseURL
		}
		if f.Classifier.Model != "" {
			cfg.AIModel = f.Classifier.Model
		}
		if f.Classifier.TimeoutSeconds > 0 {
			cfg.AITimeout = time.Duration(f.Classifier.TimeoutSeconds) * time.Second
		}
		if f.Auth.Disabled != nil {
			cfg.AuthDisabled = *f.Auth.Disabled
		}
		cfg.AllowedEmail = f.Auth.AllowedEmail
		cfg.GoogleClientID = f.Auth.GoogleClientID
		if f.Auth.SessionTTLMinutes > 0 {
			cfg.SessionTTL = time.Duration(f.Auth.SessionTTLMinutes) * time.Minute
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg.ServiceID = envOrDefault("SERVICE_ID", cfg.ServiceID)
	cfg.LogLevel = parseLevel(os.Getenv("LOG_LEVEL"), cfg.LogLevel)
	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaTopicServices = envOrDefault("KAFKA_TOPIC_SERVICES", cfg.KafkaTopicServices)
	cfg.KafkaTopicEvents = envOrDefault("KAFKA_TOPIC_EVENTS", cfg.KafkaTopicEvents)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.OutboxClaimTTL = time.Duration(envInt("OUTBOX_CLAIM_SECONDS", int(cfg.OutboxClaimTTL.Seconds()))) * time.Second
	cfg.OutboxMaxRetries = envInt("OUTBOX_MAX_RETRIES", cfg.OutboxMaxRetries)
	cfg.ServicesCacheTTL = time.Duration(envInt("SERVICES_CACHE_SECONDS", int(cfg.ServicesCacheTTL.Seconds()))) * time.Second
	cfg.CascadeConcurrency = envInt("CASCADE_CONCURRENCY", cfg.CascadeConcurrency)
	cfg.AIBaseURL = envOrDefault("AI_BASE_URL", cfg.AIBaseURL)
	cfg.AIAPIKey = envOrDefault("AI_API_KEY", envOrDefault("GEMINI_API_KEY", envOrDefault("OPENAI_API_KEY", cfg.AIAPIKey)))
	cfg.AIModel = envOrDefault("AI_MODEL", cfg.AIModel)
	cfg.AITimeout = time.Duration(envInt("AI_TIMEOUT_SECONDS", int(cfg.AITimeout.Seconds()))) * time.Second
	cfg.AuthDisabled = envBool("AUTH_DISABLED", cfg.AuthDisabled)
	cfg.AllowedEmail = envOrDefault("ALLOWED_EMAIL", cfg.AllowedEmail)
	cfg.GoogleClientID = envOrDefault("GOOGLE_CLIENT_ID", cfg.GoogleClientID)
	cfg.SessionSecret = envOrDefault("SESSION_SECRET", cfg.SessionSecret)
	cfg.SessionTTL = time.Duration(envInt("SESSION_TTL_MINUTES", int(cfg.SessionTTL.Minutes()))) * time.Minute

	if !cfg.AuthDisabled {
		if strings.TrimSpace(cfg.AllowedEmail) == "" {
			return Config{}, fmt.Errorf("missing ALLOWED_EMAIL (or set AUTH_DISABLED=true)")
		}
		if strings.TrimSpace(cfg.GoogleClientID) == "" {
			return Config{}, fmt.Errorf("missing GOOGLE_CLIENT_ID (or set AUTH_DISABLED=true)")
		}
	}
	if cfg.SessionSecret != "" && len(cfg.SessionSecret) < 32 {
		return Config{}, fmt.Errorf("SESSION_SECRET must be at least 32 bytes")
	}
	return cfg, nil
}

// topicByEvent routes outbox event types onto the configured Kafka topics.
func (c Config) topicByEvent() map[string]string {
	return map[string]string{
		"timeline.service_created": c.KafkaTopicServices,
		"timeline.service_updated": c.KafkaTopicServices,
		"timeline.service_deleted": c.KafkaTopicServices,
		"timeline.event_created":   c.KafkaTopicEvents,
	}
}

func parseLevel(raw string, fallback slog.Level) slog.Level {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return fallback
	}
	return level
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	items := strings.Split(raw, ",")
	return trimNonEmpty(items)
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
