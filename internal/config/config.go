package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort            = "8080"
	defaultEventSink       = "log"
	defaultRedisChannel    = "marketai.events"
	defaultKafkaTopic      = "marketai.events"
	defaultEventBuffer     = 1024
	defaultSweepInterval   = time.Minute
	defaultShutdownTimeout = 10 * time.Second
)

// Event sinks understood by EVENT_SINK
const (
	SinkLog   = "log"
	SinkRedis = "redis"
	SinkKafka = "kafka"
)

// Config holds process level settings read from the environment
type Config struct {
	Port            string
	DatabaseURL     string // empty selects the in-memory store
	LogLevel        string
	PolicyFile      string // empty selects the embedded default policy
	EventSink       string
	RedisURL        string
	RedisChannel    string
	KafkaBrokers    []string
	KafkaTopic      string
	EventBuffer     int
	SweepInterval   time.Duration // zero disables the in-process sweeper
	ShutdownTimeout time.Duration
}

// Load reads an optional .env file and then the environment. Variables already set in
// the environment take precedence over the file.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load env file: %w", err)
	}

	cfg := Config{
		Port:         getEnv("PORT", defaultPort),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		PolicyFile:   os.Getenv("POLICY_FILE"),
		EventSink:    strings.ToLower(getEnv("EVENT_SINK", defaultEventSink)),
		RedisURL:     os.Getenv("REDIS_URL"),
		RedisChannel: getEnv("REDIS_CHANNEL", defaultRedisChannel),
		KafkaBrokers: parseCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", defaultKafkaTopic),
	}

	var err error
	if cfg.EventBuffer, err = getInt("EVENT_BUFFER", defaultEventBuffer); err != nil {
		return Config{}, err
	}
	if cfg.SweepInterval, err = getDuration("SWEEP_INTERVAL", defaultSweepInterval); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		return Config{}, err
	}

	switch cfg.EventSink {
	case SinkLog:
	case SinkRedis:
		if cfg.RedisURL == "" {
			return Config{}, errors.New("config: EVENT_SINK=redis requires REDIS_URL")
		}
	case SinkKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return Config{}, errors.New("config: EVENT_SINK=kafka requires KAFKA_BROKERS")
		}
	default:
		return Config{}, fmt.Errorf("config: unknown EVENT_SINK %q", cfg.EventSink)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("config: %s must be a positive integer, got %q", key, raw)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("config: %s must be a non-negative duration, got %q", key, raw)
	}
	return v, nil
}

func parseCSV(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
