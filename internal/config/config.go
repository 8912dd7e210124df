package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        int
	DatabaseURL string
	DBMaxConns  int32
	JWTSecret   string
	Log         LogConfig
	Kafka       KafkaConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether stock events should be published at all.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// Load reads .env from the working directory when present and then the
// process environment, which takes precedence.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile parses and range-checks settings but does not insist on any of
// them. Callers state what they need with RequireDatabase or RequireServer.
func LoadFile(envPath string) (Config, error) {
	values := map[string]string{}
	if envPath != "" {
		fileValues, err := godotenv.Read(envPath)
		switch {
		case err == nil:
			values = fileValues
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read %s: %w", envPath, err)
		}
	}
	lookup := func(key string) string {
		return firstNonEmpty(os.Getenv(key), values[key])
	}

	cfg := Config{
		Port:       8080,
		DBMaxConns: 20,
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Kafka: KafkaConfig{
			Topic: "stock-events",
		},
	}

	if portRaw := lookup("PORT"); portRaw != "" {
		port, err := strconv.Atoi(portRaw)
		if err != nil || port <= 0 {
			return Config{}, fmt.Errorf("invalid PORT: %q", portRaw)
		}
		cfg.Port = port
	}

	cfg.DatabaseURL = lookup("DATABASE_URL")

	if raw := lookup("DB_MAX_CONNS"); raw != "" {
		maxConns, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || maxConns <= 0 {
			return Config{}, fmt.Errorf("invalid DB_MAX_CONNS: %q", raw)
		}
		cfg.DBMaxConns = int32(maxConns)
	}

	cfg.JWTSecret = lookup("JWT_SECRET")

	if level := lookup("LOG_LEVEL"); level != "" {
		switch strings.ToLower(level) {
		case "debug", "info", "warn", "error":
			cfg.Log.Level = strings.ToLower(level)
		default:
			return Config{}, fmt.Errorf("invalid LOG_LEVEL: %q", level)
		}
	}
	if format := lookup("LOG_FORMAT"); format != "" {
		cfg.Log.Format = strings.ToLower(format)
	}

	if brokers := lookup("KAFKA_BROKERS"); brokers != "" {
		for _, broker := range strings.Split(brokers, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.Kafka.Brokers = append(cfg.Kafka.Brokers, broker)
			}
		}
	}
	if topic := lookup("KAFKA_TOPIC"); topic != "" {
		cfg.Kafka.Topic = topic
	}

	return cfg, nil
}

// RequireDatabase fails when no DATABASE_URL was configured.
func (c Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required (environment variable or .env)")
	}
	return nil
}

// RequireServer checks everything the HTTP server needs to start.
func (c Config) RequireServer() error {
	if err := c.RequireDatabase(); err != nil {
		return err
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required (environment variable or .env)")
	}
	return nil
}

func firstNonEmpty(candidates ...string) string {
	for _, candidate := range candidates {
		if value := strings.TrimSpace(candidate); value != "" {
			return value
		}
	}
	return ""
}
