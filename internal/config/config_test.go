package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeEnvFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DATABASE_URL", "DB_MAX_CONNS", "JWT_SECRET", "LOG_LEVEL", "LOG_FORMAT", "KAFKA_BROKERS", "KAFKA_TOPIC"} {
		t.Setenv(key, "")
	}
}

func TestLoadFileDefaults(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "DATABASE_URL=postgres://localhost/stock\nJWT_SECRET=secret\n")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.DBMaxConns != 20 {
		t.Errorf("DBMaxConns = %d, want 20", cfg.DBMaxConns)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Kafka.Enabled() {
		t.Errorf("kafka should be disabled without brokers")
	}
	if cfg.Kafka.Topic != "stock-events" {
		t.Errorf("Kafka.Topic = %q", cfg.Kafka.Topic)
	}
}

func TestLoadFileEnvironmentWins(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "PORT=9000\nDATABASE_URL=postgres://file/db\nJWT_SECRET=file\nKAFKA_BROKERS=a:9092\n")
	t.Setenv("PORT", "9100")
	t.Setenv("KAFKA_BROKERS", "b:9092, c:9092")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != 9100 {
		t.Errorf("Port = %d, want 9100", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://file/db" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "b:9092" || cfg.Kafka.Brokers[1] != "c:9092" {
		t.Errorf("Kafka.Brokers = %v", cfg.Kafka.Brokers)
	}
}

func TestLoadFileMissingFileUsesEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("JWT_SECRET", "env")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.DatabaseURL != "postgres://env/db" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad port", "DATABASE_URL=postgres://x\nJWT_SECRET=x\nPORT=abc\n"},
		{"negative port", "DATABASE_URL=postgres://x\nJWT_SECRET=x\nPORT=-1\n"},
		{"bad log level", "DATABASE_URL=postgres://x\nJWT_SECRET=x\nLOG_LEVEL=loud\n"},
		{"bad max conns", "DATABASE_URL=postgres://x\nJWT_SECRET=x\nDB_MAX_CONNS=0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if _, err := LoadFile(writeEnvFile(t, tt.body)); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestLoadFileWithoutSecrets(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile(writeEnvFile(t, "LOG_LEVEL=debug\n"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if err := cfg.RequireDatabase(); err == nil {
		t.Errorf("RequireDatabase: expected error without DATABASE_URL")
	}
	if err := cfg.RequireServer(); err == nil {
		t.Errorf("RequireServer: expected error without DATABASE_URL")
	}
}

func TestRequireServer(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		databaseOK bool
		serverOK   bool
	}{
		{"nothing", Config{}, false, false},
		{"database only", Config{DatabaseURL: "postgres://x"}, true, false},
		{"secret only", Config{JWTSecret: "x"}, false, false},
		{"both", Config{DatabaseURL: "postgres://x", JWTSecret: "x"}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.RequireDatabase(); (err == nil) != tt.databaseOK {
				t.Errorf("RequireDatabase() = %v, want ok=%v", err, tt.databaseOK)
			}
			if err := tt.cfg.RequireServer(); (err == nil) != tt.serverOK {
				t.Errorf("RequireServer() = %v, want ok=%v", err, tt.serverOK)
			}
		})
	}
}
