package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Ledger.Store != StorePostgres {
		t.Errorf("store = %q, want %q", cfg.Ledger.Store, StorePostgres)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("shutdown timeout = %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Kafka.Enabled || cfg.Redis.Enabled || cfg.Archive.Enabled {
		t.Error("optional integrations should default to disabled")
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
database:
  host: db.internal
ledger:
  store: memory
  timezone: UTC
auth:
  operators:
    alice: hash-a
`)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_HOST", "override-host")
	t.Setenv("LEDGER_OPERATORS", "bob:hash-b")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Database.Host != "override-host" {
		t.Errorf("DB_HOST not applied: %q", cfg.Database.Host)
	}
	if cfg.Ledger.Store != StoreMemory {
		t.Errorf("store = %q", cfg.Ledger.Store)
	}
	if cfg.Auth.Operators["alice"] != "hash-a" || cfg.Auth.Operators["bob"] != "hash-b" {
		t.Errorf("operators = %v", cfg.Auth.Operators)
	}
	if !cfg.Kafka.Enabled || len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("kafka = %+v", cfg.Kafka)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		secret string
	}{
		{"missing secret", "ledger:\n  store: memory\n", ""},
		{"unknown store", "ledger:\n  store: sqlite\n", "x"},
		{"archive without bucket", "archive:\n  enabled: true\n", "x"},
		{"bad timezone", "ledger:\n  timezone: Mars/Base\n", "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			if _, err := LoadFile(writeConfig(t, tt.body)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestDSN(t *testing.T) {
	var cfg Config
	cfg.Database.User = "u"
	cfg.Database.Password = "p"
	cfg.Database.Host = "h"
	cfg.Database.Port = 5433
	cfg.Database.Name = "n"
	if got, want := cfg.DSN(), "postgres://u:p@h:5433/n"; got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}
