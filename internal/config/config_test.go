package config

import (
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvHost, EnvPort, EnvDatabase, EnvUser, EnvPassword, EnvSSLMode, EnvMaxBatch, EnvTimeout} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error: %v", err)
	}

	if cfg.Host != "localhost" {
		t.Errorf("Host = %q, want localhost", cfg.Host)
	}
	if cfg.Port != 5432 {
		t.Errorf("Port = %d, want 5432", cfg.Port)
	}
	if cfg.Database != "postgres" {
		t.Errorf("Database = %q, want postgres", cfg.Database)
	}
	if cfg.User != "postgres" {
		t.Errorf("User = %q, want postgres", cfg.User)
	}
	if cfg.Password != "" {
		t.Errorf("Password = %q, want empty", cfg.Password)
	}
	if cfg.MaxBatchSize != 1000 {
		t.Errorf("MaxBatchSize = %d, want 1000", cfg.MaxBatchSize)
	}
	if cfg.Timeout != 30 {
		t.Errorf("Timeout = %d, want 30", cfg.Timeout)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvHost, "db.internal")
	t.Setenv(EnvPort, "6543")
	t.Setenv(EnvDatabase, "warehouse")
	t.Setenv(EnvUser, "loader")
	t.Setenv(EnvPassword, "hunter2")
	t.Setenv(EnvMaxBatch, "250")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error: %v", err)
	}

	if cfg.Host != "db.internal" || cfg.Port != 6543 || cfg.Database != "warehouse" {
		t.Errorf("connection fields not taken from environment: %+v", cfg)
	}
	if cfg.User != "loader" || cfg.Password != "hunter2" {
		t.Errorf("credentials not taken from environment: %+v", cfg.Sanitized())
	}
	if cfg.MaxBatchSize != 250 {
		t.Errorf("MaxBatchSize = %d, want 250", cfg.MaxBatchSize)
	}
}

func TestFromEnvBadInteger(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPort, "not-a-port")

	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error for non-integer DB_PORT")
	}
}

func TestLoadBytes(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		cfg, err := LoadBytes([]byte(`
host: db.example.com
port: 5433
database: analytics
user: etl
password: secret
max_batch_size: 500
`))
		if err != nil {
			t.Fatalf("LoadBytes() error: %v", err)
		}
		if cfg.Host != "db.example.com" || cfg.Port != 5433 {
			t.Errorf("unexpected connection fields: %+v", cfg)
		}
		if cfg.MaxBatchSize != 500 {
			t.Errorf("MaxBatchSize = %d, want 500", cfg.MaxBatchSize)
		}
		if cfg.Timeout != 30 {
			t.Errorf("Timeout default not applied: %d", cfg.Timeout)
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		cfg, err := LoadBytes([]byte(`host: somewhere`))
		if err != nil {
			t.Fatalf("LoadBytes() error: %v", err)
		}
		if cfg.Port != 5432 || cfg.Database != "postgres" || cfg.User != "postgres" {
			t.Errorf("defaults not applied: %+v", cfg)
		}
	})

	t.Run("environment expansion", func(t *testing.T) {
		t.Setenv("TEST_PGBULK_PASSWORD", "from-env")
		cfg, err := LoadBytes([]byte("host: h\npassword: ${TEST_PGBULK_PASSWORD}\n"))
		if err != nil {
			t.Fatalf("LoadBytes() error: %v", err)
		}
		if cfg.Password != "from-env" {
			t.Errorf("Password = %q, want from-env", cfg.Password)
		}
	})

	t.Run("invalid port rejected", func(t *testing.T) {
		if _, err := LoadBytes([]byte("host: h\nport: 99999\n")); err == nil {
			t.Fatal("expected error for out-of-range port")
		}
	})

	t.Run("malformed yaml rejected", func(t *testing.T) {
		if _, err := LoadBytes([]byte("host: [unclosed")); err == nil {
			t.Fatal("expected error for malformed YAML")
		}
	})
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		Host:     "localhost",
		Port:     5432,
		Database: "postgres",
		User:     "user@corp",
		Password: "p@ss:word",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	if !strings.HasPrefix(dsn, "postgres://") {
		t.Errorf("DSN should be a postgres URL: %s", dsn)
	}
	if !strings.Contains(dsn, "user%40corp") {
		t.Errorf("user not escaped in DSN: %s", dsn)
	}
	if !strings.Contains(dsn, "p%40ss%3Aword") {
		t.Errorf("password not escaped in DSN: %s", dsn)
	}
	if !strings.Contains(dsn, "sslmode=disable") {
		t.Errorf("sslmode missing from DSN: %s", dsn)
	}
}

func TestSanitized(t *testing.T) {
	cfg := &Config{Host: "h", Password: "secret"}
	clean := cfg.Sanitized()
	if clean.Password != "[REDACTED]" {
		t.Errorf("Sanitized password = %q", clean.Password)
	}
	if cfg.Password != "secret" {
		t.Error("Sanitized must not mutate the original")
	}
}
