package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.DataFile != "./data/expenses.csv" {
		t.Errorf("expected default data file, got %q", cfg.DataFile)
	}
	if cfg.Backend != "none" {
		t.Errorf("expected default backend 'none', got %q", cfg.Backend)
	}
	if cfg.LenientRemove {
		t.Errorf("strict removal must be the default")
	}
	if cfg.CategoryColumn {
		t.Errorf("legacy CSV format must be the default")
	}
	if cfg.ExportBatchSize != 10 {
		t.Errorf("expected default batch size 10, got %d", cfg.ExportBatchSize)
	}
	if cfg.ExportInterval != 30*time.Second {
		t.Errorf("expected default interval 30s, got %v", cfg.ExportInterval)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATA_FILE", "/tmp/ledger.csv")
	t.Setenv("LENIENT_REMOVE", "true")
	t.Setenv("ARCHIVE_BACKEND", "sqlite")
	t.Setenv("EXPORT_BATCH_SIZE", "25")
	t.Setenv("EXPORT_INTERVAL", "2m")

	cfg := Load()
	if cfg.DataFile != "/tmp/ledger.csv" || !cfg.LenientRemove || cfg.Backend != "sqlite" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.ExportBatchSize != 25 || cfg.ExportInterval != 2*time.Minute {
		t.Fatalf("worker overrides not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DataFile:        "./data/expenses.csv",
			Backend:         "none",
			ExportBatchSize: 10,
			ExportInterval:  30 * time.Second,
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty data file", func(c *Config) { c.DataFile = "" }, "data file"},
		{"unknown backend", func(c *Config) { c.Backend = "mongo" }, "invalid archive backend"},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://localhost" }, "AMQP URL scheme"},
		{"missing queue", func(c *Config) { c.AMQPURL = "amqp://localhost"; c.AMQPQueue = "" }, "queue name"},
		{"batch too small", func(c *Config) { c.ExportBatchSize = 0 }, "batch size"},
		{"batch too large", func(c *Config) { c.ExportBatchSize = 5000 }, "batch size"},
		{"interval too short", func(c *Config) { c.ExportInterval = time.Millisecond }, "export interval"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			cfg.AMQPExchange = "fintrack"
			cfg.AMQPQueue = "record_events"
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}
