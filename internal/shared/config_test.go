package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./amzx.db" {
			t.Errorf("expected database path ./amzx.db, got %s", config.Database.Path)
		}

		if config.Scan.Workers != 4 {
			t.Errorf("expected 4 scan workers, got %d", config.Scan.Workers)
		}

		if len(config.Scan.Extensions) != 1 || config.Scan.Extensions[0] != ".amz" {
			t.Errorf("expected extensions [.amz], got %v", config.Scan.Extensions)
		}

		if config.Export.Format != "text" {
			t.Errorf("expected export format text, got %s", config.Export.Format)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[database]
path = "/custom/catalog.db"

[scan]
workers = 8
extensions = ["AMZ", ".xamz"]

[export]
format = "m3u"

[log]
level = "debug"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/catalog.db" {
			t.Errorf("expected database path /custom/catalog.db, got %s", config.Database.Path)
		}

		if config.Database.MaxOpenConns != 1 {
			t.Errorf("expected unset max_open_conns to keep default 1, got %d", config.Database.MaxOpenConns)
		}

		if config.Scan.Workers != 8 {
			t.Errorf("expected 8 workers, got %d", config.Scan.Workers)
		}

		if config.Scan.Extensions[0] != ".amz" || config.Scan.Extensions[1] != ".xamz" {
			t.Errorf("expected normalized extensions, got %v", config.Scan.Extensions)
		}

		if config.Export.Format != "m3u" {
			t.Errorf("expected export format m3u, got %s", config.Export.Format)
		}
	})

	t.Run("LoadConfig rejects invalid values", func(t *testing.T) {
		tc := []struct {
			name string
			body string
		}{
			{name: "too many workers", body: "[scan]\nworkers = 64\n"},
			{name: "zero workers", body: "[scan]\nworkers = 0\n"},
			{name: "unknown format", body: "[export]\nformat = \"xml\"\n"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				configPath := filepath.Join(t.TempDir(), "config.toml")
				if err := os.WriteFile(configPath, []byte(tt.body), 0644); err != nil {
					t.Fatalf("failed to write test config: %v", err)
				}

				_, err := LoadConfig(configPath)
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
