package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Store.Path != "spotify-mcp.db" {
			t.Errorf("expected store path spotify-mcp.db, got %s", config.Store.Path)
		}

		if config.Server.Addr() != "127.0.0.1:8080" {
			t.Errorf("expected callback server at 127.0.0.1:8080, got %s", config.Server.Addr())
		}

		if config.Credentials.Spotify.RedirectURI != "http://127.0.0.1:8080/callback" {
			t.Errorf("unexpected redirect URI %s", config.Credentials.Spotify.RedirectURI)
		}

		if config.Cache.Browse() != time.Hour {
			t.Errorf("expected browse TTL 1h, got %v", config.Cache.Browse())
		}
		if config.Cache.Reference() != 24*time.Hour {
			t.Errorf("expected reference TTL 24h, got %v", config.Cache.Reference())
		}

		if config.Retry.MaxAttempts != 4 {
			t.Errorf("expected 4 retry attempts, got %d", config.Retry.MaxAttempts)
		}
		if config.Retry.MaxDelay() != time.Minute {
			t.Errorf("expected max retry delay 1m, got %v", config.Retry.MaxDelay())
		}

		if config.Preview.Expiry() != 10*time.Minute {
			t.Errorf("expected preview expiry 10m, got %v", config.Preview.Expiry())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

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

		defaultConfig := DefaultConfig()
		if config.Store.Path != defaultConfig.Store.Path {
			t.Errorf("created config store path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:3000/callback"

[server]
host = "0.0.0.0"
port = 9090

[store]
path = "/custom/path.db"

[cache]
volatile_seconds = 5
search_seconds = 60

[retry]
max_attempts = 2
base_delay_ms = 250
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Store.Path != "/custom/path.db" {
			t.Errorf("expected store path /custom/path.db, got %s", config.Store.Path)
		}
		if config.Server.Port != 9090 {
			t.Errorf("expected server port 9090, got %d", config.Server.Port)
		}
		if config.Credentials.Spotify.ClientID != "test_client_id" {
			t.Errorf("expected spotify client_id test_client_id, got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Cache.Volatile() != 5*time.Second {
			t.Errorf("expected volatile TTL 5s, got %v", config.Cache.Volatile())
		}
		if config.Retry.BaseDelay() != 250*time.Millisecond {
			t.Errorf("expected base delay 250ms, got %v", config.Retry.BaseDelay())
		}

		creds := config.Credentials.Spotify.Map()
		if creds["redirect_uri"] != "http://localhost:3000/callback" {
			t.Errorf("unexpected redirect_uri in credentials map: %s", creds["redirect_uri"])
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
