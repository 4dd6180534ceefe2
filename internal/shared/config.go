package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
	Store       StoreConfig       `toml:"store"`
	Cache       CacheConfig       `toml:"cache"`
	Retry       RetryConfig       `toml:"retry"`
	Preview     PreviewConfig     `toml:"preview"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// Map returns the credentials as a string map for service constructors.
func (s SpotifyConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     s.ClientID,
		"client_secret": s.ClientSecret,
		"redirect_uri":  s.RedirectURI,
	}
}

// ServerConfig contains settings for the local OAuth callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port address for the callback server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StoreConfig contains settings for the durable key-value store.
type StoreConfig struct {
	Path string `toml:"path"`
}

// CacheConfig contains per-operation-class cache TTLs in seconds.
//
// Volatile covers short-lived upstream state (playback devices), Search
// covers query results, Browse covers playlist and library listings, and
// Reference covers near-static data (genre seeds, markets).
type CacheConfig struct {
	VolatileSeconds  int `toml:"volatile_seconds"`
	SearchSeconds    int `toml:"search_seconds"`
	BrowseSeconds    int `toml:"browse_seconds"`
	ReferenceSeconds int `toml:"reference_seconds"`
}

func (c CacheConfig) Volatile() time.Duration  { return time.Duration(c.VolatileSeconds) * time.Second }
func (c CacheConfig) Search() time.Duration    { return time.Duration(c.SearchSeconds) * time.Second }
func (c CacheConfig) Browse() time.Duration    { return time.Duration(c.BrowseSeconds) * time.Second }
func (c CacheConfig) Reference() time.Duration { return time.Duration(c.ReferenceSeconds) * time.Second }

// RetryConfig contains backoff settings for upstream rate limiting.
type RetryConfig struct {
	MaxAttempts       int     `toml:"max_attempts"`
	BaseDelayMillis   int     `toml:"base_delay_ms"`
	MaxDelayMillis    int     `toml:"max_delay_ms"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

func (r RetryConfig) BaseDelay() time.Duration {
	return time.Duration(r.BaseDelayMillis) * time.Millisecond
}

func (r RetryConfig) MaxDelay() time.Duration {
	return time.Duration(r.MaxDelayMillis) * time.Millisecond
}

// PreviewConfig contains settings for the two-phase mutation protocol.
type PreviewConfig struct {
	ExpiryMinutes int `toml:"expiry_minutes"`
}

func (p PreviewConfig) Expiry() time.Duration {
	return time.Duration(p.ExpiryMinutes) * time.Minute
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
