package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains provider-specific credentials.
type CredentialsConfig struct {
	Jamendo      JamendoConfig      `toml:"jamendo"`
	ListenBrainz ListenBrainzConfig `toml:"listenbrainz"`
	SetlistFM    SetlistFMConfig    `toml:"setlistfm"`
	MusicBrainz  MusicBrainzConfig  `toml:"musicbrainz"`
}

// JamendoConfig contains the Jamendo API client id.
type JamendoConfig struct {
	ClientID string `toml:"client_id"`
}

// ListenBrainzConfig contains the ListenBrainz user token and default username.
type ListenBrainzConfig struct {
	Token    string `toml:"token"`
	Username string `toml:"username"`
}

// SetlistFMConfig contains the Setlist.fm API key.
type SetlistFMConfig struct {
	APIKey string `toml:"api_key"`
}

// MusicBrainzConfig contains the User-Agent sent to MusicBrainz.
// MusicBrainz requires one identifying the application.
type MusicBrainzConfig struct {
	UserAgent string `toml:"user_agent"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Environment variables override file values so deployments can inject
// credentials without a config file on disk.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with defaults loaded from the embedded
// example config, overridden by environment variables.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, ErrInvalidInput)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("JAMENDO_CLIENT_ID"); v != "" {
		c.Credentials.Jamendo.ClientID = v
	}
	if v := os.Getenv("LISTENBRAINZ_TOKEN"); v != "" {
		c.Credentials.ListenBrainz.Token = v
	}
	if v := os.Getenv("LISTENBRAINZ_USERNAME"); v != "" {
		c.Credentials.ListenBrainz.Username = v
	}
	if v := os.Getenv("SETLIST_FM_API_KEY"); v != "" {
		c.Credentials.SetlistFM.APIKey = v
	}
	if v := os.Getenv("MELODEX_USER_AGENT"); v != "" {
		c.Credentials.MusicBrainz.UserAgent = v
	}
}
