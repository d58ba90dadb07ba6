package config

import "time"

// Config holds runtime settings for the eliteglam CLI.
//
// Fields:
//   - APIBaseURL: root URL of the REST API.
//   - SessionDBPath: sqlite file holding the stored session.
//   - RequestTimeout: per-request timeout of the API client.
type Config struct {
	APIBaseURL     string
	SessionDBPath  string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:3001"
	c.SessionDBPath = "session.db"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
