package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/eliteglam/internal/flagx"
	"github.com/dmitrijs2005/eliteglam/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// leave the current value untouched.
type JsonConfig struct {
	APIBaseURL     *string         `json:"api_base_url"`
	SessionDBPath  *string         `json:"session_db_path"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with values from the file named by -c, -config or
// ELITEGLAM_CLI_CONFIG. Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag("ELITEGLAM_CLI_CONFIG")
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.SessionDBPath != nil {
		cfg.SessionDBPath = *jc.SessionDBPath
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
