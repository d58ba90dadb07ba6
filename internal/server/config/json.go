package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/eliteglam/internal/flagx"
	"github.com/dmitrijs2005/eliteglam/internal/timex"
	"golang.org/x/time/rate"
)

// JsonConfig is the on-disk shape of the server configuration. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted.
//
// Only fields present in the file override the current Config; pointers keep
// "absent" distinguishable from zero values.
type JsonConfig struct {
	EndpointAddrHTTP      *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC      *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN           *string         `json:"database_dsn"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	ProjectID             *string         `json:"project_id"`
	IssuerBase            *string         `json:"issuer_base"`
	AllowDegradedTrust    *bool           `json:"allow_degraded_trust"`
	AuthRateLimit         *float64        `json:"auth_rate_limit"`
	AuthRateBurst         *int            `json:"auth_rate_burst"`
	RequestTimeout        *timex.Duration `json:"request_timeout"`
	LogLevel              *string         `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flag, or by ELITEGLAM_CONFIG in the process environment (.env is
// read later and cannot set it). Nothing happens when neither is given. An
// unreadable or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag("ELITEGLAM_CONFIG")
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setIf(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIf(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.ProjectID, c.ProjectID)
	setIf(&config.IssuerBase, c.IssuerBase)
	setIf(&config.AllowDegradedTrust, c.AllowDegradedTrust)
	setIf(&config.AuthRateBurst, c.AuthRateBurst)
	setIf(&config.LogLevel, c.LogLevel)

	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.RequestTimeout != nil {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.AuthRateLimit != nil {
		config.AuthRateLimit = rate.Limit(*c.AuthRateLimit)
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
