// Package config loads runtime configuration for the eliteglam CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://localhost:3001",
//	  "session_db_path": "session.db",
//	  "request_timeout": "10s"
//	}
package config
