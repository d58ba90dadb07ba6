package config

import (
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// parseEnv overlays ELITEGLAM_* environment variables onto config. A .env
// file in the working directory is loaded first when present; variables
// already set in the process environment win over the file.
//
// Unset variables leave the current value untouched. Malformed values panic,
// matching how the JSON and flag loaders treat bad input.
func parseEnv(config *Config) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}

	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
