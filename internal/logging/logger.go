// Package logging defines the structured-logging interface shared by the
// eliteglam server and client, plus helpers for attributes that must never
// carry secrets.
package logging

import (
	"context"
	"log/slog"
)

// Logger is a context-aware, structured logger. Args are key-value pairs:
//
//	log.Info(ctx, "login succeeded", "uid", uid)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}

// Token describes a bearer token by its length only.
func Token(token string) slog.Attr {
	return slog.Int("token_len", len(token))
}
