// Package client talks to the eliteglam REST API.
//
// # Overview
//
// APIClient wraps an http.Client whose transport is a session.Transport, so
// every request carries the stored token and a 401 answer forgets it. Login
// persists the returned credential; Logout clears it.
//
// Local persistence bootstrap (InitDatabase, RunMigrations) opens the sqlite
// session database and applies the embedded goose migrations.
//
// # Error Handling
//
// Non-2xx answers are returned as *APIError. It matches the common sentinels
// with errors.Is: ErrValidation (400), ErrorUnauthorized (401),
// ErrorNotFound (404), ErrConflict (409). Transport failures match
// ErrUnavailable.
package client
