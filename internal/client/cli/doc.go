// Package cli provides the interactive eliteglam command-line client.
//
// It wires configuration, the local session database, the API client and a
// REPL. Typical flow: login (the token is stored in the session database and
// survives restarts), browse products, book and manage appointments, logout.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
