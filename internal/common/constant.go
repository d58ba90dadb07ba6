// Package common contains shared constants and sentinel errors used across
// eliteglam components.
package common

// AuthorizationHeaderName is the HTTP header (and gRPC metadata key) that
// carries the session token on authenticated requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the scheme prefix of an Authorization header value.
const BearerPrefix = "Bearer "

// Keys of the client-side persistent session storage.
const (
	UserTokenKey = "userToken"
	UserDataKey  = "userData"
)
