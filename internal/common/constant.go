// Package common contains shared constants, sentinel errors and small helpers
// used across RecipeBox components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the authorization scheme expected in AuthorizationHeaderName.
const BearerScheme = "Bearer"

// RequestIDHeaderName is echoed on every response and propagated into logs.
const RequestIDHeaderName = "X-Request-Id"
