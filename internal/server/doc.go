// Package server provides the local HTTP plumbing for the OAuth login
// flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] receives the authorization-code redirect. It validates
// the state parameter (CSRF protection), hands the code to the
// credential manager for the token exchange, and reports completion
// through a channel. It only processes one callback to prevent replay
// attacks.
//
// # Usage
//
// When the user runs `spotify-mcp auth login`, a temporary HTTP server
// starts on the configured host/port, handles the callback, and shuts
// down after the credential record is stored.
package server
