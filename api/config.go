// Package api provides the HTTP API server for driving review sessions.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":1200")
	ListenAddr string
}
