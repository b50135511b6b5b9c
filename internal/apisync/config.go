package apisync

import (
	"strings"

	"github.com/alexanderramin/st8/internal/config"
)

// AgentsPath is the roster resource on the server.
const AgentsPath = "/api/agents"

// Config holds the sync client settings.
type Config struct {
	// Endpoint is the server base URL; empty disables remote calls.
	Endpoint string
	// FallbackFile is read when the server cannot be reached.
	FallbackFile string
	TimeoutMs    int
	MaxRetries   int
}

// DefaultConfig returns the client defaults: no endpoint, a 5s timeout and
// one retry.
func DefaultConfig() Config {
	return Config{TimeoutMs: 5000, MaxRetries: 1}
}

// FromConfig maps the sync section of the application config.
func FromConfig(cfg config.SyncConfig) Config {
	out := DefaultConfig()
	out.Endpoint = strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	out.FallbackFile = cfg.FallbackFile
	if cfg.TimeoutMs > 0 {
		out.TimeoutMs = cfg.TimeoutMs
	}
	if cfg.MaxRetries >= 0 {
		out.MaxRetries = cfg.MaxRetries
	}
	return out
}
