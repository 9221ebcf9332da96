package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
// A Path ending in "/" matches as a prefix. Burst defaults to Limit when zero.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// LoadConfig reads RATE_LIMIT_* variables. Unset or unparsable values fall back
// to the defaults.
func LoadConfig() *Config {
	if !envOr("RATE_LIMIT_ENABLED", true, strconv.ParseBool) {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    envOr("RATE_LIMIT_DEFAULT_LIMIT", 600, strconv.Atoi),
		DefaultWindow:   envOr("RATE_LIMIT_DEFAULT_WINDOW", time.Minute, time.ParseDuration),
		CleanupInterval: envOr("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute, time.ParseDuration),
		BucketTTL:       envOr("RATE_LIMIT_BUCKET_TTL", time.Hour, time.ParseDuration),
		Whitelist:       parseIPList(envOr("RATE_LIMIT_WHITELIST", "", identity)),
		Blacklist:       parseIPList(envOr("RATE_LIMIT_BLACKLIST", "", identity)),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Session creation allocates server state.
		{Path: "/sessions", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},

		// Bulk writes
		{Path: "/profile/import", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/applications/import", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/applications", Method: "DELETE", Limit: 30, Window: time.Minute, Burst: 5},

		// Script rendering
		{Path: "/script", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},

		// Single-record writes
		{Path: "/applications", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/applications/", Method: "PATCH", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/profile", Method: "PUT", Limit: 120, Window: time.Minute, Burst: 20},

		// Reads fall through to the default limit; /health and the event stream are unlimited.
	}
}

func identity(s string) (string, error) { return s, nil }

// envOr parses the named variable with parse, falling back to def when it is
// unset or malformed.
func envOr[T any](key string, def T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

// parseIPList turns "a, b,,c" into a set.
func parseIPList(list string) map[string]bool {
	set := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			set[ip] = true
		}
	}
	return set
}
