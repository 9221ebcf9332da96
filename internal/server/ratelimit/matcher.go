package ratelimit

import (
	"strings"
)

// unlimitedEndpoints are never rate limited. The event stream is one
// long-lived request per connection.
var unlimitedEndpoints = []EndpointConfig{
	{Path: "/health", Method: "GET"},
	{Path: "/session/events", Method: "GET"},
}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// Exact paths win over prefixes; a prefix ends with "/" and matches any deeper path.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	for _, u := range unlimitedEndpoints {
		if u.Path == path && u.Method == method {
			return &EndpointConfig{Path: path, Method: method}
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}
