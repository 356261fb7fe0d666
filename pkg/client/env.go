package client

import (
	"os"
	"strings"
	"time"
)

const (
	DeployedBaseURL = "https://app.agroskills.com.br"
	LocalBaseURL    = "http://localhost:8080"
)

// Config carries what the client needs to reach the API.
type Config struct {
	BaseURL string
	Env     string
	Timeout time.Duration
	// KeyringService names the OS keyring entry used for persistent tokens.
	KeyringService string
}

// ConfigFromEnv reads AGRO_ENV, AGRO_API_URL and AGRO_HTTP_TIMEOUT.
func ConfigFromEnv() Config {
	env := strings.TrimSpace(os.Getenv("AGRO_ENV"))
	timeout := 30 * time.Second
	if v := os.Getenv("AGRO_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			timeout = d
		}
	}
	return Config{
		BaseURL:        ResolveBaseURL(env, os.Getenv("AGRO_API_URL")),
		Env:            env,
		Timeout:        timeout,
		KeyringService: "agroskills",
	}
}

// ResolveBaseURL picks the API host. An explicit URL always wins; otherwise
// development environments talk to a local server and everything else to
// the deployed host. The returned URL never carries the /api prefix.
func ResolveBaseURL(env, override string) string {
	if u := strings.TrimSpace(override); u != "" {
		u = strings.TrimRight(u, "/")
		return strings.TrimSuffix(u, "/api")
	}
	if IsLocalEnv(env) {
		return LocalBaseURL
	}
	return DeployedBaseURL
}

// IsLocalEnv reports whether env names a development setup.
func IsLocalEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "development", "dev", "local", "test":
		return true
	}
	return false
}
