package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config carries everything the orchestrator needs at process start. The
// backend URL and credential are loaded once and treated as opaque.
type Config struct {
	// Backend email/calendar service.
	BackendBaseURL string
	BackendToken   string
	// BackendTimeout bounds every backend call; a stalled call blocks the
	// whole conversational turn, so this stays at a few seconds.
	BackendTimeout time.Duration

	// Audio/conversation pipeline websocket endpoint.
	PipelineURL string

	// Timezone label attached to calendar timestamps. Fixed per deployment,
	// not user-selectable mid-call.
	Timezone string

	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	MaxSessionDuration time.Duration
}

// LoadFromEnv builds a Config from ASSISTANT_* environment variables and
// validates it. Registry or configuration problems abort before a session
// starts; nothing here is recoverable mid-call.
func LoadFromEnv() (Config, error) {
	cfg := Config{
		BackendBaseURL:     strings.TrimSpace(os.Getenv("ASSISTANT_BACKEND_URL")),
		BackendToken:       strings.TrimSpace(os.Getenv("ASSISTANT_BACKEND_TOKEN")),
		BackendTimeout:     envDurationOr("ASSISTANT_BACKEND_TIMEOUT", 3*time.Second),
		PipelineURL:        strings.TrimSpace(os.Getenv("ASSISTANT_PIPELINE_URL")),
		Timezone:           envOr("ASSISTANT_TIMEZONE", "Asia/Kuala_Lumpur"),
		ReadTimeout:        envDurationOr("ASSISTANT_READ_TIMEOUT", 0),
		WriteTimeout:       envDurationOr("ASSISTANT_WRITE_TIMEOUT", 5*time.Second),
		MaxSessionDuration: envDurationOr("ASSISTANT_MAX_SESSION_DURATION", 2*time.Hour),
	}

	if cfg.BackendBaseURL == "" {
		return Config{}, fmt.Errorf("ASSISTANT_BACKEND_URL must be set")
	}
	if _, err := url.ParseRequestURI(cfg.BackendBaseURL); err != nil {
		return Config{}, fmt.Errorf("ASSISTANT_BACKEND_URL is not a valid URL: %w", err)
	}
	if cfg.BackendToken == "" {
		return Config{}, fmt.Errorf("ASSISTANT_BACKEND_TOKEN must be set")
	}
	if cfg.PipelineURL == "" {
		return Config{}, fmt.Errorf("ASSISTANT_PIPELINE_URL must be set")
	}
	if cfg.BackendTimeout <= 0 {
		return Config{}, fmt.Errorf("ASSISTANT_BACKEND_TIMEOUT must be > 0")
	}
	if cfg.BackendTimeout > 10*time.Second {
		return Config{}, fmt.Errorf("ASSISTANT_BACKEND_TIMEOUT must be <= 10s to keep turn latency bounded")
	}
	if cfg.ReadTimeout < 0 {
		return Config{}, fmt.Errorf("ASSISTANT_READ_TIMEOUT must be >= 0")
	}
	if cfg.WriteTimeout <= 0 {
		return Config{}, fmt.Errorf("ASSISTANT_WRITE_TIMEOUT must be > 0")
	}
	if cfg.MaxSessionDuration <= 0 {
		return Config{}, fmt.Errorf("ASSISTANT_MAX_SESSION_DURATION must be > 0")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return Config{}, fmt.Errorf("ASSISTANT_TIMEZONE %q is not a valid IANA zone: %w", cfg.Timezone, err)
	}

	return cfg, nil
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envDurationOr(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
