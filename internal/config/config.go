// Package config provides the configuration structure for voice-studio.
package config

import (
	"fmt"
	"time"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
)

// Defaults applied when the project.toml leaves a field unset.
const (
	DefaultTimeoutSeconds  = 120
	DefaultToastDurationMS = 5000
	DefaultPlayerCommand   = "ffplay"
)

// APIConfig holds the connection settings for the remote backend.
type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// TTSConfig holds the client-side conversion settings.
type TTSConfig struct {
	DefaultVoice string `toml:"default_voice"`
}

// NATSConfig holds the configuration for the shared audio archive. An empty
// URL disables archiving entirely.
type NATSConfig struct {
	URL                      string `toml:"url"`
	AudioObjectStoreBucket   string `toml:"audio_object_store_bucket"`
	AudioChunkCreatedSubject string `toml:"audio_chunk_created_subject"`
}

// PlayerConfig holds the configuration for local audio preview.
type PlayerConfig struct {
	Command string `toml:"command"`
}

// NotifyConfig holds the configuration for toast notifications.
type NotifyConfig struct {
	DefaultDurationMS int `toml:"default_duration_ms"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir"`
	OutputDir   string `toml:"output_dir"`
	HandoffDir  string `toml:"handoff_dir"`
}

// Config is the root configuration structure.
type Config struct {
	API    APIConfig    `toml:"api"`
	TTS    TTSConfig    `toml:"tts"`
	NATS   NATSConfig   `toml:"nats"`
	Player PlayerConfig `toml:"player"`
	Notify NotifyConfig `toml:"notify"`
	Paths  PathsConfig  `toml:"paths"`
}

// Load loads the configuration for voice-studio.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// Timeout returns the HTTP timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// ToastDuration returns the default toast lifetime as a duration.
func (c *Config) ToastDuration() time.Duration {
	return time.Duration(c.Notify.DefaultDurationMS) * time.Millisecond
}

// ArchiveEnabled reports whether the NATS audio archive is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.NATS.URL != ""
}

func (c *Config) applyDefaults() {
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = DefaultTimeoutSeconds
	}

	if c.Notify.DefaultDurationMS <= 0 {
		c.Notify.DefaultDurationMS = DefaultToastDurationMS
	}

	if c.Player.Command == "" {
		c.Player.Command = DefaultPlayerCommand
	}
}
