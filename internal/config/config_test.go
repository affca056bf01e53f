// Package config_test tests the configuration loading for voice-studio.
package config_test

import (
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/voice-studio/internal/config"
)

func TestUnmarshalConfig(t *testing.T) {
	t.Parallel()

	tomlData := `
[api]
base_url = "https://api.example.com/v1"
api_key = "test-key"
timeout_seconds = 60

[tts]
default_voice = "default-en-female"

[nats]
url = "nats://127.0.0.1:4222"
audio_object_store_bucket = "STUDIO_AUDIO"
audio_chunk_created_subject = "audio.chunk.created"

[player]
command = "ffplay"

[notify]
default_duration_ms = 3000

[paths]
base_logs_dir = "/var/log/voice-studio"
output_dir = "/tmp/voice-studio/out"
handoff_dir = "/tmp/voice-studio/handoff"
`

	var cfg config.Config

	err := toml.Unmarshal([]byte(tomlData), &cfg)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/v1", cfg.API.BaseURL)
	assert.Equal(t, "test-key", cfg.API.APIKey)
	assert.Equal(t, 60, cfg.API.TimeoutSeconds)
	assert.Equal(t, "default-en-female", cfg.TTS.DefaultVoice)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NATS.URL)
	assert.Equal(t, "STUDIO_AUDIO", cfg.NATS.AudioObjectStoreBucket)
	assert.Equal(t, "audio.chunk.created", cfg.NATS.AudioChunkCreatedSubject)
	assert.Equal(t, "ffplay", cfg.Player.Command)
	assert.Equal(t, 3000, cfg.Notify.DefaultDurationMS)
	assert.Equal(t, "/var/log/voice-studio", cfg.Paths.BaseLogsDir)
	assert.Equal(t, "/tmp/voice-studio/out", cfg.Paths.OutputDir)
	assert.Equal(t, "/tmp/voice-studio/handoff", cfg.Paths.HandoffDir)
	assert.True(t, cfg.ArchiveEnabled())
	assert.Equal(t, 60*time.Second, cfg.Timeout())
	assert.Equal(t, 3*time.Second, cfg.ToastDuration())
}

func TestArchiveDisabledWithoutNATSURL(t *testing.T) {
	t.Parallel()

	var cfg config.Config

	assert.False(t, cfg.ArchiveEnabled())
}
