package core

import (
	"context"
	"time"
)

// ObjectStore defines the interface for interacting with a key-value blob
// store. The audio library uses it to archive synthesized audio.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte) error
}

// PlaybackBackend starts and stops actual audio output for the player
// widget. Start blocks until playback finishes, fails, or the context is
// cancelled; offset is the position to resume from.
type PlaybackBackend interface {
	Start(ctx context.Context, src string, offset time.Duration) error
	Stop()
}
