package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/book-expert/events"
	"github.com/book-expert/logger"
	"github.com/google/uuid"

	"github.com/book-expert/voice-studio/internal/core"
)

const audioKeySuffix = ".wav"

// Static errors.
var (
	// ErrBlockNotCompleted indicates an archive attempt for a block that
	// has no synthesized audio yet.
	ErrBlockNotCompleted = errors.New("block has no completed audio")
	// ErrEmptyAudio indicates an archive attempt with no audio data.
	ErrEmptyAudio = errors.New("audio data cannot be empty")
)

// Log format strings.
const (
	logFmtArchived      = "Archived audio for block %s as %s (%d bytes)"
	logFmtPublishFailed = "Failed to announce archived audio %s: %v"
)

// Publisher announces archived audio to the rest of the pipeline. A
// *nats.Conn satisfies it.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Library archives conversion output into the shared object store.
type Library struct {
	store     core.ObjectStore
	publisher Publisher
	subject   string
	log       *logger.Logger
}

// New creates a library over the given store. publisher may be nil, in
// which case archived audio is stored without an announcement.
func New(store core.ObjectStore, publisher Publisher, subject string, log *logger.Logger) *Library {
	return &Library{
		store:     store,
		publisher: publisher,
		subject:   subject,
		log:       log,
	}
}

// Archive uploads a completed block's audio under a fresh key and announces
// it. position and total describe the block's place in the session, so
// downstream consumers can order the chunks.
func (l *Library) Archive(
	ctx context.Context,
	block core.TextBlock,
	audio []byte,
	position, total int,
) (string, error) {
	if block.Status != core.StatusCompleted || block.AudioURL == "" {
		return "", ErrBlockNotCompleted
	}

	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}

	audioKey := uuid.NewString() + audioKeySuffix

	err := l.store.Upload(ctx, audioKey, audio)
	if err != nil {
		return "", fmt.Errorf("failed to archive audio for block '%s': %w", block.ID, err)
	}

	l.log.Info(logFmtArchived, block.ID, audioKey, len(audio))

	err = l.announce(block, audioKey, position, total)
	if err != nil {
		l.log.Warn(logFmtPublishFailed, audioKey, err)

		return audioKey, err
	}

	return audioKey, nil
}

// Fetch retrieves previously archived audio.
func (l *Library) Fetch(ctx context.Context, key string) ([]byte, error) {
	data, err := l.store.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch archived audio '%s': %w", key, err)
	}

	return data, nil
}

// announce publishes an AudioChunkCreatedEvent for the archived audio.
func (l *Library) announce(block core.TextBlock, audioKey string, position, total int) error {
	if l.publisher == nil || l.subject == "" {
		return nil
	}

	event := events.AudioChunkCreatedEvent{
		Header: events.EventHeader{
			Timestamp:  time.Now().UTC(),
			WorkflowID: block.ID,
			UserID:     "",
			TenantID:   "",
			EventID:    uuid.NewString(),
		},
		AudioKey:   audioKey,
		PageNumber: position,
		TotalPages: total,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audio event: %w", err)
	}

	err = l.publisher.Publish(l.subject, data)
	if err != nil {
		return fmt.Errorf("failed to publish audio event: %w", err)
	}

	return nil
}
