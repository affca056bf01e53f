package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/book-expert/logger"

	"github.com/book-expert/voice-studio/internal/core"
	"github.com/book-expert/voice-studio/internal/library"
	"github.com/book-expert/voice-studio/internal/store"
)

// Static errors.
var (
	// ErrArchiveDisabled indicates archiving was requested without a
	// configured audio archive.
	ErrArchiveDisabled = errors.New("audio archive is not configured")
	// ErrNothingToArchive indicates no completed blocks were available.
	ErrNothingToArchive = errors.New("no completed blocks to archive")
)

// Log format strings.
const (
	logFmtArchiveSkipped = "Skipped archiving block %s: %v"
	logFmtArchiveDone    = "Archived %d of %d completed blocks"
)

// Toast messages.
const (
	toastArchiveDone    = "Audio archived"
	toastArchiveDoneFmt = "%d audio file(s) stored in the archive"
)

// Archiver pushes the session's completed audio into the shared archive.
type Archiver struct {
	store    *store.Store
	backend  Backend
	library  *library.Library
	notifier Notifier
	log      *logger.Logger
}

// NewArchiver creates an archiver. lib may be nil when archiving is
// disabled; ArchiveCompleted then reports ErrArchiveDisabled.
func NewArchiver(
	session *store.Store,
	backend Backend,
	lib *library.Library,
	notifier Notifier,
	log *logger.Logger,
) *Archiver {
	return &Archiver{
		store:    session,
		backend:  backend,
		library:  lib,
		notifier: notifier,
		log:      log,
	}
}

// ArchiveCompleted fetches and archives the audio of every completed block,
// in display order. A failing block is logged and skipped; the rest of the
// batch continues. Returns the number of blocks archived.
func (ar *Archiver) ArchiveCompleted(ctx context.Context) (int, error) {
	if ar.library == nil {
		return 0, ErrArchiveDisabled
	}

	completed := ar.selectCompleted()
	if len(completed) == 0 {
		return 0, ErrNothingToArchive
	}

	archived := 0

	for index, block := range completed {
		err := ar.archiveOne(ctx, block, index+1, len(completed))
		if err != nil {
			ar.log.Warn(logFmtArchiveSkipped, block.ID, err)

			continue
		}

		archived++
	}

	if archived > 0 {
		ar.notifier.Success(toastArchiveDone, fmt.Sprintf(toastArchiveDoneFmt, archived))
	}

	ar.log.Info(logFmtArchiveDone, archived, len(completed))

	return archived, nil
}

// archiveOne fetches one block's audio and stores it.
func (ar *Archiver) archiveOne(
	ctx context.Context,
	block core.TextBlock,
	position, total int,
) error {
	data, err := ar.backend.FetchAudio(ctx, block.AudioURL)
	if err != nil {
		return err
	}

	_, err = ar.library.Archive(ctx, block, data, position, total)

	return err
}

// selectCompleted snapshots the completed blocks in display order.
func (ar *Archiver) selectCompleted() []core.TextBlock {
	var completed []core.TextBlock

	for _, block := range ar.store.Blocks() {
		if block.Status == core.StatusCompleted && block.AudioURL != "" {
			completed = append(completed, block)
		}
	}

	return completed
}
