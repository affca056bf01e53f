package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/book-expert/logger"

	"github.com/book-expert/voice-studio/internal/core"
	"github.com/book-expert/voice-studio/internal/fileutil"
	"github.com/book-expert/voice-studio/internal/player"
	"github.com/book-expert/voice-studio/internal/store"
)

const (
	previewFilePattern  = "preview-%s.wav"
	previewPermissions  = 0o600
	logFmtPreviewCached = "Cached preview audio for block %s at %s"
)

// ErrNoAudio indicates a preview was requested for a block without
// completed audio.
var ErrNoAudio = errors.New("block has no audio to play")

// Previewer downloads a completed block's audio into the local cache and
// drives the playback widget with it.
type Previewer struct {
	store    *store.Store
	backend  Backend
	player   *player.Player
	cacheDir string
	log      *logger.Logger
}

// NewPreviewer creates a previewer. An empty cacheDir falls back to the
// application cache directory.
func NewPreviewer(
	session *store.Store,
	backend Backend,
	playback *player.Player,
	cacheDir string,
	log *logger.Logger,
) (*Previewer, error) {
	if cacheDir == "" {
		cacheDir = fileutil.DefaultCacheDir()
	}

	err := fileutil.EnsureDir(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare preview cache: %w", err)
	}

	return &Previewer{
		store:    session,
		backend:  backend,
		player:   playback,
		cacheDir: cacheDir,
		log:      log,
	}, nil
}

// Play fetches a completed block's audio and starts playback. The audio is
// cached on disk so a repeated preview of the same block skips the
// download.
func (p *Previewer) Play(ctx context.Context, blockID string) error {
	block, found := p.store.Block(blockID)
	if !found {
		return ErrBlockNotFound
	}

	if block.Status != core.StatusCompleted || block.AudioURL == "" {
		return ErrNoAudio
	}

	path, err := p.ensureCached(ctx, block)
	if err != nil {
		return err
	}

	p.player.Load(path)
	p.player.Play(ctx)

	return nil
}

// Player exposes the underlying playback widget for transport control.
func (p *Previewer) Player() *player.Player {
	return p.player
}

// ensureCached downloads the block's audio unless a cached copy exists.
func (p *Previewer) ensureCached(ctx context.Context, block core.TextBlock) (string, error) {
	fileName := fileutil.SanitizeFilename(fmt.Sprintf(previewFilePattern, block.ID))
	path := filepath.Join(p.cacheDir, fileName)

	_, statErr := os.Stat(path)
	if statErr == nil {
		return path, nil
	}

	data, err := p.backend.FetchAudio(ctx, block.AudioURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch audio for block '%s': %w", block.ID, err)
	}

	err = os.WriteFile(path, data, previewPermissions)
	if err != nil {
		return "", fmt.Errorf("failed to cache audio for block '%s': %w", block.ID, err)
	}

	p.log.Info(logFmtPreviewCached, block.ID, path)

	return path, nil
}
