package player

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"sync"
	"time"
)

// Known player binaries that accept a start offset.
const (
	playerFFplay = "ffplay"
	playerMPV    = "mpv"
)

// ExecBackend plays audio by running an external player binary. It
// implements core.PlaybackBackend; Start blocks until the process exits or
// the context is cancelled.
type ExecBackend struct {
	mu      sync.Mutex
	command string
	cancel  context.CancelFunc
}

// NewExecBackend creates a backend around the given player command (e.g.,
// "ffplay").
func NewExecBackend(command string) *ExecBackend {
	return &ExecBackend{
		mu:      sync.Mutex{},
		command: command,
		cancel:  nil,
	}
}

// Start runs the player process against src, resuming at offset when the
// binary supports it.
func (b *ExecBackend) Start(ctx context.Context, src string, offset time.Duration) error {
	runCtx, cancel := context.WithCancel(ctx)

	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()

	defer cancel()

	args := b.buildArgs(src, offset)

	// #nosec G204 -- the command comes from the local configuration file
	// and the source from the session's own audio references.
	cmd := exec.CommandContext(runCtx, b.command, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		if runCtx.Err() != nil {
			return runCtx.Err()
		}

		return fmt.Errorf(
			"player %s failed: %w - output: %s",
			b.command,
			err,
			string(output),
		)
	}

	return nil
}

// Stop cancels a running player process, if any.
func (b *ExecBackend) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

// buildArgs assembles command-line arguments for the configured binary.
func (b *ExecBackend) buildArgs(src string, offset time.Duration) []string {
	seconds := strconv.FormatFloat(offset.Seconds(), 'f', 3, 64)

	switch b.command {
	case playerFFplay:
		args := []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}
		if offset > 0 {
			args = append(args, "-ss", seconds)
		}

		return append(args, src)
	case playerMPV:
		args := []string{"--no-video", "--really-quiet"}
		if offset > 0 {
			args = append(args, "--start="+seconds)
		}

		return append(args, src)
	default:
		return []string{src}
	}
}
