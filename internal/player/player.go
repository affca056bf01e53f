// Package player provides the audio playback widget for voice-studio.
//
// The widget wraps a single playable resource at a time and exposes the
// classic transport surface: play, pause, stop, seek, volume. Actual audio
// output is delegated to a PlaybackBackend; the widget owns the derived
// state (loading, duration, current position, errors) and keeps it
// consistent across source switches.
package player

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/book-expert/voice-studio/internal/core"
)

// User-facing error messages, mirrored into the widget's error state.
const (
	msgLoadFailed = "Failed to load audio"
	msgPlayFailed = "Failed to play audio"
	msgNoSource   = "No audio loaded"
)

// DurationProber determines the length of a playable resource. The default
// prober understands local PCM WAV files.
type DurationProber func(src string) (time.Duration, error)

// State is a snapshot of the widget's derived state.
type State struct {
	Src         string
	IsPlaying   bool
	IsLoading   bool
	Duration    time.Duration
	CurrentTime time.Duration
	Volume      float64
	Err         string
}

// Player is the playback widget. All methods are safe for concurrent use.
type Player struct {
	mu       sync.Mutex
	backend  core.PlaybackBackend
	prober   DurationProber
	src      string
	duration time.Duration
	// position is the playhead at the last state change; while playing,
	// the elapsed wall time since startedAt is added on top.
	position  time.Duration
	startedAt time.Time
	isPlaying bool
	isLoading bool
	volume    float64
	errMsg    string
	cancel    context.CancelFunc
	// done is closed when the active playback goroutine finishes, so
	// callers can block until the audio actually ends.
	done chan struct{}
	// playParent is the caller's context for the active playback; a seek
	// restart reuses it so cancellation still reaches the backend.
	playParent context.Context
	// generation guards against a finished playback goroutine applying
	// its outcome to a newer source or seek position.
	generation int
}

// New creates a player over the given backend. A nil prober falls back to
// the WAV header prober.
func New(backend core.PlaybackBackend, prober DurationProber) *Player {
	if prober == nil {
		prober = ProbeWAVDuration
	}

	return &Player{
		mu:         sync.Mutex{},
		backend:    backend,
		prober:     prober,
		src:        "",
		duration:   0,
		position:   0,
		startedAt:  time.Time{},
		isPlaying:  false,
		isLoading:  false,
		volume:     1.0,
		errMsg:     "",
		cancel:     nil,
		done:       nil,
		playParent: nil,
		generation: 0,
	}
}

// Load switches the widget to a new source. Any current playback is torn
// down and all derived state is rebuilt from scratch; there is no
// cross-fade or gapless transition. A probe failure leaves the widget in
// its error state with a zero duration.
func (p *Player) Load(src string) {
	p.mu.Lock()

	p.teardownLocked()
	p.src = src
	p.isLoading = true
	p.errMsg = ""
	p.duration = 0
	p.position = 0

	prober := p.prober

	p.mu.Unlock()

	duration, err := prober(src)

	p.mu.Lock()
	defer p.mu.Unlock()

	// A concurrent Load may have switched the source again.
	if p.src != src {
		return
	}

	p.isLoading = false

	if err != nil {
		p.errMsg = msgLoadFailed

		return
	}

	p.duration = duration
}

// Play starts or resumes playback from the current position. A failure to
// start surfaces as the widget's error state, never as a raised error.
func (p *Player) Play(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.src == "" {
		p.errMsg = msgNoSource

		return
	}

	if p.isPlaying {
		return
	}

	p.startLocked(ctx)
}

// Pause halts playback and retains the current position.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isPlaying {
		return
	}

	p.position = p.currentTimeLocked()
	p.stopPlaybackLocked()
}

// Stop halts playback and resets the position to zero.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopPlaybackLocked()
	p.position = 0
}

// Seek moves the playhead, clamped to [0, duration]. When playback is
// running it restarts from the new offset.
func (p *Player) Seek(target time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.position = clampDuration(target, 0, p.duration)

	if p.isPlaying {
		p.stopPlaybackLocked()
		p.startLocked(p.playParent)
	}
}

// SetVolume sets the output volume, clamped to [0, 1].
func (p *Player) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case volume < 0:
		p.volume = 0
	case volume > 1:
		p.volume = 1
	default:
		p.volume = volume
	}
}

// Snapshot returns the widget's current derived state.
func (p *Player) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return State{
		Src:         p.src,
		IsPlaying:   p.isPlaying,
		IsLoading:   p.isLoading,
		Duration:    p.duration,
		CurrentTime: p.currentTimeLocked(),
		Volume:      p.volume,
		Err:         p.errMsg,
	}
}

// Done returns a channel that is closed when the playback active at the
// time of the call finishes, whether it ends naturally, fails, or is
// stopped. When nothing is playing the returned channel is already closed.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.isPlaying || p.done == nil {
		closed := make(chan struct{})
		close(closed)

		return closed
	}

	return p.done
}

// Close tears down any running playback.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.teardownLocked()
}

// startLocked launches the backend from the current position. Caller holds
// the lock.
func (p *Player) startLocked(ctx context.Context) {
	playCtx, cancel := context.WithCancel(ctx)

	p.cancel = cancel
	p.playParent = ctx
	p.isPlaying = true
	p.startedAt = time.Now()
	p.errMsg = ""
	p.generation++

	generation := p.generation
	src := p.src
	offset := p.position
	done := make(chan struct{})
	p.done = done

	go func() {
		defer close(done)

		err := p.backend.Start(playCtx, src, offset)

		p.mu.Lock()
		defer p.mu.Unlock()

		// A newer Load, Seek, or Stop owns the state now.
		if p.generation != generation {
			return
		}

		p.isPlaying = false

		if err != nil && !errors.Is(err, context.Canceled) {
			p.errMsg = msgPlayFailed

			return
		}

		// Natural end of playback rewinds to the start.
		p.position = 0
	}()
}

// stopPlaybackLocked cancels any running backend playback. Caller holds the
// lock.
func (p *Player) stopPlaybackLocked() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}

	p.backend.Stop()

	p.isPlaying = false
	p.generation++
}

// teardownLocked resets everything for a source switch. Caller holds the
// lock.
func (p *Player) teardownLocked() {
	p.stopPlaybackLocked()

	p.src = ""
	p.duration = 0
	p.position = 0
	p.isLoading = false
	p.errMsg = ""
}

// currentTimeLocked derives the playhead position. Caller holds the lock.
func (p *Player) currentTimeLocked() time.Duration {
	if !p.isPlaying {
		return p.position
	}

	elapsed := p.position + time.Since(p.startedAt)

	if p.duration > 0 {
		return clampDuration(elapsed, 0, p.duration)
	}

	return elapsed
}

func clampDuration(value, low, high time.Duration) time.Duration {
	if value < low {
		return low
	}

	if high > 0 && value > high {
		return high
	}

	return value
}
