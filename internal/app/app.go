// Package app implements the user-facing flows of voice-studio: script
// generation, text management, voice management, audio preview, and
// archiving. Each flow validates its input locally before any network
// traffic, reports its outcome through the toast notifier, and keeps the
// session store consistent.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/book-expert/logger"

	"github.com/book-expert/voice-studio/internal/api"
	"github.com/book-expert/voice-studio/internal/core"
	"github.com/book-expert/voice-studio/internal/fileutil"
	"github.com/book-expert/voice-studio/internal/handoff"
	"github.com/book-expert/voice-studio/internal/store"
)

// MinIdeaLength is the shortest idea accepted for script generation.
const MinIdeaLength = 10

// Static errors.
var (
	// ErrInvalidYouTubeURL indicates the given URL is not a recognized
	// YouTube video link.
	ErrInvalidYouTubeURL = errors.New("not a valid YouTube video URL")
	// ErrIdeaTooShort indicates the idea text is below MinIdeaLength after
	// trimming.
	ErrIdeaTooShort = errors.New("idea is too short")
	// ErrEmptyText indicates an attempt to add a blank text block.
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrNoValidFiles indicates a file upload where every offered file was
	// rejected locally.
	ErrNoValidFiles = errors.New("no valid text files to upload")
	// ErrBlockNotFound indicates an operation on an unknown block id.
	ErrBlockNotFound = errors.New("text block not found")
	// ErrUnknownVoice indicates an operation on a voice id the session does
	// not know.
	ErrUnknownVoice = errors.New("voice not found")
	// ErrBuiltinVoice indicates a deletion attempt on a built-in voice.
	ErrBuiltinVoice = errors.New("built-in voices cannot be removed")
	// ErrEmptyVoiceName indicates a clone request without a name.
	ErrEmptyVoiceName = errors.New("voice name cannot be empty")
	// ErrBackendRejected indicates the backend reported a failure envelope.
	ErrBackendRejected = errors.New("backend rejected the request")
)

// Toast messages.
const (
	toastScriptReady        = "Script generated"
	toastScriptReadyDetail  = "Your video script is ready for review"
	toastScriptFailed       = "Script generation failed"
	toastScriptSent         = "Script sent to TTS"
	toastScriptSentDetail   = "Open the conversion page to continue"
	toastUploadFailed       = "Upload failed"
	toastUploadRejected     = "File rejected"
	toastUploadDone         = "Files uploaded"
	toastUploadDoneFmt      = "%d text block(s) added"
	toastCloneFailed        = "Voice cloning failed"
	toastCloneDone          = "Voice cloned"
	toastCloneDoneFmt       = "Voice '%s' is ready to use"
	toastVoiceRemoved       = "Voice removed"
	toastVoiceRemoveFailed  = "Failed to remove voice"
	msgBackendFailureNoText = "An error occurred"
)

// Log format strings.
const (
	logFmtScriptGenerated = "Generated script '%s' from %s"
	logFmtScriptFailed    = "Script generation from %s failed: %s"
	logFmtUploadAccepted  = "Upload accepted %d of %d files"
	logFmtVoiceCloned     = "Cloned voice %s (%s)"
	logFmtVoiceRemoved    = "Removed voice %s"
	logFmtHandoffImported = "Imported handed-off script into block %s"
)

// Backend is the slice of the API client the flows need.
type Backend interface {
	GenerateScriptFromYouTube(ctx context.Context, url string) api.Response[core.Script]
	GenerateScriptFromIdea(ctx context.Context, idea string) api.Response[core.Script]
	ListVoices(ctx context.Context) api.Response[[]core.Voice]
	DeleteVoice(ctx context.Context, voiceID string) api.Response[struct{}]
	CloneVoice(ctx context.Context, req core.VoiceCloneRequest) api.Response[core.Voice]
	UploadTextFiles(ctx context.Context, paths []string) api.Response[[]core.UploadedText]
	FetchAudio(ctx context.Context, audioURL string) ([]byte, error)
}

// Notifier is the slice of the toast queue the flows need.
type Notifier interface {
	Success(title, description string) core.Toast
	Error(title, description string) core.Toast
	Info(title, description string) core.Toast
}

// App wires the user-facing flows over the session store, the backend
// client, and the handoff mailbox.
type App struct {
	store    *store.Store
	backend  Backend
	notifier Notifier
	mailbox  *handoff.Mailbox
	log      *logger.Logger
}

// New creates the flow layer.
func New(
	session *store.Store,
	backend Backend,
	notifier Notifier,
	mailbox *handoff.Mailbox,
	log *logger.Logger,
) *App {
	return &App{
		store:    session,
		backend:  backend,
		notifier: notifier,
		mailbox:  mailbox,
		log:      log,
	}
}

// GenerateFromYouTube builds a video script from a YouTube URL. The URL is
// validated locally before any request is made.
func (a *App) GenerateFromYouTube(ctx context.Context, rawURL string) (core.Script, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !IsYouTubeURL(rawURL) {
		return core.Script{}, ErrInvalidYouTubeURL
	}

	resp := a.backend.GenerateScriptFromYouTube(ctx, rawURL)

	return a.finishScript(resp, rawURL)
}

// GenerateFromIdea builds a video script from a free-text idea. Ideas
// shorter than MinIdeaLength after trimming are rejected locally.
func (a *App) GenerateFromIdea(ctx context.Context, idea string) (core.Script, error) {
	idea = strings.TrimSpace(idea)
	if len(idea) < MinIdeaLength {
		return core.Script{}, fmt.Errorf("%w: need at least %d characters", ErrIdeaTooShort, MinIdeaLength)
	}

	resp := a.backend.GenerateScriptFromIdea(ctx, idea)

	return a.finishScript(resp, "idea")
}

// finishScript folds a script-generation envelope into the flow outcome.
func (a *App) finishScript(resp api.Response[core.Script], source string) (core.Script, error) {
	if !resp.Success {
		message := backendMessage(resp.Error)

		a.notifier.Error(toastScriptFailed, message)
		a.log.Error(logFmtScriptFailed, source, message)

		return core.Script{}, fmt.Errorf("%w: %s", ErrBackendRejected, message)
	}

	a.notifier.Success(toastScriptReady, toastScriptReadyDetail)
	a.log.Info(logFmtScriptGenerated, resp.Data.Title, source)

	return resp.Data, nil
}

// SendToTTS hands a generated script off to the conversion flow through the
// single-use mailbox.
func (a *App) SendToTTS(content string) error {
	err := a.mailbox.Put(content)
	if err != nil {
		return fmt.Errorf("failed to hand off script: %w", err)
	}

	a.notifier.Info(toastScriptSent, toastScriptSentDetail)

	return nil
}

// ImportHandoff consumes a previously handed-off script, if any, and turns
// it into a new pending text block. The mailbox is cleared in the same step,
// so a second import finds nothing.
func (a *App) ImportHandoff() (core.TextBlock, bool, error) {
	content, found, err := a.mailbox.Take()
	if err != nil {
		return core.TextBlock{}, false, fmt.Errorf("failed to read handed-off script: %w", err)
	}

	if !found {
		return core.TextBlock{}, false, nil
	}

	block := a.store.AddBlock(content, "")
	a.log.Info(logFmtHandoffImported, block.ID)

	return block, true, nil
}

// AddText appends a new pending block with the given content.
func (a *App) AddText(content string) (core.TextBlock, error) {
	if strings.TrimSpace(content) == "" {
		return core.TextBlock{}, ErrEmptyText
	}

	return a.store.AddBlock(content, ""), nil
}

// RemoveBlock deletes a block from the session. No-op when absent.
func (a *App) RemoveBlock(blockID string) {
	a.store.RemoveBlock(blockID)
}

// SetBlockVoice assigns a voice to a block. Both the block and the voice
// must exist in the session.
func (a *App) SetBlockVoice(blockID, voiceID string) error {
	_, known := a.store.VoiceName(voiceID)
	if !known {
		return fmt.Errorf("%w: %s", ErrUnknownVoice, voiceID)
	}

	if !a.store.UpdateBlock(blockID, store.SetVoice(voiceID)) {
		return ErrBlockNotFound
	}

	return nil
}

// UploadFiles offers local text files to the backend for extraction. Files
// failing the local type check are rejected with a toast and never leave
// the machine; every accepted file becomes one pending block. Returns the
// number of blocks added.
func (a *App) UploadFiles(ctx context.Context, paths []string) (int, error) {
	valid := a.filterUploadable(paths)
	if len(valid) == 0 {
		return 0, ErrNoValidFiles
	}

	resp := a.backend.UploadTextFiles(ctx, valid)
	if !resp.Success {
		message := backendMessage(resp.Error)

		a.notifier.Error(toastUploadFailed, message)

		return 0, fmt.Errorf("%w: %s", ErrBackendRejected, message)
	}

	for _, uploaded := range resp.Data {
		a.store.AddBlock(uploaded.Content, uploaded.FileName)
	}

	a.notifier.Success(toastUploadDone, fmt.Sprintf(toastUploadDoneFmt, len(resp.Data)))
	a.log.Info(logFmtUploadAccepted, len(resp.Data), len(paths))

	return len(resp.Data), nil
}

// filterUploadable drops the files that fail local validation, toasting
// each rejection.
func (a *App) filterUploadable(paths []string) []string {
	var valid []string

	for _, path := range paths {
		err := fileutil.ValidateTextUpload(path)
		if err != nil {
			a.notifier.Error(toastUploadRejected, err.Error())

			continue
		}

		valid = append(valid, path)
	}

	return valid
}

// CloneVoice creates a new voice from a local audio sample. The name and the
// sample are validated locally; an oversized or non-audio file is rejected
// before any upload. On success the new voice joins the session registry.
func (a *App) CloneVoice(ctx context.Context, req core.VoiceCloneRequest) (core.Voice, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return core.Voice{}, ErrEmptyVoiceName
	}

	err := fileutil.ValidateCloneAudio(req.AudioPath)
	if err != nil {
		a.notifier.Error(toastCloneFailed, err.Error())

		return core.Voice{}, fmt.Errorf("invalid clone sample: %w", err)
	}

	resp := a.backend.CloneVoice(ctx, req)
	if !resp.Success {
		message := backendMessage(resp.Error)

		a.notifier.Error(toastCloneFailed, message)

		return core.Voice{}, fmt.Errorf("%w: %s", ErrBackendRejected, message)
	}

	a.store.AddVoice(resp.Data)
	a.notifier.Success(toastCloneDone, fmt.Sprintf(toastCloneDoneFmt, resp.Data.Name))
	a.log.Info(logFmtVoiceCloned, resp.Data.ID, resp.Data.Name)

	return resp.Data, nil
}

// RemoveVoice deletes a cloned voice on the backend and in the session.
// Built-in voices cannot be removed. When the removed voice was the default
// for new blocks, the default falls back to the built-in default; blocks
// already referencing the removed voice keep their dangling id.
func (a *App) RemoveVoice(ctx context.Context, voiceID string) error {
	voice, found := a.findVoice(voiceID)
	if !found {
		return fmt.Errorf("%w: %s", ErrUnknownVoice, voiceID)
	}

	if !voice.IsCustom {
		return ErrBuiltinVoice
	}

	resp := a.backend.DeleteVoice(ctx, voiceID)
	if !resp.Success {
		message := backendMessage(resp.Error)

		a.notifier.Error(toastVoiceRemoveFailed, message)

		return fmt.Errorf("%w: %s", ErrBackendRejected, message)
	}

	a.store.RemoveVoice(voiceID)

	if a.store.DefaultVoice() == voiceID {
		a.store.SetDefaultVoice(core.DefaultVoiceID)
	}

	a.notifier.Success(toastVoiceRemoved, voice.Name)
	a.log.Info(logFmtVoiceRemoved, voiceID)

	return nil
}

// RefreshVoices merges the backend's voice list into the session registry.
// Voices already known keep their position; new ones are appended.
func (a *App) RefreshVoices(ctx context.Context) error {
	resp := a.backend.ListVoices(ctx)
	if !resp.Success {
		return fmt.Errorf("%w: %s", ErrBackendRejected, backendMessage(resp.Error))
	}

	for _, voice := range resp.Data {
		a.store.AddVoice(voice)
	}

	return nil
}

// findVoice looks a voice up in the session registry.
func (a *App) findVoice(voiceID string) (core.Voice, bool) {
	for _, voice := range a.store.Voices() {
		if voice.ID == voiceID {
			return voice, true
		}
	}

	return core.Voice{}, false
}

// backendMessage falls back to the generic message when the envelope
// carries none.
func backendMessage(message string) string {
	if message == "" {
		return msgBackendFailureNoText
	}

	return message
}
