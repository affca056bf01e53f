// Package convert drives the text-block conversion lifecycle.
//
// A block moves pending -> loading -> completed or error; an error block
// may re-enter loading on retry. Conversion failures are never fatal: they
// are recorded on the affected blocks and reported through the notifier,
// and the session stays usable.
package convert

import (
	"context"
	"errors"

	"github.com/book-expert/logger"

	"github.com/book-expert/voice-studio/internal/api"
	"github.com/book-expert/voice-studio/internal/core"
	"github.com/book-expert/voice-studio/internal/store"
)

// Static errors.
var (
	// ErrBlockNotFound indicates a conversion was requested for an
	// unknown block id.
	ErrBlockNotFound = errors.New("text block not found")
	// ErrNothingToConvert indicates a batch conversion found no pending
	// or error blocks; no network call is made in that case.
	ErrNothingToConvert = errors.New("no blocks pending conversion")
)

// Fallback and toast messages.
const (
	msgConversionFailed   = "Conversion failed"
	msgResultMissing      = "No result returned for this block"
	toastSingleDone       = "Conversion complete"
	toastSingleDoneDetail = "Your text has been converted to speech"
	toastSingleFailed     = "Conversion failed"
	toastBatchDone        = "All conversions complete"
	toastBatchFailed      = "Batch conversion failed"
)

// Log format strings.
const (
	logFmtSingleConverted = "Converted block %s with voice %s"
	logFmtSingleFailed    = "Conversion failed for block %s: %s"
	logFmtBatchConverted  = "Batch converted %d blocks"
	logFmtBatchFailed     = "Batch conversion of %d blocks failed: %s"
)

// SpeechAPI is the slice of the backend client the converter needs.
type SpeechAPI interface {
	ConvertTextToSpeech(ctx context.Context, text, voiceID string) api.Response[core.TTSResult]
	ConvertMultipleTexts(ctx context.Context, requests []core.TTSRequestItem) api.Response[[]core.BatchTTSResult]
}

// Notifier is the slice of the toast queue the converter needs.
type Notifier interface {
	Success(title, description string) core.Toast
	Error(title, description string) core.Toast
}

// Converter orchestrates single and batch conversions against the session
// store.
type Converter struct {
	store    *store.Store
	speech   SpeechAPI
	notifier Notifier
	log      *logger.Logger
}

// New creates a converter over the given store, backend client, and
// notifier.
func New(session *store.Store, speech SpeechAPI, notifier Notifier, log *logger.Logger) *Converter {
	return &Converter{
		store:    session,
		speech:   speech,
		notifier: notifier,
		log:      log,
	}
}

// ConvertSingle converts one block. The block flips to loading before the
// request is issued; exactly one network call is made, with no retry. A
// conversion failure is recorded on the block and toasted, not returned.
// Only an unknown block id yields an error.
func (c *Converter) ConvertSingle(ctx context.Context, blockID string) error {
	block, found := c.store.Block(blockID)
	if !found {
		return ErrBlockNotFound
	}

	c.store.UpdateBlock(block.ID, store.MarkLoading())

	resp := c.speech.ConvertTextToSpeech(ctx, block.Content, block.Voice)
	if !resp.Success {
		message := errorMessage(resp.Error)

		c.store.UpdateBlock(block.ID, store.MarkFailed(message))
		c.notifier.Error(toastSingleFailed, message)
		c.log.Error(logFmtSingleFailed, block.ID, message)

		return nil
	}

	c.store.UpdateBlock(block.ID, store.MarkCompleted(resp.Data.AudioURL))
	c.notifier.Success(toastSingleDone, toastSingleDoneDetail)
	c.log.Info(logFmtSingleConverted, block.ID, block.Voice)

	return nil
}

// ConvertAll converts every block whose status is pending or error. Blocks
// that are loading or completed are excluded, so a batch started while some
// blocks are already in flight will not duplicate their work.
//
// All selected blocks flip to loading before the batch request is issued.
// On success the index-aligned results are zipped back onto the selection
// by position. On failure every participant is marked with the same error:
// the batch has no partial-success representation. When nothing is
// eligible, ErrNothingToConvert is returned and no network call happens.
func (c *Converter) ConvertAll(ctx context.Context) (int, error) {
	selected := c.selectEligible()
	if len(selected) == 0 {
		return 0, ErrNothingToConvert
	}

	requests := make([]core.TTSRequestItem, len(selected))

	for index, block := range selected {
		c.store.UpdateBlock(block.ID, store.MarkLoading())

		requests[index] = core.TTSRequestItem{
			Text:    block.Content,
			VoiceID: block.Voice,
		}
	}

	resp := c.speech.ConvertMultipleTexts(ctx, requests)
	if !resp.Success {
		message := errorMessage(resp.Error)

		for _, block := range selected {
			c.store.UpdateBlock(block.ID, store.MarkFailed(message))
		}

		c.notifier.Error(toastBatchFailed, message)
		c.log.Error(logFmtBatchFailed, len(selected), message)

		return 0, nil
	}

	converted := c.applyBatchResults(selected, resp.Data)

	c.notifier.Success(toastBatchDone, "")
	c.log.Info(logFmtBatchConverted, converted)

	return converted, nil
}

// selectEligible snapshots the blocks a batch conversion should carry, in
// display order.
func (c *Converter) selectEligible() []core.TextBlock {
	var selected []core.TextBlock

	for _, block := range c.store.Blocks() {
		if block.Status == core.StatusPending || block.Status == core.StatusError {
			selected = append(selected, block)
		}
	}

	return selected
}

// applyBatchResults zips an ordered result array back onto the ordered
// selection: result i belongs to selection element i. A selection entry
// without a corresponding result is marked as failed rather than left
// loading forever.
func (c *Converter) applyBatchResults(
	selected []core.TextBlock,
	results []core.BatchTTSResult,
) int {
	converted := 0

	for index, block := range selected {
		if index >= len(results) {
			c.store.UpdateBlock(block.ID, store.MarkFailed(msgResultMissing))

			continue
		}

		c.store.UpdateBlock(block.ID, store.MarkCompleted(results[index].AudioURL))

		converted++
	}

	return converted
}

// errorMessage falls back to a generic message when the envelope carries
// none.
func errorMessage(message string) string {
	if message == "" {
		return msgConversionFailed
	}

	return message
}
