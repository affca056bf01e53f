package convert_test

import (
	"context"
	"testing"

	"github.com/book-expert/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/voice-studio/internal/api"
	"github.com/book-expert/voice-studio/internal/convert"
	"github.com/book-expert/voice-studio/internal/core"
	"github.com/book-expert/voice-studio/internal/store"
)

// mockSpeechAPI records calls and plays back configured envelopes.
type mockSpeechAPI struct {
	singleCalls    int
	batchCalls     int
	batchRequests  []core.TTSRequestItem
	singleResponse api.Response[core.TTSResult]
	batchResponse  api.Response[[]core.BatchTTSResult]
}

func (m *mockSpeechAPI) ConvertTextToSpeech(
	_ context.Context,
	_, _ string,
) api.Response[core.TTSResult] {
	m.singleCalls++

	return m.singleResponse
}

func (m *mockSpeechAPI) ConvertMultipleTexts(
	_ context.Context,
	requests []core.TTSRequestItem,
) api.Response[[]core.BatchTTSResult] {
	m.batchCalls++
	m.batchRequests = requests

	return m.batchResponse
}

// mockNotifier records toast titles by variant.
type mockNotifier struct {
	successes []string
	errors    []string
}

func (m *mockNotifier) Success(title, _ string) core.Toast {
	m.successes = append(m.successes, title)

	return core.Toast{}
}

func (m *mockNotifier) Error(title, _ string) core.Toast {
	m.errors = append(m.errors, title)

	return core.Toast{}
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.New(t.TempDir(), "convert_test.log")
	require.NoError(t, err)

	t.Cleanup(func() { _ = log.Close() })

	return log
}

func successEnvelope(audioURL string) api.Response[core.TTSResult] {
	return api.Response[core.TTSResult]{
		Success: true,
		Data:    core.TTSResult{AudioURL: audioURL},
		Error:   "",
		Message: "",
	}
}

func failureEnvelope(message string) api.Response[core.TTSResult] {
	return api.Response[core.TTSResult]{
		Success: false,
		Data:    core.TTSResult{AudioURL: ""},
		Error:   message,
		Message: "",
	}
}

func TestConvertSingle_Success(t *testing.T) {
	t.Parallel()

	session := store.New()
	block := session.AddBlock("hello", "")

	speech := &mockSpeechAPI{
		singleResponse: successEnvelope("https://cdn.example.com/a.wav"),
	}
	notifier := &mockNotifier{}
	converter := convert.New(session, speech, notifier, newTestLogger(t))

	err := converter.ConvertSingle(context.Background(), block.ID)
	require.NoError(t, err)

	updated, _ := session.Block(block.ID)
	assert.Equal(t, core.StatusCompleted, updated.Status)
	assert.Equal(t, "https://cdn.example.com/a.wav", updated.AudioURL)
	assert.Empty(t, updated.Error)
	assert.Equal(t, 1, speech.singleCalls, "exactly one network call per invocation")
	assert.Len(t, notifier.successes, 1)
}

func TestConvertSingle_Failure(t *testing.T) {
	t.Parallel()

	session := store.New()
	block := session.AddBlock("hello", "")

	speech := &mockSpeechAPI{
		singleResponse: failureEnvelope("voice unavailable"),
	}
	notifier := &mockNotifier{}
	converter := convert.New(session, speech, notifier, newTestLogger(t))

	err := converter.ConvertSingle(context.Background(), block.ID)
	require.NoError(t, err, "a conversion failure is reported, not returned")

	updated, _ := session.Block(block.ID)
	assert.Equal(t, core.StatusError, updated.Status)
	assert.Equal(t, "voice unavailable", updated.Error)
	assert.Empty(t, updated.AudioURL)
	assert.Len(t, notifier.errors, 1)
	assert.Equal(t, 1, speech.singleCalls, "no internal retry")
}

func TestConvertSingle_UnknownBlock(t *testing.T) {
	t.Parallel()

	session := store.New()
	speech := &mockSpeechAPI{}
	converter := convert.New(session, speech, &mockNotifier{}, newTestLogger(t))

	err := converter.ConvertSingle(context.Background(), "no-such-id")
	require.ErrorIs(t, err, convert.ErrBlockNotFound)
	assert.Zero(t, speech.singleCalls)
}

func TestConvertAll_NoEligibleBlocks(t *testing.T) {
	t.Parallel()

	session := store.New()
	block := session.AddBlock("done already", "")
	session.UpdateBlock(block.ID, store.MarkCompleted("https://cdn.example.com/a.wav"))

	speech := &mockSpeechAPI{}
	converter := convert.New(session, speech, &mockNotifier{}, newTestLogger(t))

	converted, err := converter.ConvertAll(context.Background())
	require.ErrorIs(t, err, convert.ErrNothingToConvert)
	assert.Zero(t, converted)
	assert.Zero(t, speech.batchCalls, "empty selection must not issue a network call")

	unchanged, _ := session.Block(block.ID)
	assert.Equal(t, core.StatusCompleted, unchanged.Status)
}

func TestConvertAll_SelectsPendingAndErrorOnly(t *testing.T) {
	t.Parallel()

	session := store.New()
	pendingBlock := session.AddBlock("first", "")
	completedBlock := session.AddBlock("second", "")
	errorBlock := session.AddBlock("third", "")

	session.UpdateBlock(completedBlock.ID, store.MarkCompleted("https://cdn.example.com/done.wav"))
	session.UpdateBlock(errorBlock.ID, store.MarkFailed("previous failure"))

	speech := &mockSpeechAPI{
		batchResponse: api.Response[[]core.BatchTTSResult]{
			Success: true,
			Data: []core.BatchTTSResult{
				{AudioURL: "https://cdn.example.com/one.wav", Index: 0},
				{AudioURL: "https://cdn.example.com/two.wav", Index: 1},
			},
			Error:   "",
			Message: "",
		},
	}
	notifier := &mockNotifier{}
	converter := convert.New(session, speech, notifier, newTestLogger(t))

	converted, err := converter.ConvertAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, converted)
	assert.Equal(t, 1, speech.batchCalls, "one batch request for the whole selection")

	// The selection carries exactly the first and third block, in display
	// order, and the response zips back by position.
	require.Len(t, speech.batchRequests, 2)
	assert.Equal(t, "first", speech.batchRequests[0].Text)
	assert.Equal(t, "third", speech.batchRequests[1].Text)

	first, _ := session.Block(pendingBlock.ID)
	assert.Equal(t, core.StatusCompleted, first.Status)
	assert.Equal(t, "https://cdn.example.com/one.wav", first.AudioURL)

	third, _ := session.Block(errorBlock.ID)
	assert.Equal(t, core.StatusCompleted, third.Status)
	assert.Equal(t, "https://cdn.example.com/two.wav", third.AudioURL)

	untouched, _ := session.Block(completedBlock.ID)
	assert.Equal(t, "https://cdn.example.com/done.wav", untouched.AudioURL)
}

func TestConvertAll_OptimisticLoadingBeforeResponse(t *testing.T) {
	t.Parallel()

	session := store.New()
	block := session.AddBlock("text", "")

	var statusDuringCall core.BlockStatus

	speech := &checkingSpeechAPI{
		check: func() {
			current, _ := session.Block(block.ID)
			statusDuringCall = current.Status
		},
		batchResponse: api.Response[[]core.BatchTTSResult]{
			Success: true,
			Data:    []core.BatchTTSResult{{AudioURL: "https://cdn.example.com/a.wav", Index: 0}},
			Error:   "",
			Message: "",
		},
	}
	converter := convert.New(session, speech, &mockNotifier{}, newTestLogger(t))

	_, err := converter.ConvertAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.StatusLoading, statusDuringCall,
		"selected blocks must be loading before the batch call resolves")
}

// checkingSpeechAPI runs a hook at batch-call time.
type checkingSpeechAPI struct {
	check         func()
	batchResponse api.Response[[]core.BatchTTSResult]
}

func (c *checkingSpeechAPI) ConvertTextToSpeech(
	_ context.Context,
	_, _ string,
) api.Response[core.TTSResult] {
	return api.Response[core.TTSResult]{Success: false, Data: core.TTSResult{}, Error: "", Message: ""}
}

func (c *checkingSpeechAPI) ConvertMultipleTexts(
	_ context.Context,
	_ []core.TTSRequestItem,
) api.Response[[]core.BatchTTSResult] {
	c.check()

	return c.batchResponse
}

func TestConvertAll_BatchFailureMarksEveryParticipant(t *testing.T) {
	t.Parallel()

	session := store.New()
	first := session.AddBlock("first", "")
	second := session.AddBlock("second", "")

	speech := &mockSpeechAPI{
		batchResponse: api.Response[[]core.BatchTTSResult]{
			Success: false,
			Data:    nil,
			Error:   "backend exploded",
			Message: "",
		},
	}
	notifier := &mockNotifier{}
	converter := convert.New(session, speech, notifier, newTestLogger(t))

	converted, err := converter.ConvertAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, converted)

	for _, id := range []string{first.ID, second.ID} {
		block, _ := session.Block(id)
		assert.Equal(t, core.StatusError, block.Status)
		assert.Equal(t, "backend exploded", block.Error)
		assert.Empty(t, block.AudioURL)
	}

	assert.Len(t, notifier.errors, 1)
}

func TestConvertAll_ShortResponseMarksLeftoverFailed(t *testing.T) {
	t.Parallel()

	session := store.New()
	first := session.AddBlock("first", "")
	second := session.AddBlock("second", "")

	speech := &mockSpeechAPI{
		batchResponse: api.Response[[]core.BatchTTSResult]{
			Success: true,
			Data:    []core.BatchTTSResult{{AudioURL: "https://cdn.example.com/one.wav", Index: 0}},
			Error:   "",
			Message: "",
		},
	}
	converter := convert.New(session, speech, &mockNotifier{}, newTestLogger(t))

	converted, err := converter.ConvertAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, converted)

	firstBlock, _ := session.Block(first.ID)
	assert.Equal(t, core.StatusCompleted, firstBlock.Status)

	secondBlock, _ := session.Block(second.ID)
	assert.Equal(t, core.StatusError, secondBlock.Status, "a block without a result must not stay loading")
}
