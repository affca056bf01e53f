// Package library_test tests the audio archive.
package library_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/book-expert/events"
	"github.com/book-expert/logger"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/voice-studio/internal/core"
	"github.com/book-expert/voice-studio/internal/library"
)

var errMockUpload = errors.New("mock upload error")

// mockStore is an in-memory ObjectStore.
type mockStore struct {
	uploadShouldFail bool
	objects          map[string][]byte
}

func (m *mockStore) Download(_ context.Context, key string) ([]byte, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}

	return data, nil
}

func (m *mockStore) Upload(_ context.Context, key string, data []byte) error {
	if m.uploadShouldFail {
		return errMockUpload
	}

	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}

	m.objects[key] = data

	return nil
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	subject string
	data    []byte
}

func (r *recordingPublisher) Publish(subject string, data []byte) error {
	r.subject = subject
	r.data = data

	return nil
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.New(t.TempDir(), "library_test.log")
	require.NoError(t, err)

	t.Cleanup(func() { _ = log.Close() })

	return log
}

func completedBlock() core.TextBlock {
	return core.TextBlock{
		ID:       "block-1",
		Content:  "hello",
		Voice:    core.DefaultVoiceID,
		Status:   core.StatusCompleted,
		AudioURL: "https://cdn.example.com/a.wav",
		Error:    "",
		FileName: "",
	}
}

func TestArchive_UploadsAndAnnounces(t *testing.T) {
	t.Parallel()

	store := &mockStore{uploadShouldFail: false, objects: nil}
	publisher := &recordingPublisher{subject: "", data: nil}
	lib := library.New(store, publisher, "audio.chunk.created", newTestLogger(t))

	key, err := lib.Archive(context.Background(), completedBlock(), []byte("wav-bytes"), 1, 3)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".wav"))
	assert.Equal(t, []byte("wav-bytes"), store.objects[key])

	require.Equal(t, "audio.chunk.created", publisher.subject)

	var event events.AudioChunkCreatedEvent

	err = json.Unmarshal(publisher.data, &event)
	require.NoError(t, err)
	assert.Equal(t, key, event.AudioKey)
	assert.Equal(t, "block-1", event.Header.WorkflowID)
	assert.Equal(t, 1, event.PageNumber)
	assert.Equal(t, 3, event.TotalPages)
}

func TestArchive_RejectsIncompleteBlock(t *testing.T) {
	t.Parallel()

	lib := library.New(&mockStore{uploadShouldFail: false, objects: nil}, nil, "", newTestLogger(t))

	pending := completedBlock()
	pending.Status = core.StatusPending
	pending.AudioURL = ""

	_, err := lib.Archive(context.Background(), pending, []byte("wav-bytes"), 1, 1)
	require.ErrorIs(t, err, library.ErrBlockNotCompleted)
}

func TestArchive_RejectsEmptyAudio(t *testing.T) {
	t.Parallel()

	lib := library.New(&mockStore{uploadShouldFail: false, objects: nil}, nil, "", newTestLogger(t))

	_, err := lib.Archive(context.Background(), completedBlock(), nil, 1, 1)
	require.ErrorIs(t, err, library.ErrEmptyAudio)
}

func TestArchive_UploadFailure(t *testing.T) {
	t.Parallel()

	store := &mockStore{uploadShouldFail: true, objects: nil}
	lib := library.New(store, nil, "", newTestLogger(t))

	_, err := lib.Archive(context.Background(), completedBlock(), []byte("wav-bytes"), 1, 1)
	require.ErrorIs(t, err, errMockUpload)
}

func TestArchive_WithoutPublisher(t *testing.T) {
	t.Parallel()

	store := &mockStore{uploadShouldFail: false, objects: nil}
	lib := library.New(store, nil, "", newTestLogger(t))

	key, err := lib.Archive(context.Background(), completedBlock(), []byte("wav-bytes"), 1, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, key)
}

// startTestServer starts an in-memory NATS server for object-store tests.
func startTestServer(t *testing.T) (*server.Server, *nats.Conn) {
	t.Helper()

	opts := test.DefaultTestOptions
	opts.Port = -1 // Use a random port
	opts.JetStream = true
	natsServer := test.RunServer(&opts)

	natsConnection, err := nats.Connect(natsServer.ClientURL())
	if err != nil {
		t.Fatalf("Failed to connect to test NATS server: %v", err)
	}

	return natsServer, natsConnection
}

func TestNatsStore_UploadDownload(t *testing.T) {
	t.Parallel()

	natsServer, natsConnection := startTestServer(t)
	defer natsServer.Shutdown()
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	require.NoError(t, err)

	store, err := library.NewNatsStore(jetstreamContext, "test-archive")
	require.NoError(t, err)

	ctx := context.Background()
	uploadData := []byte("synthesized audio bytes")

	err = store.Upload(ctx, "clip.wav", uploadData)
	require.NoError(t, err)

	downloadData, err := store.Download(ctx, "clip.wav")
	require.NoError(t, err)
	require.Equal(t, uploadData, downloadData)
}

func TestNatsStore_RoundTripThroughLibrary(t *testing.T) {
	t.Parallel()

	natsServer, natsConnection := startTestServer(t)
	defer natsServer.Shutdown()
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	require.NoError(t, err)

	store, err := library.NewNatsStore(jetstreamContext, "studio-audio")
	require.NoError(t, err)

	lib := library.New(store, natsConnection, "audio.chunk.created", newTestLogger(t))

	key, err := lib.Archive(context.Background(), completedBlock(), []byte("round-trip"), 1, 1)
	require.NoError(t, err)

	fetched, err := lib.Fetch(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, []byte("round-trip"), fetched)
}
