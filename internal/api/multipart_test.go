package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/voice-studio/internal/api"
	"github.com/book-expert/voice-studio/internal/core"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)

	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)

	return path
}

func TestCloneVoice_MultipartFields(t *testing.T) {
	t.Parallel()

	samplePath := writeTempFile(t, "sample.wav", "RIFF....WAVE")

	server := httptest.NewServer(
		http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
			err := request.ParseMultipartForm(1 << 20)
			if err != nil {
				t.Errorf("Failed to parse multipart form: %v", err)
			}

			if got := request.FormValue("name"); got != "My Voice" {
				t.Errorf("Expected name field 'My Voice', got %q", got)
			}

			if got := request.FormValue("description"); got != "studio sample" {
				t.Errorf("Expected description field, got %q", got)
			}

			file, header, err := request.FormFile("audio")
			if err != nil {
				t.Fatalf("Expected audio form file: %v", err)
			}
			defer file.Close()

			if header.Filename != "sample.wav" {
				t.Errorf("Expected filename sample.wav, got %q", header.Filename)
			}

			data, err := io.ReadAll(file)
			if err != nil {
				t.Errorf("Failed to read audio part: %v", err)
			}

			if string(data) != "RIFF....WAVE" {
				t.Errorf("Audio payload not preserved, got %q", string(data))
			}

			responseWriter.Header().Set("Content-Type", "application/json")
			json.NewEncoder(responseWriter).Encode(core.Voice{
				ID:       "custom-42",
				Name:     "My Voice",
				Language: "en",
				Gender:   core.GenderNeutral,
				IsCustom: true,
			})
		}),
	)
	defer server.Close()

	client := api.New(server.URL, "", testTimeout)

	resp := client.CloneVoice(context.Background(), core.VoiceCloneRequest{
		Name:        "My Voice",
		AudioPath:   samplePath,
		Description: "studio sample",
	})
	require.True(t, resp.Success)
	assert.Equal(t, "custom-42", resp.Data.ID)
	assert.True(t, resp.Data.IsCustom)
}

func TestCloneVoice_UnreadableFile(t *testing.T) {
	t.Parallel()

	client := api.New("http://localhost:8000", "", testTimeout)

	resp := client.CloneVoice(context.Background(), core.VoiceCloneRequest{
		Name:      "My Voice",
		AudioPath: filepath.Join(t.TempDir(), "missing.wav"),
	})
	require.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestUploadTextFiles_OnePartPerFile(t *testing.T) {
	t.Parallel()

	firstPath := writeTempFile(t, "one.txt", "first body")
	secondPath := writeTempFile(t, "two.md", "second body")

	server := httptest.NewServer(
		http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
			err := request.ParseMultipartForm(1 << 20)
			if err != nil {
				t.Errorf("Failed to parse multipart form: %v", err)
			}

			for _, field := range []string{"file_0", "file_1"} {
				_, _, fileErr := request.FormFile(field)
				if fileErr != nil {
					t.Errorf("Expected form file %s: %v", field, fileErr)
				}
			}

			responseWriter.Header().Set("Content-Type", "application/json")
			json.NewEncoder(responseWriter).Encode([]core.UploadedText{
				{Content: "first body", FileName: "one.txt"},
				{Content: "second body", FileName: "two.md"},
			})
		}),
	)
	defer server.Close()

	client := api.New(server.URL, "", testTimeout)

	resp := client.UploadTextFiles(context.Background(), []string{firstPath, secondPath})
	require.True(t, resp.Success)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "one.txt", resp.Data[0].FileName)
	assert.Equal(t, "second body", resp.Data[1].Content)
}
