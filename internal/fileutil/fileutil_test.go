package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/voice-studio/internal/fileutil"
)

func TestIsAudioFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		want     bool
	}{
		{name: "wav", filename: "sample.wav", want: true},
		{name: "mp3 uppercase", filename: "SAMPLE.MP3", want: true},
		{name: "flac", filename: "voice.flac", want: true},
		{name: "text file", filename: "notes.txt", want: false},
		{name: "no extension", filename: "sample", want: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := fileutil.IsAudioFile(testCase.filename)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestIsTextFile(t *testing.T) {
	t.Parallel()

	assert.True(t, fileutil.IsTextFile("script.txt"))
	assert.True(t, fileutil.IsTextFile("script.md"))
	assert.False(t, fileutil.IsTextFile("voice.wav"))
	assert.False(t, fileutil.IsTextFile("image.png"))
}

func TestValidateCloneAudio_RejectsNonAudio(t *testing.T) {
	t.Parallel()

	err := fileutil.ValidateCloneAudio("document.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, fileutil.ErrNotAudioFile)
}

func TestValidateCloneAudio_AcceptsSmallSample(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sample.wav")
	err := os.WriteFile(path, []byte("RIFF....WAVE"), 0o600)
	require.NoError(t, err)

	err = fileutil.ValidateCloneAudio(path)
	assert.NoError(t, err)
}

func TestValidateCloneAudio_MissingFile(t *testing.T) {
	t.Parallel()

	err := fileutil.ValidateCloneAudio(filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)
}

func TestValidateTextUpload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "chapter.txt")
	err := os.WriteFile(path, []byte("some text"), 0o600)
	require.NoError(t, err)

	assert.NoError(t, fileutil.ValidateTextUpload(path))

	err = fileutil.ValidateTextUpload("voice.wav")
	require.Error(t, err)
	assert.ErrorIs(t, err, fileutil.ErrNotTextFile)
}

func TestFormatFileSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{name: "bytes", bytes: 512, want: "512 B"},
		{name: "kilobytes", bytes: 2048, want: "2.0 KB"},
		{name: "megabytes", bytes: 5 * 1024 * 1024, want: "5.0 MB"},
		{name: "gigabytes", bytes: 3 * 1024 * 1024 * 1024, want: "3.0 GB"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := fileutil.FormatFileSize(testCase.bytes)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	got := fileutil.SanitizeFilename(`my<voice>:clip?.wav`)
	assert.Equal(t, "my_voice__clip_.wav", got)
}

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	testPath := filepath.Join(tempDir, "new", "dir")

	err := fileutil.EnsureDir(testPath)
	require.NoError(t, err)

	_, err = os.Stat(testPath)
	require.NoError(t, err)

	// A second call on an existing directory must succeed.
	err = fileutil.EnsureDir(testPath)
	assert.NoError(t, err)
}

func TestDefaultCacheDir_WithOverride(t *testing.T) {
	expectedPath := "/custom/cache/dir"
	t.Setenv("CACHE_DIR", expectedPath)

	result := fileutil.DefaultCacheDir()
	assert.Equal(t, expectedPath, result)
}
