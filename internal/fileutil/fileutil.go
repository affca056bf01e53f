// Package fileutil provides file and path utility functions for voice-studio.
//
// This package focuses on platform-agnostic ways to resolve application
// paths, format data for display, sanitize filenames, and validate the files
// a user offers for upload or cloning before any network call is made.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environment variable names used for path resolution.
const (
	envCacheDir = "CACHE_DIR"
)

// Common application directory and path constants.
const (
	appName                = "voice-studio"
	tmpDir                 = "/tmp"
	dotCache               = ".cache"
	defaultDirPermissions  = 0o750
	invalidCharReplacement = "_"
)

// Data size constants.
const (
	byteUnit = 1
	kilobyte = byteUnit * 1024
	megabyte = kilobyte * 1024
	gigabyte = megabyte * 1024
)

// MaxCloneFileSize is the largest audio sample accepted for voice cloning.
const MaxCloneFileSize = 50 * megabyte

// Size formatting constants.
const (
	formatGB    = "%.1f GB"
	formatMB    = "%.1f MB"
	formatKB    = "%.1f KB"
	formatBytes = "%d B"
)

// File extension constants.
const (
	extAAC  = ".aac"
	extFLAC = ".flac"
	extM4A  = ".m4a"
	extMD   = ".md"
	extMP3  = ".mp3"
	extOGG  = ".ogg"
	extTXT  = ".txt"
	extWAV  = ".wav"
)

// Static errors.
var (
	// ErrNotAudioFile indicates that a file does not carry a recognized
	// audio extension.
	ErrNotAudioFile = errors.New("not an audio file")
	// ErrNotTextFile indicates that a file does not carry a recognized
	// text extension.
	ErrNotTextFile = errors.New("not a text file")
	// ErrFileTooLarge indicates that a file exceeds the accepted size.
	ErrFileTooLarge = errors.New("file too large")
)

// Error format constants.
const (
	errFmtFailedToCreateDir = "failed to create directory %s: %w"
	errFmtStatFailed        = "failed to stat %s: %w"
	errFmtNotAudio          = "%w: %s"
	errFmtNotText           = "%w: %s"
	errFmtTooLarge          = "%w: %s is %s, limit is %s"
)

// IsAudioFile checks if a filename has a common audio file extension.
func IsAudioFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case extWAV, extMP3, extFLAC, extOGG, extM4A, extAAC:
		return true
	default:
		return false
	}
}

// IsTextFile checks if a filename has a supported text file extension.
func IsTextFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case extTXT, extMD:
		return true
	default:
		return false
	}
}

// ValidateCloneAudio checks a local audio sample before it is offered to the
// voice-clone endpoint. The extension must be a recognized audio type and
// the file must not exceed MaxCloneFileSize.
func ValidateCloneAudio(path string) error {
	if !IsAudioFile(path) {
		return fmt.Errorf(errFmtNotAudio, ErrNotAudioFile, filepath.Base(path))
	}

	info, statErr := os.Stat(path)
	if statErr != nil {
		return fmt.Errorf(errFmtStatFailed, path, statErr)
	}

	if info.Size() > MaxCloneFileSize {
		return fmt.Errorf(
			errFmtTooLarge,
			ErrFileTooLarge,
			filepath.Base(path),
			FormatFileSize(info.Size()),
			FormatFileSize(MaxCloneFileSize),
		)
	}

	return nil
}

// ValidateTextUpload checks a local file before it is offered to the text
// upload endpoint.
func ValidateTextUpload(path string) error {
	if !IsTextFile(path) {
		return fmt.Errorf(errFmtNotText, ErrNotTextFile, filepath.Base(path))
	}

	_, statErr := os.Stat(path)
	if statErr != nil {
		return fmt.Errorf(errFmtStatFailed, path, statErr)
	}

	return nil
}

// FormatFileSize formats a file size in a human-readable string (e.g.,
// "1.2 GB", "500.5 MB").
func FormatFileSize(bytes int64) string {
	switch {
	case bytes >= gigabyte:
		return fmt.Sprintf(formatGB, float64(bytes)/gigabyte)
	case bytes >= megabyte:
		return fmt.Sprintf(formatMB, float64(bytes)/megabyte)
	case bytes >= kilobyte:
		return fmt.Sprintf(formatKB, float64(bytes)/kilobyte)
	default:
		return fmt.Sprintf(formatBytes, bytes)
	}
}

// SanitizeFilename removes or replaces characters that are invalid in most
// filesystems.
func SanitizeFilename(filename string) string {
	replacer := strings.NewReplacer(
		"<", invalidCharReplacement,
		">", invalidCharReplacement,
		":", invalidCharReplacement,
		"\"", invalidCharReplacement,
		"/", invalidCharReplacement,
		"\\", invalidCharReplacement,
		"|", invalidCharReplacement,
		"?", invalidCharReplacement,
		"*", invalidCharReplacement,
	)

	return replacer.Replace(filename)
}

// EnsureDir ensures a directory exists at the given path, creating it if it
// doesn't.
func EnsureDir(path string) error {
	_, statErr := os.Stat(path)
	if os.IsNotExist(statErr) {
		mkdirErr := os.MkdirAll(path, defaultDirPermissions)
		if mkdirErr != nil {
			return fmt.Errorf(
				errFmtFailedToCreateDir,
				path,
				mkdirErr,
			)
		}
	}

	return nil
}

// DefaultCacheDir returns the application's cache directory, respecting an
// environment variable override and falling back to a standard user-based
// cache directory. The script handoff mailbox lives here unless the
// configuration says otherwise.
func DefaultCacheDir() string {
	if cacheDir := os.Getenv(envCacheDir); cacheDir != "" {
		return cacheDir
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(tmpDir, appName)
	}

	return filepath.Join(homeDir, dotCache, appName)
}
