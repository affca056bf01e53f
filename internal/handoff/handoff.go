// Package handoff provides the single-use script handoff between the
// script-generation flow and the conversion flow.
//
// The mailbox is a write-once, read-and-clear file: Put stores one script,
// Take returns it at most once and deletes it in the same step. A value
// that is never taken stays on disk until overwritten or cleared.
package handoff

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/book-expert/voice-studio/internal/fileutil"
)

const (
	mailboxFileName = "script-for-tts"
	filePermissions = 0o600
)

// ErrEmptyContent indicates an attempt to hand off an empty script.
var ErrEmptyContent = errors.New("handoff content cannot be empty")

// Mailbox is the at-most-once handoff slot.
type Mailbox struct {
	path string
}

// New creates a mailbox rooted in dir. An empty dir falls back to the
// application cache directory.
func New(dir string) (*Mailbox, error) {
	if dir == "" {
		dir = fileutil.DefaultCacheDir()
	}

	err := fileutil.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare handoff directory: %w", err)
	}

	return &Mailbox{
		path: filepath.Join(dir, mailboxFileName),
	}, nil
}

// Put stores a script for the conversion flow, overwriting any previous
// untaken value.
func (m *Mailbox) Put(content string) error {
	if content == "" {
		return ErrEmptyContent
	}

	err := os.WriteFile(m.path, []byte(content), filePermissions)
	if err != nil {
		return fmt.Errorf("failed to write handoff file: %w", err)
	}

	return nil
}

// Take returns the stored script and clears the slot in the same step. The
// second return reports whether a value was present; a second Take after a
// successful one reports absent.
func (m *Mailbox) Take() (string, bool, error) {
	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("failed to read handoff file: %w", err)
	}

	removeErr := os.Remove(m.path)
	if removeErr != nil {
		return "", false, fmt.Errorf("failed to clear handoff file: %w", removeErr)
	}

	return string(data), true, nil
}

// Clear drops any untaken value. No-op when the slot is empty.
func (m *Mailbox) Clear() error {
	err := os.Remove(m.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear handoff file: %w", err)
	}

	return nil
}
