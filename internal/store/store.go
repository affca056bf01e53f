// Package store provides the in-process session state for voice-studio.
//
// The store owns the ordered list of text blocks and the voice registry.
// It is an explicit state container handed to the components that need it,
// not ambient global state; all mutation goes through its update primitives
// so the block invariants hold at every point in time.
package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/book-expert/voice-studio/internal/core"
)

// Store holds the session state. All methods are safe for concurrent use;
// overlapping updates to the same block resolve last-write-wins, which is
// the documented behavior for racing conversion responses.
type Store struct {
	mu           sync.Mutex
	blocks       []core.TextBlock
	voices       []core.Voice
	defaultVoice string
}

// BlockUpdate is a partial update merged onto an existing block. Nil fields
// are left untouched.
type BlockUpdate struct {
	Content  *string
	Voice    *string
	Status   *core.BlockStatus
	AudioURL *string
	Error    *string
	FileName *string
}

// New creates a session store seeded with the built-in voices.
func New() *Store {
	return &Store{
		mu:           sync.Mutex{},
		blocks:       nil,
		voices:       core.BuiltinVoices(),
		defaultVoice: core.DefaultVoiceID,
	}
}

// AddBlock appends a new pending block carrying the default voice and a
// freshly generated id. Insertion order is preserved and is the display
// order.
func (s *Store) AddBlock(content, fileName string) core.TextBlock {
	s.mu.Lock()
	defer s.mu.Unlock()

	block := core.TextBlock{
		ID:       uuid.NewString(),
		Content:  content,
		Voice:    s.defaultVoice,
		Status:   core.StatusPending,
		AudioURL: "",
		Error:    "",
		FileName: fileName,
	}

	s.blocks = append(s.blocks, block)

	return block
}

// UpdateBlock merges the given fields into the block matching id. It is a
// no-op when no block matches, which makes a late-arriving conversion
// response for a removed block harmless. This is the sole mutation
// primitive; every status transition routes through it.
func (s *Store) UpdateBlock(id string, update BlockUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for index := range s.blocks {
		if s.blocks[index].ID != id {
			continue
		}

		applyUpdate(&s.blocks[index], update)

		return true
	}

	return false
}

// RemoveBlock deletes the block matching id. No-op when absent.
func (s *Store) RemoveBlock(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for index := range s.blocks {
		if s.blocks[index].ID == id {
			s.blocks = append(s.blocks[:index], s.blocks[index+1:]...)

			return
		}
	}
}

// Blocks returns a copy of the ordered block list.
func (s *Store) Blocks() []core.TextBlock {
	s.mu.Lock()
	defer s.mu.Unlock()

	blocks := make([]core.TextBlock, len(s.blocks))
	copy(blocks, s.blocks)

	return blocks
}

// Block returns the block matching id.
func (s *Store) Block(id string) (core.TextBlock, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, block := range s.blocks {
		if block.ID == id {
			return block, true
		}
	}

	return core.TextBlock{}, false
}

// Voices returns a copy of the ordered voice list: built-ins first, then
// clones in creation order.
func (s *Store) Voices() []core.Voice {
	s.mu.Lock()
	defer s.mu.Unlock()

	voices := make([]core.Voice, len(s.voices))
	copy(voices, s.voices)

	return voices
}

// AddVoice appends a newly cloned voice. When a voice with the same id
// already exists, the existing entry is replaced in place and the method
// reports the replacement.
func (s *Store) AddVoice(voice core.Voice) (replaced bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for index := range s.voices {
		if s.voices[index].ID == voice.ID {
			s.voices[index] = voice

			return true
		}
	}

	s.voices = append(s.voices, voice)

	return false
}

// RemoveVoice deletes a voice by id. No-op when absent. Blocks referencing
// the removed voice keep their dangling id; VoiceName resolves such ids to
// absent.
func (s *Store) RemoveVoice(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for index := range s.voices {
		if s.voices[index].ID == id {
			s.voices = append(s.voices[:index], s.voices[index+1:]...)

			return
		}
	}
}

// VoiceName resolves a voice id to its display name.
func (s *Store) VoiceName(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, voice := range s.voices {
		if voice.ID == id {
			return voice.Name, true
		}
	}

	return "", false
}

// DefaultVoice returns the voice assigned to newly added blocks.
func (s *Store) DefaultVoice() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.defaultVoice
}

// SetDefaultVoice changes the voice assigned to newly added blocks.
func (s *Store) SetDefaultVoice(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.defaultVoice = id
}

// applyUpdate merges non-nil fields and then re-establishes the block
// invariant: AudioURL only on completed, Error only on error.
func applyUpdate(block *core.TextBlock, update BlockUpdate) {
	if update.Content != nil {
		block.Content = *update.Content
	}

	if update.Voice != nil {
		block.Voice = *update.Voice
	}

	if update.Status != nil {
		block.Status = *update.Status
	}

	if update.AudioURL != nil {
		block.AudioURL = *update.AudioURL
	}

	if update.Error != nil {
		block.Error = *update.Error
	}

	if update.FileName != nil {
		block.FileName = *update.FileName
	}

	switch block.Status {
	case core.StatusCompleted:
		block.Error = ""
	case core.StatusError:
		block.AudioURL = ""
	case core.StatusPending, core.StatusLoading:
		block.AudioURL = ""
		block.Error = ""
	}
}

// MarkLoading builds the update that puts a block in flight.
func MarkLoading() BlockUpdate {
	status := core.StatusLoading

	return BlockUpdate{
		Content:  nil,
		Voice:    nil,
		Status:   &status,
		AudioURL: nil,
		Error:    nil,
		FileName: nil,
	}
}

// MarkCompleted builds the update for a successful conversion.
func MarkCompleted(audioURL string) BlockUpdate {
	status := core.StatusCompleted

	return BlockUpdate{
		Content:  nil,
		Voice:    nil,
		Status:   &status,
		AudioURL: &audioURL,
		Error:    nil,
		FileName: nil,
	}
}

// MarkFailed builds the update for a failed conversion.
func MarkFailed(message string) BlockUpdate {
	status := core.StatusError

	return BlockUpdate{
		Content:  nil,
		Voice:    nil,
		Status:   &status,
		AudioURL: nil,
		Error:    &message,
		FileName: nil,
	}
}

// SetVoice builds the update that changes a block's voice.
func SetVoice(voiceID string) BlockUpdate {
	return BlockUpdate{
		Content:  nil,
		Voice:    &voiceID,
		Status:   nil,
		AudioURL: nil,
		Error:    nil,
		FileName: nil,
	}
}
