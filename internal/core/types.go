// Package core defines the domain types and interfaces shared by the
// voice-studio client.
package core

import "time"

// BlockStatus describes where a text block is in its conversion lifecycle.
type BlockStatus string

// Lifecycle states for a text block. A block starts as pending, moves to
// loading when a conversion is in flight, and ends as completed or error.
// An error block may re-enter loading on retry; completed is terminal for
// the block's current content.
const (
	StatusPending   BlockStatus = "pending"
	StatusLoading   BlockStatus = "loading"
	StatusCompleted BlockStatus = "completed"
	StatusError     BlockStatus = "error"
)

// Gender classifies a synthesis voice.
type Gender string

// Supported voice genders.
const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderNeutral Gender = "neutral"
)

// ToastVariant selects the presentation style of a notification.
type ToastVariant string

// Supported toast variants.
const (
	ToastDefault     ToastVariant = "default"
	ToastDestructive ToastVariant = "destructive"
	ToastSuccess     ToastVariant = "success"
)

// DefaultToastDuration is applied when a toast is enqueued without an
// explicit duration.
const DefaultToastDuration = 5000 * time.Millisecond

// TextBlock is one unit of text queued for independent text-to-speech
// conversion.
//
// AudioURL is set if and only if Status is StatusCompleted, and Error is set
// if and only if Status is StatusError. The two fields are mutually
// exclusive at all times; the session store enforces this on every update.
type TextBlock struct {
	ID       string      `json:"id"`
	Content  string      `json:"content"`
	Voice    string      `json:"voice"`
	Status   BlockStatus `json:"status"`
	AudioURL string      `json:"audioUrl,omitempty"`
	Error    string      `json:"error,omitempty"`
	FileName string      `json:"fileName,omitempty"`
}

// Voice is a named synthesis identity, either built-in or user-cloned.
type Voice struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Language   string `json:"language"`
	Gender     Gender `json:"gender"`
	IsCustom   bool   `json:"isCustom"`
	PreviewURL string `json:"previewUrl,omitempty"`
}

// Toast is a transient, auto-expiring user notification.
type Toast struct {
	ID          string        `json:"id"`
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	Variant     ToastVariant  `json:"variant,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
}

// Script is a generated video script returned by the backend.
type Script struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Source    string `json:"source"`
	SourceURL string `json:"sourceUrl,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// User is the authenticated account as reported by the backend.
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// VoiceCloneRequest carries the inputs for cloning a new voice from a local
// audio sample.
type VoiceCloneRequest struct {
	Name        string
	AudioPath   string
	Description string
}

// UploadedText is one accepted file from a text upload, as returned by the
// backend.
type UploadedText struct {
	Content  string `json:"content"`
	FileName string `json:"fileName"`
}

// TTSResult is the outcome of a single text-to-speech conversion.
type TTSResult struct {
	AudioURL string `json:"audioUrl"`
}

// BatchTTSResult is one entry of a batch conversion response. Index is
// aligned with the position of the originating request in the batch.
type BatchTTSResult struct {
	AudioURL string `json:"audioUrl"`
	Index    int    `json:"index"`
}

// TTSRequestItem is one entry of a batch conversion request.
type TTSRequestItem struct {
	Text    string `json:"text"`
	VoiceID string `json:"voiceId"`
}

// BuiltinVoices returns the fixed set of voices available before any
// cloning has happened. The first female English voice doubles as the
// default voice for new text blocks.
func BuiltinVoices() []Voice {
	return []Voice{
		{
			ID:       "default-en-male",
			Name:     "Default English Male",
			Language: "en",
			Gender:   GenderMale,
			IsCustom: false,
		},
		{
			ID:       "default-en-female",
			Name:     "Default English Female",
			Language: "en",
			Gender:   GenderFemale,
			IsCustom: false,
		},
		{
			ID:       "default-vi-male",
			Name:     "Default Vietnamese Male",
			Language: "vi",
			Gender:   GenderMale,
			IsCustom: false,
		},
		{
			ID:       "default-vi-female",
			Name:     "Default Vietnamese Female",
			Language: "vi",
			Gender:   GenderFemale,
			IsCustom: false,
		},
	}
}

// DefaultVoiceID is the voice assigned to newly created text blocks until
// the user picks another one.
const DefaultVoiceID = "default-en-female"
