package api

import (
	"context"
	"net/http"

	"github.com/book-expert/voice-studio/internal/core"
)

// Request payload shapes for the JSON endpoints.
type (
	youtubeScriptRequest struct {
		URL string `json:"url"`
	}

	ideaScriptRequest struct {
		Idea string `json:"idea"`
	}

	ttsConvertRequest struct {
		Text    string `json:"text"`
		VoiceID string `json:"voiceId"`
	}

	ttsConvertMultipleRequest struct {
		Requests []core.TTSRequestItem `json:"requests"`
	}

	loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	registerRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
)

// ProfileUpdate carries the optional fields of a profile change.
type ProfileUpdate struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// GenerateScriptFromYouTube asks the backend to build a script from a
// YouTube video. The call performs no URL validation; callers are expected
// to validate before invoking.
func (c *Client) GenerateScriptFromYouTube(
	ctx context.Context,
	url string,
) Response[core.Script] {
	return postJSON[core.Script](ctx, c, apiScriptsFromYouTube, youtubeScriptRequest{URL: url})
}

// GenerateScriptFromIdea asks the backend to build a script from a free-text
// idea.
func (c *Client) GenerateScriptFromIdea(
	ctx context.Context,
	idea string,
) Response[core.Script] {
	return postJSON[core.Script](ctx, c, apiScriptsFromIdea, ideaScriptRequest{Idea: idea})
}

// ConvertTextToSpeech synthesizes one text with the given voice and returns
// a reference to the generated audio.
func (c *Client) ConvertTextToSpeech(
	ctx context.Context,
	text, voiceID string,
) Response[core.TTSResult] {
	payload := ttsConvertRequest{Text: text, VoiceID: voiceID}

	return postJSON[core.TTSResult](ctx, c, apiTTSConvert, payload)
}

// ConvertMultipleTexts synthesizes a batch of texts in one request. The
// result array is index-aligned with the request order, so callers can zip
// results back onto the originating items by position.
func (c *Client) ConvertMultipleTexts(
	ctx context.Context,
	requests []core.TTSRequestItem,
) Response[[]core.BatchTTSResult] {
	payload := ttsConvertMultipleRequest{Requests: requests}

	return postJSON[[]core.BatchTTSResult](ctx, c, apiTTSConvertMultiple, payload)
}

// ListVoices returns the voices known to the backend.
func (c *Client) ListVoices(ctx context.Context) Response[[]core.Voice] {
	return doRequest[[]core.Voice](ctx, c, http.MethodGet, apiVoices, "", nil)
}

// DeleteVoice removes a voice by id on the backend.
func (c *Client) DeleteVoice(ctx context.Context, voiceID string) Response[struct{}] {
	return doRequest[struct{}](ctx, c, http.MethodDelete, apiVoices+"/"+voiceID, "", nil)
}

// Login authenticates against the backend.
func (c *Client) Login(ctx context.Context, email, password string) Response[core.User] {
	payload := loginRequest{Email: email, Password: password}

	return postJSON[core.User](ctx, c, apiAuthLogin, payload)
}

// Register creates a new account on the backend.
func (c *Client) Register(
	ctx context.Context,
	email, password, name string,
) Response[core.User] {
	payload := registerRequest{Email: email, Password: password, Name: name}

	return postJSON[core.User](ctx, c, apiAuthRegister, payload)
}

// Logout terminates the current backend session.
func (c *Client) Logout(ctx context.Context) Response[struct{}] {
	return postJSON[struct{}](ctx, c, apiAuthLogout, struct{}{})
}

// GetUserProfile fetches the current account's profile.
func (c *Client) GetUserProfile(ctx context.Context) Response[core.User] {
	return doRequest[core.User](ctx, c, http.MethodGet, apiUserProfile, "", nil)
}

// UpdateUserProfile changes name or email on the current account.
func (c *Client) UpdateUserProfile(
	ctx context.Context,
	update ProfileUpdate,
) Response[core.User] {
	return putJSON[core.User](ctx, c, apiUserProfile, update)
}
