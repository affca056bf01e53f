// Package api provides the HTTP client for the voice-studio backend.
//
// Every backend capability is exposed as a typed call returning a uniform
// Response envelope. Failures of any kind -- request construction, transport
// errors, non-2xx statuses, malformed JSON -- are folded into the envelope;
// no method ever surfaces a raised error to its caller. This uniform
// envelope is the contract every consumer in the application relies on.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// API endpoints and paths.
const (
	apiScriptsFromYouTube = "/scripts/from-youtube"
	apiScriptsFromIdea    = "/scripts/from-idea"
	apiTTSConvert         = "/tts/convert"
	apiTTSConvertMultiple = "/tts/convert-multiple"
	apiVoices             = "/voices"
	apiVoicesClone        = "/voices/clone"
	apiFilesUploadText    = "/files/upload-text"
	apiAuthLogin          = "/auth/login"
	apiAuthRegister       = "/auth/register"
	apiAuthLogout         = "/auth/logout"
	apiUserProfile        = "/user/profile"
)

// HTTP headers.
const (
	headerContentType = "Content-Type"
	headerAccept      = "Accept"
	headerAPIKey      = "X-API-Key"
	contentTypeJSON   = "application/json"
)

// Fallback error messages used when the server gives no usable detail.
const (
	msgGenericError = "An error occurred"
	msgNetworkError = "Network error occurred"
	msgDecodeError  = "Failed to decode server response"
	msgRequestError = "Failed to build request"
)

// Static errors.
var (
	// ErrEmptyAudioURL indicates an audio fetch was attempted with no URL.
	ErrEmptyAudioURL = errors.New("audio url cannot be empty")
	// ErrUnexpectedStatus indicates a non-2xx response on a raw fetch.
	ErrUnexpectedStatus = errors.New("unexpected response status")
)

// Response is the uniform envelope returned by every backend call,
// regardless of HTTP-level outcome. Data is meaningful only when Success is
// true; Error is set only when Success is false.
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// serverError mirrors the error body shape the backend uses for non-2xx
// responses.
type serverError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Client is the HTTP client for the voice-studio backend. An optional API
// key, when configured, is attached as a header on every request.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// New creates and configures a backend client. The baseURL should include
// the protocol and any path prefix (e.g., "https://api.example.com/v1").
// The timeout applies to all HTTP requests made by this client.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// failure builds an error envelope with the given message.
func failure[T any](message string) Response[T] {
	var zero T

	return Response[T]{
		Success: false,
		Data:    zero,
		Error:   message,
		Message: "",
	}
}

// postJSON issues a JSON POST and folds the outcome into an envelope.
func postJSON[T any](
	ctx context.Context,
	c *Client,
	path string,
	payload any,
) Response[T] {
	body, err := json.Marshal(payload)
	if err != nil {
		return failure[T](msgRequestError)
	}

	return doRequest[T](ctx, c, http.MethodPost, path, contentTypeJSON, bytes.NewReader(body))
}

// putJSON issues a JSON PUT and folds the outcome into an envelope.
func putJSON[T any](
	ctx context.Context,
	c *Client,
	path string,
	payload any,
) Response[T] {
	body, err := json.Marshal(payload)
	if err != nil {
		return failure[T](msgRequestError)
	}

	return doRequest[T](ctx, c, http.MethodPut, path, contentTypeJSON, bytes.NewReader(body))
}

// doRequest performs one HTTP exchange and normalizes every outcome into the
// envelope. contentType may be empty for requests without a body.
func doRequest[T any](
	ctx context.Context,
	c *Client,
	method, path, contentType string,
	body io.Reader,
) Response[T] {
	if body == nil {
		body = http.NoBody
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return failure[T](msgRequestError)
	}

	if contentType != "" {
		httpReq.Header.Set(headerContentType, contentType)
	}

	httpReq.Header.Set(headerAccept, contentTypeJSON)

	if c.apiKey != "" {
		httpReq.Header.Set(headerAPIKey, c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return failure[T](msgNetworkError)
	}
	defer resp.Body.Close()

	return decodeResponse[T](resp)
}

// decodeResponse translates an HTTP response into the envelope. Non-2xx
// statuses surface the server's message field when one can be decoded, and
// a generic fallback otherwise.
func decodeResponse[T any](resp *http.Response) Response[T] {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure[T](msgNetworkError)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return failure[T](serverMessage(raw))
	}

	var data T

	if len(bytes.TrimSpace(raw)) == 0 {
		// Some endpoints (voice deletion, logout) reply with an empty
		// body on success.
		return Response[T]{Success: true, Data: data, Error: "", Message: ""}
	}

	err = json.Unmarshal(raw, &data)
	if err != nil {
		return failure[T](msgDecodeError)
	}

	return Response[T]{Success: true, Data: data, Error: "", Message: ""}
}

// serverMessage extracts a human-readable message from an error body,
// falling back to a generic message when the body is not usable JSON.
func serverMessage(raw []byte) string {
	var serverErr serverError

	err := json.Unmarshal(raw, &serverErr)
	if err == nil {
		if serverErr.Message != "" {
			return serverErr.Message
		}

		if serverErr.Error != "" {
			return serverErr.Error
		}
	}

	return msgGenericError
}

// FetchAudio downloads a synthesized audio resource. Unlike the envelope
// methods this is internal plumbing for preview and archiving, so it
// reports failures as plain errors.
func (c *Client) FetchAudio(ctx context.Context, audioURL string) ([]byte, error) {
	if audioURL == "" {
		return nil, ErrEmptyAudioURL
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio request: %w", err)
	}

	if c.apiKey != "" {
		httpReq.Header.Set(headerAPIKey, c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audio from %s: %w", audioURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	return data, nil
}
