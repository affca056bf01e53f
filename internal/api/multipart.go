package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/book-expert/voice-studio/internal/core"
)

// Multipart field names, per the backend contract.
const (
	fieldName        = "name"
	fieldAudio       = "audio"
	fieldDescription = "description"
	fieldFilePrefix  = "file_%d"
)

// CloneVoice submits a local audio sample for voice cloning. The audio
// payload travels as a multipart body; on success the backend responds with
// the new Voice record, including its generated id.
//
// The call itself performs no validation of the audio file beyond being
// readable; type and size checks belong to the flow layer, before any
// network traffic happens.
func (c *Client) CloneVoice(
	ctx context.Context,
	req core.VoiceCloneRequest,
) Response[core.Voice] {
	body, contentType, err := buildCloneBody(req)
	if err != nil {
		return failure[core.Voice](err.Error())
	}

	return doRequest[core.Voice](ctx, c, http.MethodPost, apiVoicesClone, contentType, body)
}

// UploadTextFiles submits local text files for extraction. The backend
// responds with one {content, fileName} pair per accepted file.
func (c *Client) UploadTextFiles(
	ctx context.Context,
	paths []string,
) Response[[]core.UploadedText] {
	body, contentType, err := buildUploadBody(paths)
	if err != nil {
		return failure[[]core.UploadedText](err.Error())
	}

	return doRequest[[]core.UploadedText](ctx, c, http.MethodPost, apiFilesUploadText, contentType, body)
}

// buildCloneBody assembles the multipart payload for a clone request.
func buildCloneBody(req core.VoiceCloneRequest) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	err := writer.WriteField(fieldName, req.Name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to write name field: %w", err)
	}

	if req.Description != "" {
		err = writer.WriteField(fieldDescription, req.Description)
		if err != nil {
			return nil, "", fmt.Errorf("failed to write description field: %w", err)
		}
	}

	err = attachFile(writer, fieldAudio, req.AudioPath)
	if err != nil {
		return nil, "", err
	}

	err = writer.Close()
	if err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

// buildUploadBody assembles the multipart payload for a text upload, one
// part per file.
func buildUploadBody(paths []string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	for index, path := range paths {
		field := fmt.Sprintf(fieldFilePrefix, index)

		err := attachFile(writer, field, path)
		if err != nil {
			return nil, "", err
		}
	}

	err := writer.Close()
	if err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

// attachFile copies one local file into the multipart body under the given
// field name.
func attachFile(writer *multipart.Writer, field, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	part, err := writer.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create form file for %s: %w", path, err)
	}

	_, err = part.Write(data)
	if err != nil {
		return fmt.Errorf("failed to write form file for %s: %w", path, err)
	}

	return nil
}
