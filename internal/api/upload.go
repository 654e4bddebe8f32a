package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	apperrors "github.com/lapdeck/lapdeck/internal/errors"
)

// UploadResult is the service's response to a profile picture upload.
type UploadResult struct {
	Message           string `json:"message"`
	ProfilePictureRef string `json:"profilePictureRef"`
}

// UploadProfilePicture uploads the file at path as the user's new profile
// picture. The service expects a multipart body with the file under the
// field name "file".
func (c *Client) UploadProfilePicture(ctx context.Context, path string) (*UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewUploadOpenFailedError(path, err)
	}
	defer f.Close()

	return c.uploadProfilePicture(ctx, filepath.Base(path), f)
}

func (c *Client) uploadProfilePicture(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUploadFailed, "cannot build multipart body", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUploadFailed, "cannot read picture data", err)
	}
	if err := writer.Close(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUploadFailed, "cannot finalize multipart body", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/api/auth/upload-profile-picture", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, apperrors.NewAPIUnreachableError(c.BaseURL, err)
	}

	var result UploadResult
	if err := parseResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
