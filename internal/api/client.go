package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/lapdeck/lapdeck/internal/errors"
	"github.com/lapdeck/lapdeck/internal/log"
)

// Client is the catalog service API client.
//
// Every request runs in "include" credential mode: the cookie jar sends the
// session cookie the server set and stores any cookie a response sets. The
// application never reads the cookie itself.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	logger *log.Logger
}

// NewClient creates a new API client with an in-memory cookie jar.
func NewClient(baseURL string, logger *log.Logger) *Client {
	jar, _ := cookiejar.New(nil)
	return NewClientWithJar(baseURL, jar, logger)
}

// NewClientWithJar creates a new API client using the given cookie jar.
// CLI invocations pass a PersistentJar so the session survives across
// processes the way a browser cookie store would.
func NewClientWithJar(baseURL string, jar http.CookieJar, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// PictureURL resolves an opaque profile picture reference to a display URL by
// prefixing the API base. Returns "" for an empty reference.
func (c *Client) PictureURL(ref string) string {
	if ref == "" {
		return ""
	}
	if ref[0] != '/' {
		return c.BaseURL + "/" + ref
	}
	return c.BaseURL + ref
}

// doRequest performs a JSON HTTP request with credentials included
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeAPIEncode, "cannot encode request body", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	c.logger.Debug("api request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, apperrors.NewAPIUnreachableError(c.BaseURL, err)
	}

	return resp, nil
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// parseResponse parses the response body into the target struct
func parseResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)

		// Surface the server-supplied message verbatim when present.
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil {
			if errResp.Message != "" {
				return fmt.Errorf("%s", errResp.Message)
			}
			if errResp.Error != "" {
				return fmt.Errorf("%s", errResp.Error)
			}
		}

		return apperrors.New(apperrors.ErrCodeAPIBadStatus,
			fmt.Sprintf("request failed with status %d: %s", resp.StatusCode, string(body)))
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeAPIDecode, "cannot decode response body", err)
		}
	}

	return nil
}
