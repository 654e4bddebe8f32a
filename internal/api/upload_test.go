package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadProfilePicture(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/auth/upload-profile-picture", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		// The service expects the picture under the field name "file".
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "avatar.png", header.Filename)
		assert.Equal(t, "png-bytes", string(data))

		json.NewEncoder(w).Encode(UploadResult{
			Message:           "uploaded",
			ProfilePictureRef: "uploads/avatar-1.png",
		})
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "avatar.png")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o600))

	client := NewClient(srv.URL, testLogger())

	result, err := client.UploadProfilePicture(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "uploads/avatar-1.png", result.ProfilePictureRef)
}

func TestUploadProfilePictureMissingFile(t *testing.T) {
	client := NewClient("http://unused.example.com", testLogger())

	_, err := client.UploadProfilePicture(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UPLOAD-001")
}

func TestUploadProfilePictureServerRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Message: "unsupported file type"})
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "avatar.bmp")
	require.NoError(t, os.WriteFile(path, []byte("bmp"), 0o600))

	client := NewClient(srv.URL, testLogger())

	_, err := client.UploadProfilePicture(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, "unsupported file type", err.Error())
}
