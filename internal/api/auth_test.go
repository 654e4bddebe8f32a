package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lapdeck/lapdeck/internal/log"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Level: log.LevelError, Format: log.FormatText, Output: log.OutputStderr()})
}

func TestLoginStoresSessionCookie(t *testing.T) {
	var meCookie string

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.com", req.Email)

		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "s3cret", Path: "/", HttpOnly: true})
		json.NewEncoder(w).Encode(User{Email: req.Email, FirstName: "Ann"})
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("sid"); err == nil {
			meCookie = c.Value
			json.NewEncoder(w).Encode(User{Email: "a@b.com", FirstName: "Ann"})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Message: "not authenticated"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())
	ctx := context.Background()

	user, err := client.Login(ctx, "a@b.com", "x")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)
	assert.Equal(t, "Ann", user.FirstName)

	// The jar must replay the server-set cookie on the next call.
	current, err := client.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", current.Email)
	assert.Equal(t, "s3cret", meCookie)
}

func TestLoginSurfacesServerMessageVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Message: "invalid email or password"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())

	_, err := client.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "invalid email or password", err.Error())
}

func TestRegisterDoesNotNeedCookie(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var req RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "new@b.com", req.Email)
		assert.Equal(t, "Ann", req.FirstName)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"message": "registered"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())

	err := client.Register(context.Background(), RegisterRequest{
		Email:     "new@b.com",
		Password:  "x",
		FirstName: "Ann",
	})
	require.NoError(t, err)
	assert.Equal(t, "/api/auth/register", gotPath)
}

func TestRequestsCarryRequestID(t *testing.T) {
	var requestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode(User{Email: "a@b.com"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())

	_, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, requestID)
}

func TestUpdateProfileRequireReLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "PUT", r.Method)
		assert.Equal(t, "/api/auth/profile", r.URL.Path)
		json.NewEncoder(w).Encode(ProfileUpdateResult{
			Message:        "email changed, please log in again",
			RequireReLogin: true,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())

	result, err := client.UpdateProfile(context.Background(), ProfileUpdate{Email: "moved@b.com"})
	require.NoError(t, err)
	assert.True(t, result.RequireReLogin)
	assert.Nil(t, result.User)
}

func TestUnreachableServerYieldsCodedError(t *testing.T) {
	// Nothing listens on port 1.
	client := NewClient("http://127.0.0.1:1", testLogger())

	_, err := client.CurrentUser(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API-001")
}

func TestBadStatusWithoutMessageYieldsCodedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())

	err := client.Logout(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API-002")
	assert.Contains(t, err.Error(), "boom")
}

func TestMalformedResponseYieldsCodedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())

	_, err := client.CurrentUser(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API-003")
}

func TestPictureURL(t *testing.T) {
	client := NewClient("http://api.example.com", testLogger())

	assert.Equal(t, "", client.PictureURL(""))
	assert.Equal(t, "http://api.example.com/uploads/p.png", client.PictureURL("uploads/p.png"))
	assert.Equal(t, "http://api.example.com/uploads/p.png", client.PictureURL("/uploads/p.png"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ann Lee", User{Email: "a@b.com", FirstName: "Ann", LastName: "Lee"}.DisplayName())
	assert.Equal(t, "Ann", User{Email: "a@b.com", FirstName: "Ann"}.DisplayName())
	assert.Equal(t, "a@b.com", User{Email: "a@b.com"}.DisplayName())
}
