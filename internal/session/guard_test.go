package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lapdeck/lapdeck/internal/api"
)

// The guard must wait for the startup probe instead of bouncing a logged-in
// user off the initial snapshot.
func TestGuardWaitsForStartupProbe(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode(api.User{Email: "a@b.com"})
	}))
	defer srv.Close()

	store := newTestStore(t, srv.URL)
	go store.FetchCurrentUser(context.Background())

	guard := NewGuard(store)

	decided := make(chan Decision, 1)
	go func() { decided <- guard.Check(context.Background()) }()

	select {
	case d := <-decided:
		t.Fatalf("guard decided %v before the probe resolved", d)
	case <-time.After(50 * time.Millisecond):
		// Still waiting, as it should be.
	}

	close(release)

	select {
	case d := <-decided:
		assert.Equal(t, Allow, d)
	case <-time.After(time.Second):
		t.Fatal("guard never decided after the probe resolved")
	}
}

// Fresh start with no valid cookie: probe fails, protected navigation
// redirects to login.
func TestGuardRedirectsWhenProbeFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(api.ErrorResponse{Message: "not authenticated"})
	}))
	defer srv.Close()

	store := newTestStore(t, srv.URL)
	store.FetchCurrentUser(context.Background())

	guard := NewGuard(store)
	assert.Equal(t, RedirectToLogin, guard.Check(context.Background()))
}

// Login then logout: the same guard that allowed navigation redirects after
// logout.
func TestGuardFollowsSessionLifecycle(t *testing.T) {
	srv := authServer(t)
	store := newTestStore(t, srv.URL)
	guard := NewGuard(store)
	ctx := context.Background()

	require.NoError(t, store.Login(ctx, "a@b.com", "x"))
	assert.Equal(t, Allow, guard.Check(ctx))

	store.Logout(ctx)
	assert.Equal(t, RedirectToLogin, guard.Check(ctx))
}

func TestGuardCancelledWaitRedirects(t *testing.T) {
	srv := authServer(t)
	store := newTestStore(t, srv.URL)
	guard := NewGuard(store)

	// Probe never issued: Ready stays open, so the context bounds the wait.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.Equal(t, RedirectToLogin, guard.Check(ctx))
}

// The guard takes one reading per attempt and does not stay subscribed.
func TestGuardDoesNotRemainSubscribed(t *testing.T) {
	srv := authServer(t)
	store := newTestStore(t, srv.URL)
	guard := NewGuard(store)
	ctx := context.Background()

	require.NoError(t, store.Login(ctx, "a@b.com", "x"))
	assert.Equal(t, Allow, guard.Check(ctx))

	store.mu.RLock()
	listeners := len(store.listeners)
	store.mu.RUnlock()
	assert.Zero(t, listeners)
}
