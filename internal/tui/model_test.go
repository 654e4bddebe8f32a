package tui

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lapdeck/lapdeck/internal/api"
	"github.com/lapdeck/lapdeck/internal/log"
	"github.com/lapdeck/lapdeck/internal/session"
)

// newTestModel builds a model over a backend with no valid session.
func newTestModel(t *testing.T) *Model {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(api.ErrorResponse{Message: "not authenticated"})
	}))
	t.Cleanup(srv.Close)

	logger := log.New(log.Config{Level: log.LevelError, Format: log.FormatText, Output: log.OutputStderr()})
	client := api.NewClient(srv.URL, logger)
	store := session.NewStore(client, logger)
	m := NewModel(store, session.NewGuard(store), client)
	t.Cleanup(m.Close)
	m.ready = true
	return m
}

func update(t *testing.T, m *Model, msg tea.Msg) (*Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(*Model)
	require.True(t, ok)
	return next, cmd
}

func TestGuardRedirectShowsLoginSilently(t *testing.T) {
	m := newTestModel(t)
	m.currentView = ViewCatalog

	m, _ = update(t, m, navigatedMsg{target: ViewCatalog, decision: session.RedirectToLogin})

	assert.Equal(t, ViewLogin, m.currentView)
	assert.Empty(t, m.errMsg, "redirect is routine, no error shown")
}

func TestAllowedNavigationLoadsCatalog(t *testing.T) {
	m := newTestModel(t)

	m, cmd := update(t, m, navigatedMsg{target: ViewCatalog, decision: session.Allow})

	assert.Equal(t, ViewCatalog, m.currentView)
	assert.True(t, m.loading)
	assert.NotNil(t, cmd)
}

func TestLoginFailureReenablesForm(t *testing.T) {
	m := newTestModel(t)
	m.submitting = true

	m, _ = update(t, m, loginDoneMsg{err: errors.New("invalid email or password")})

	assert.False(t, m.submitting, "submitting flag cleared on failure")
	assert.Equal(t, ViewLogin, m.currentView)
	assert.Contains(t, m.errMsg, "invalid email or password")
}

func TestLoginSuccessNavigatesToCatalog(t *testing.T) {
	m := newTestModel(t)
	m.submitting = true
	m.errMsg = "stale"

	m, cmd := update(t, m, loginDoneMsg{err: nil})

	assert.False(t, m.submitting)
	assert.Empty(t, m.errMsg)
	require.NotNil(t, cmd, "success must trigger navigation")
}

func TestSessionEndEvictsProtectedView(t *testing.T) {
	m := newTestModel(t)
	m.currentView = ViewCatalog

	m, _ = update(t, m, stateMsg(session.State{}))

	assert.Equal(t, ViewLogin, m.currentView)
}

func TestLaptopsMsgPopulatesTable(t *testing.T) {
	m := newTestModel(t)
	m.loading = true

	laptops := []api.Laptop{
		{ID: "l-1", Brand: "Lenovo", Model: "T14", Price: 1199},
		{ID: "l-2", Brand: "Framework", Model: "13", Price: 1399},
	}
	m, _ = update(t, m, laptopsMsg{laptops: laptops})

	assert.False(t, m.loading)
	assert.Len(t, m.catalog.Rows(), 2)
	assert.Equal(t, "Lenovo", m.catalog.Rows()[0][1])
}

func TestCatalogLoadFailureClearsLoadingFlag(t *testing.T) {
	m := newTestModel(t)
	m.loading = true

	m, _ = update(t, m, laptopsMsg{err: errors.New("boom")})

	assert.False(t, m.loading, "loading flag cleared on every outcome path")
	assert.Contains(t, m.errMsg, "boom")
}

func TestProfileRequireReLoginSchedulesRedirect(t *testing.T) {
	m := newTestModel(t)
	m.currentView = ViewProfile
	m.submitting = true

	m, cmd := update(t, m, profileSavedMsg{result: &api.ProfileUpdateResult{
		Message:        "email changed, please log in again",
		RequireReLogin: true,
	}})

	assert.False(t, m.submitting)
	assert.Equal(t, "email changed, please log in again", m.infoMsg)
	require.NotNil(t, cmd, "a delayed redirect must be scheduled")
	assert.False(t, m.store.Snapshot().Authenticated)

	// The delayed message lands the user on the login form.
	m, _ = update(t, m, redirectLoginMsg{})
	assert.Equal(t, ViewLogin, m.currentView)
}

// A burst of transitions with no reader draining the channel must never
// block the store's notify step; only the newest snapshot matters.
func TestNotificationBurstDoesNotBlockStore(t *testing.T) {
	m := newTestModel(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 64; i++ {
			m.store.Clear()
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("state notifications blocked while the update loop was idle")
	}

	// Whatever is pending is the latest snapshot.
	msg := m.waitForState()()
	state, ok := msg.(stateMsg)
	require.True(t, ok)
	assert.False(t, state.Authenticated)
}

func TestRegisterSuccessReturnsToLogin(t *testing.T) {
	m := newTestModel(t)
	m.currentView = ViewRegister
	m.submitting = true

	m, _ = update(t, m, registerDoneMsg{err: nil})

	assert.Equal(t, ViewLogin, m.currentView)
	assert.Contains(t, m.infoMsg, "Account created")
}
