package api

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistentJarSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	u, _ := url.Parse("http://api.example.com/")

	jar, err := NewPersistentJar(path)
	require.NoError(t, err)

	jar.SetCookies(u, []*http.Cookie{{Name: "sid", Value: "s3cret", Path: "/"}})
	require.Len(t, jar.Cookies(u), 1)

	// A fresh jar over the same file sees the cookie, like a browser restart.
	reloaded, err := NewPersistentJar(path)
	require.NoError(t, err)
	cookies := reloaded.Cookies(u)
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.Equal(t, "s3cret", cookies[0].Value)
}

func TestPersistentJarSkipsExpiredCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	u, _ := url.Parse("http://api.example.com/")

	jar, err := NewPersistentJar(path)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{{
		Name:    "sid",
		Value:   "stale",
		Path:    "/",
		Expires: time.Now().Add(-time.Hour),
	}})

	reloaded, err := NewPersistentJar(path)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Cookies(u))
}

func TestPersistentJarClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	u, _ := url.Parse("http://api.example.com/")

	jar, err := NewPersistentJar(path)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{{Name: "sid", Value: "s3cret", Path: "/"}})

	require.NoError(t, jar.Clear())
	assert.Empty(t, jar.Cookies(u))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Clearing again is fine.
	require.NoError(t, jar.Clear())
}

func TestPersistentJarFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	u, _ := url.Parse("http://api.example.com/")

	jar, err := NewPersistentJar(path)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{{Name: "sid", Value: "s3cret", Path: "/"}})

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
