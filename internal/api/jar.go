package api

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// PersistentJar is a cookie jar backed by a file, so the server-set session
// cookie survives between CLI invocations the way it would in a browser.
// The application still never inspects cookie values; it only carries them.
type PersistentJar struct {
	mu   sync.Mutex
	jar  *cookiejar.Jar
	path string
}

type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HTTPOnly bool      `json:"http_only,omitempty"`
}

// NewPersistentJar creates a jar persisted at path, loading any cookies a
// previous invocation saved. A missing or unreadable file starts empty.
func NewPersistentJar(path string) (*PersistentJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	p := &PersistentJar{jar: jar, path: path}
	p.load()
	return p, nil
}

// SetCookies stores cookies for the URL and persists them.
func (p *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.jar.SetCookies(u, cookies)
	p.save(u, cookies)
}

// Cookies returns the cookies to send for the URL.
func (p *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.jar.Cookies(u)
}

// Clear drops all persisted cookies and removes the backing file.
func (p *PersistentJar) Clear() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	p.jar = jar

	err = os.Remove(p.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (p *PersistentJar) load() {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return
	}

	var byURL map[string][]storedCookie
	if err := json.Unmarshal(data, &byURL); err != nil {
		return
	}

	now := time.Now()
	for rawURL, stored := range byURL {
		u, err := url.Parse(rawURL)
		if err != nil {
			continue
		}
		var cookies []*http.Cookie
		for _, sc := range stored {
			if !sc.Expires.IsZero() && sc.Expires.Before(now) {
				continue
			}
			cookies = append(cookies, &http.Cookie{
				Name:     sc.Name,
				Value:    sc.Value,
				Path:     sc.Path,
				Domain:   sc.Domain,
				Expires:  sc.Expires,
				Secure:   sc.Secure,
				HttpOnly: sc.HTTPOnly,
			})
		}
		if len(cookies) > 0 {
			p.jar.SetCookies(u, cookies)
		}
	}
}

// save merges the new cookies for u into the backing file. Caller holds mu.
func (p *PersistentJar) save(u *url.URL, cookies []*http.Cookie) {
	byURL := map[string][]storedCookie{}
	if data, err := os.ReadFile(p.path); err == nil {
		_ = json.Unmarshal(data, &byURL)
	}

	key := u.Scheme + "://" + u.Host
	existing := byURL[key]
	for _, c := range cookies {
		replaced := false
		sc := storedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HTTPOnly: c.HttpOnly,
		}
		for i := range existing {
			if existing[i].Name == c.Name {
				existing[i] = sc
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, sc)
		}
	}
	byURL[key] = existing

	data, err := json.MarshalIndent(byURL, "", "  ")
	if err != nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return
	}
	// The session cookie is a credential; keep the file private.
	_ = os.WriteFile(p.path, data, 0o600)
}
