package api

import (
	"context"
	"strings"
)

// User represents an account as the service reports it. Email is the
// identity; the remaining fields are optional.
type User struct {
	Email             string `json:"email"`
	FirstName         string `json:"firstName,omitempty"`
	LastName          string `json:"lastName,omitempty"`
	ProfilePictureRef string `json:"profilePictureRef,omitempty"`
}

// DisplayName returns the best human-readable name for the user.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// ProfileUpdate carries the editable profile fields
type ProfileUpdate struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// ProfileUpdateResult is the service's response to a profile update.
// RequireReLogin is set when the change (an email change) invalidates the
// current session; User carries the confirmed record otherwise.
type ProfileUpdateResult struct {
	Message        string `json:"message"`
	RequireReLogin bool   `json:"requireReLogin,omitempty"`
	User           *User  `json:"user,omitempty"`
}

// Register creates a new account. Registering does not log the user in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	resp, err := c.doRequest(ctx, "POST", "/api/auth/register", req)
	if err != nil {
		return err
	}

	return parseResponse(resp, nil)
}

// Login authenticates with the service. The session cookie set by the
// response lands in the client's jar for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	req := LoginRequest{
		Email:    email,
		Password: password,
	}

	resp, err := c.doRequest(ctx, "POST", "/api/auth/login", req)
	if err != nil {
		return nil, err
	}

	var user User
	if err := parseResponse(resp, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// Logout asks the service to invalidate the session behind the cookie.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.doRequest(ctx, "POST", "/api/auth/logout", struct{}{})
	if err != nil {
		return err
	}

	return parseResponse(resp, nil)
}

// CurrentUser asks who the current session cookie belongs to. A failure is
// the normal answer for "nobody".
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	resp, err := c.doRequest(ctx, "GET", "/api/auth/me", nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := parseResponse(resp, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// UpdateProfile submits changed profile fields for the logged-in user.
func (c *Client) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*ProfileUpdateResult, error) {
	resp, err := c.doRequest(ctx, "PUT", "/api/auth/profile", upd)
	if err != nil {
		return nil, err
	}

	var result ProfileUpdateResult
	if err := parseResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
