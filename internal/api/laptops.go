package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/lapdeck/lapdeck/internal/errors"
)

// Laptop represents a catalog entry
type Laptop struct {
	ID          string    `json:"id"`
	Brand       string    `json:"brand"`
	Model       string    `json:"model"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// LaptopInput carries the writable catalog fields
type LaptopInput struct {
	Brand       string  `json:"brand"`
	Model       string  `json:"model"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

// ListLaptops retrieves the full catalog
func (c *Client) ListLaptops(ctx context.Context) ([]Laptop, error) {
	resp, err := c.doRequest(ctx, "GET", "/api/laptops", nil)
	if err != nil {
		return nil, err
	}

	var laptops []Laptop
	if err := parseResponse(resp, &laptops); err != nil {
		return nil, err
	}

	return laptops, nil
}

// GetLaptop retrieves a single catalog entry by ID
func (c *Client) GetLaptop(ctx context.Context, id string) (*Laptop, error) {
	path := fmt.Sprintf("/api/laptops/%s", url.PathEscape(id))
	resp, err := c.doRequest(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, apperrors.NewLaptopNotFoundError(id)
	}

	var laptop Laptop
	if err := parseResponse(resp, &laptop); err != nil {
		return nil, err
	}

	return &laptop, nil
}

// CreateLaptop adds a new catalog entry
func (c *Client) CreateLaptop(ctx context.Context, input LaptopInput) (*Laptop, error) {
	resp, err := c.doRequest(ctx, "POST", "/api/laptops", input)
	if err != nil {
		return nil, err
	}

	var laptop Laptop
	if err := parseResponse(resp, &laptop); err != nil {
		return nil, err
	}

	return &laptop, nil
}

// UpdateLaptop replaces the writable fields of an existing entry
func (c *Client) UpdateLaptop(ctx context.Context, id string, input LaptopInput) (*Laptop, error) {
	path := fmt.Sprintf("/api/laptops/%s", url.PathEscape(id))
	resp, err := c.doRequest(ctx, "PUT", path, input)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, apperrors.NewLaptopNotFoundError(id)
	}

	var laptop Laptop
	if err := parseResponse(resp, &laptop); err != nil {
		return nil, err
	}

	return &laptop, nil
}

// DeleteLaptop removes a catalog entry
func (c *Client) DeleteLaptop(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/laptops/%s", url.PathEscape(id))
	resp, err := c.doRequest(ctx, "DELETE", path, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return apperrors.NewLaptopNotFoundError(id)
	}

	return parseResponse(resp, nil)
}
