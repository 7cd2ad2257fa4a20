package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Login exchanges credentials for a token and user profile.
// On a non-2xx response the returned *APIError carries the backend's error
// message when present, otherwise a generic fallback with the status.
// No Authorization header is sent.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body, err := jsonBody(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/login", body, false)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	if !is2xx(resp.StatusCode) {
		return nil, errorFromResponse(resp, "login failed with status %d", resp.StatusCode)
	}

	var result LoginResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result); err != nil {
		return nil, fmt.Errorf("api: decode login response: %w", err)
	}
	if result.Token == "" {
		return nil, fmt.Errorf("api: login response missing token")
	}
	return &result, nil
}

// Register creates a new account. Registration is not auto-login: the
// response body is ignored on success and no session state is involved.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body, err := jsonBody(map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/register", body, false)
	if err != nil {
		return err
	}
	defer drain(resp)

	if !is2xx(resp.StatusCode) {
		return errorFromResponse(resp, "registration failed")
	}
	return nil
}

// Me fetches the current user's profile using the stored token.
// The backend may answer either {"user": {...}} or a bare user object;
// both shapes are accepted.
func (c *Client) Me(ctx context.Context) (*User, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/me", nil, true)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	if !is2xx(resp.StatusCode) {
		return nil, errorFromResponse(resp, "fetching profile failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("api: read profile response: %w", err)
	}

	var wrapper struct {
		User *User `json:"user"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.User != nil {
		return wrapper.User, nil
	}

	var bare User
	if err := json.Unmarshal(data, &bare); err == nil && bare.ID != 0 {
		return &bare, nil
	}
	return nil, fmt.Errorf("api: unexpected profile response shape")
}

// Products lists the catalog. The endpoint is public; no token is sent.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/products", nil, false,
		WithHeader("Accept", "application/json"))
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	if !is2xx(resp.StatusCode) {
		return nil, errorFromResponse(resp, "fetching products failed with status %d", resp.StatusCode)
	}

	var result struct {
		Products []Product `json:"products"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 8<<20)).Decode(&result); err != nil {
		return nil, fmt.Errorf("api: decode products response: %w", err)
	}
	if result.Products == nil {
		return []Product{}, nil
	}
	return result.Products, nil
}

// CreateProduct adds a catalog entry. Requires an admin token; the distinct
// rejection statuses map to stable user-facing messages (a 401 surfaces as
// ErrAuthRequired from the authenticated request path).
func (c *Client) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	body, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/products", body, true)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	switch {
	case is2xx(resp.StatusCode):
		// Fall through to decode below.
	case resp.StatusCode == http.StatusForbidden:
		return nil, &APIError{Status: resp.StatusCode, Message: "admin privileges required"}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &APIError{Status: resp.StatusCode, Message: "category not found"}
	case resp.StatusCode == http.StatusConflict:
		return nil, &APIError{Status: resp.StatusCode, Message: "SKU already exists"}
	default:
		return nil, errorFromResponse(resp, "creating product failed with status %d", resp.StatusCode)
	}

	var product Product
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&product); err != nil {
		return nil, fmt.Errorf("api: decode created product: %w", err)
	}
	return &product, nil
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}

func jsonBody(v any) (io.Reader, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("api: encode request body: %w", err)
	}
	return &buf, nil
}
