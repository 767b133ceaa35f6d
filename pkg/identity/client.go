package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/MaximusTitan/cms-api/pkg/config"
)

// CreateUserParams holds the fields required to register a user with the
// hosted identity provider.
type CreateUserParams struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// UpdateUserParams holds mutable identity fields. Password is only sent
// when non-empty.
type UpdateUserParams struct {
	Username  string `json:"username"`
	Password  string `json:"password,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Provider is the contract the services depend on. Errors are opaque:
// any failure aborts the operation that triggered the call.
type Provider interface {
	CreateUser(ctx context.Context, params CreateUserParams) (string, error)
	UpdateUser(ctx context.Context, id string, params UpdateUserParams) error
	DeleteUser(ctx context.Context, id string) error
}

// Client talks to the hosted identity provider's REST API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

var _ Provider = (*Client)(nil)

// NewClient constructs a Client from configuration.
func NewClient(cfg config.IdentityConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type createUserResponse struct {
	ID string `json:"id"`
}

// CreateUser registers a user and returns the provider-assigned id.
func (c *Client) CreateUser(ctx context.Context, params CreateUserParams) (string, error) {
	var out createUserResponse
	if err := c.do(ctx, http.MethodPost, "/v1/users", params, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("identity provider returned empty user id")
	}
	return out.ID, nil
}

// UpdateUser modifies an existing identity record.
func (c *Client) UpdateUser(ctx context.Context, id string, params UpdateUserParams) error {
	return c.do(ctx, http.MethodPatch, "/v1/users/"+url.PathEscape(id), params, nil)
}

// DeleteUser removes an identity record.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/users/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal identity payload: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("identity request %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return fmt.Errorf("identity provider responded %d: %s", res.StatusCode, raw)
	}

	if dest != nil {
		if err := json.NewDecoder(res.Body).Decode(dest); err != nil {
			return fmt.Errorf("decode identity response: %w", err)
		}
	}
	return nil
}
