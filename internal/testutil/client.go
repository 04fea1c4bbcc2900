// Package testutil provides an API client and containers for integration tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
)

// Client is a taskboard API client. Each instance carries its own bearer
// token; WithToken and Login return copies, so clients never share
// credentials.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Validator  *OpenAPIValidator

	token string
	t     *testing.T
}

// NewClient creates a client without OpenAPI validation.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{},
	}
}

// NewClientWithValidator creates a client that checks every response against
// the OpenAPI document once a test is bound with SetT.
func NewClientWithValidator(baseURL string, validator *OpenAPIValidator) *Client {
	c := NewClient(baseURL)
	c.Validator = validator
	return c
}

// SetT binds the client to a test for validation failure reporting.
func (c *Client) SetT(t *testing.T) {
	c.t = t
}

// For returns a copy of the client bound to t.
func (c *Client) For(t *testing.T) *Client {
	clone := *c
	clone.t = t
	return &clone
}

// WithoutValidation returns a copy of the client with validation disabled.
// Use it for negative tests where the response is expected to be off-schema.
func (c *Client) WithoutValidation() *Client {
	clone := *c
	clone.Validator = nil
	return &clone
}

// WithToken returns a copy of the client that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// Token returns the bearer token of this client, if any.
func (c *Client) Token() string {
	return c.token
}

// AuthResponse is the body returned by register and login.
type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

// Register creates an account and returns a client authenticated as it.
// role may be empty.
func (c *Client) Register(t *testing.T, name, email, password, role string) (*Client, AuthResponse) {
	t.Helper()

	body := map[string]string{"name": name, "email": email, "password": password}
	if role != "" {
		body["role"] = role
	}
	return c.authenticate(t, "/api/auth/register", body)
}

// Login authenticates with email and password and returns a client carrying
// the issued token. The receiver is left unchanged.
func (c *Client) Login(t *testing.T, email, password string) (*Client, AuthResponse) {
	t.Helper()
	return c.authenticate(t, "/api/auth/login", map[string]string{"email": email, "password": password})
}

func (c *Client) authenticate(t *testing.T, path string, body map[string]string) (*Client, AuthResponse) {
	t.Helper()

	resp, err := c.For(t).POST(path, body)
	if err != nil {
		t.Fatalf("%s request failed: %v", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("%s failed: status=%d body=%s", path, resp.StatusCode, ReadBody(t, resp))
	}

	var auth AuthResponse
	DecodeJSON(t, resp, &auth)
	if auth.Token == "" {
		t.Fatalf("%s returned no token", path)
	}

	authed := c.WithToken(auth.Token)
	authed.t = t
	return authed, auth
}

// GET performs a GET request.
func (c *Client) GET(path string) (*http.Response, error) {
	return c.do(http.MethodGet, path, nil)
}

// POST performs a POST request with JSON body.
func (c *Client) POST(path string, body interface{}) (*http.Response, error) {
	return c.do(http.MethodPost, path, body)
}

// PUT performs a PUT request with JSON body.
func (c *Client) PUT(path string, body interface{}) (*http.Response, error) {
	return c.do(http.MethodPut, path, body)
}

// DELETE performs a DELETE request.
func (c *Client) DELETE(path string) (*http.Response, error) {
	return c.do(http.MethodDelete, path, nil)
}

func (c *Client) do(method, path string, body interface{}) (*http.Response, error) {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	if c.Validator != nil && c.t != nil {
		// The original body was consumed by the transport.
		validationReq, _ := http.NewRequest(method, c.BaseURL+path, bytes.NewReader(bodyBytes))
		validationReq.Header = req.Header
		c.Validator.ValidateResponse(c.t, validationReq, resp)
	}

	return resp, nil
}

// DecodeJSON decodes response body into v.
func DecodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// ReadBody reads and returns response body as string.
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

// Message decodes a {"message": ...} body.
func Message(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	DecodeJSON(t, resp, &body)
	return body.Message
}
