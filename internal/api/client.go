// Package api is the typed client for the storefront backend's admin REST
// surface. Every call attaches the session bearer token; the client never
// retries, caches or imposes its own timeout.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/beyoung-commerce/admin-console/internal/domain"
	"go.uber.org/zap"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a client for the backend at baseURL. tlsConfig may be nil;
// when set it is installed on the transport (SPIFFE mTLS to the backend).
func NewClient(baseURL string, tlsConfig *tls.Config, logger *zap.Logger) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if tlsConfig != nil {
		transport.TLSClientConfig = tlsConfig
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Transport: transport},
		logger:     logger,
	}
}

// Login exchanges staff credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := domain.LoginRequest{Email: email, Password: password}

	resp, err := c.do(ctx, http.MethodPost, "/admin/auth/login", body, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg := serverMessage(resp.Body, "Login failed")
		c.logger.Warn("Login rejected",
			zap.String("email", email),
			zap.Int("status", resp.StatusCode))
		return "", &AuthError{Message: msg}
	}

	var out domain.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &NetworkError{Message: genericMessage, Err: err}
	}
	return out.Token, nil
}

// ListProducts fetches the full product list. A missing token short-circuits
// to an empty result without touching the network.
func (c *Client) ListProducts(ctx context.Context, token string) ([]domain.Product, error) {
	if token == "" {
		return []domain.Product{}, nil
	}

	resp, err := c.do(ctx, http.MethodGet, "/admin/products", nil, token)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.errorFrom(resp)
	}

	var products []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, &NetworkError{Message: genericMessage, Err: err}
	}
	return products, nil
}

// CreateProduct persists a new product and returns it with its assigned ID.
func (c *Client) CreateProduct(ctx context.Context, payload domain.Product, token string) (domain.Product, error) {
	if token == "" {
		return domain.Product{}, &AuthError{Message: "Authentication Error: Please login again."}
	}

	resp, err := c.do(ctx, http.MethodPost, "/admin/products", payload, token)
	if err != nil {
		return domain.Product{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return domain.Product{}, c.errorFrom(resp)
	}

	var created domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return domain.Product{}, &NetworkError{Message: genericMessage, Err: err}
	}
	return created, nil
}

// UpdateProduct replaces the product with the given ID.
func (c *Client) UpdateProduct(ctx context.Context, id string, payload domain.Product, token string) (domain.Product, error) {
	if token == "" {
		return domain.Product{}, &AuthError{Message: "Authentication Error: Please login again."}
	}

	resp, err := c.do(ctx, http.MethodPut, "/admin/products/"+id, payload, token)
	if err != nil {
		return domain.Product{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Product{}, ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Product{}, c.errorFrom(resp)
	}

	var updated domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return domain.Product{}, &NetworkError{Message: genericMessage, Err: err}
	}
	return updated, nil
}

// DeleteProduct removes the product with the given ID.
func (c *Client) DeleteProduct(ctx context.Context, id string, token string) error {
	if token == "" {
		return &AuthError{Message: "Authentication Error: Please login again."}
	}

	resp, err := c.do(ctx, http.MethodDelete, "/admin/products/"+id, nil, token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return c.errorFrom(resp)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, token string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, &NetworkError{Message: genericMessage, Err: err}
	}
	return resp, nil
}

// errorFrom translates a non-2xx response into the matching error kind,
// preferring the server's own message field.
func (c *Client) errorFrom(resp *http.Response) error {
	msg := serverMessage(resp.Body, genericMessage)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Message: msg}
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return &ValidationError{Message: msg}
	default:
		return &NetworkError{Status: resp.StatusCode, Message: msg}
	}
}

func serverMessage(r io.Reader, fallback string) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil || body.Message == "" {
		return fallback
	}
	return body.Message
}
