// Package apiclient talks to the timeline HTTP API on behalf of the terminal client.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/inkinno/projects/internal/contracts"
	"github.com/inkinno/projects/internal/domain"
)

// APIError is a non-success envelope returned by the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error %d %s", e.StatusCode, e.Code)
	}
	return e.Message
}

// Unwrap maps server error codes back onto domain sentinels.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "VALIDATION_ERROR":
		return domain.ErrValidation
	case "CLASSIFICATION_ERROR":
		return domain.ErrClassification
	case "NOT_FOUND":
		return domain.ErrNotFound
	case "UNAUTHORIZED":
		return domain.ErrUnauthorized
	case "FORBIDDEN":
		return domain.ErrForbidden
	case "CASCADE_INCOMPLETE":
		return domain.ErrCascadeIncomplete
	case "STORE_ERROR":
		return domain.ErrStore
	default:
		return nil
	}
}

type Config struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("api base url is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{baseURL: base, token: strings.TrimSpace(cfg.Token), httpClient: httpClient}, nil
}

func (c *Client) ListServices(ctx context.Context) ([]contracts.ServiceResponse, error) {
	var out []contracts.ServiceResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/services", nil, nil, &out)
	return out, err
}

func (c *Client) CreateService(ctx context.Context) (contracts.ServiceResponse, error) {
	var out contracts.ServiceResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/services", nil, nil, &out)
	return out, err
}

func (c *Client) UpdateService(ctx context.Context, serviceID string, req contracts.UpdateServiceRequest) (contracts.ServiceResponse, error) {
	var out contracts.ServiceResponse
	err := c.do(ctx, http.MethodPatch, "/api/v1/services/"+url.PathEscape(serviceID), nil, req, &out)
	return out, err
}

// DeleteService returns the cascade report even when the cascade was incomplete.
func (c *Client) DeleteService(ctx context.Context, serviceID string) (contracts.DeleteServiceResponse, error) {
	var out contracts.DeleteServiceResponse
	err := c.do(ctx, http.MethodDelete, "/api/v1/services/"+url.PathEscape(serviceID), nil, nil, &out)
	return out, err
}

func (c *Client) ListEvents(ctx context.Context, rng *domain.DateRange) ([]contracts.EventResponse, error) {
	q := url.Values{}
	if rng != nil {
		q.Set("start", rng.Start)
		q.Set("end", rng.End)
	}
	var out []contracts.EventResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/events", q, nil, &out)
	return out, err
}

func (c *Client) CreateEvent(ctx context.Context, req contracts.CreateEventRequest) (contracts.EventResponse, error) {
	var out contracts.EventResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/events", nil, req, &out)
	return out, err
}

func (c *Client) Timeline(ctx context.Context, rng domain.DateRange, mode, order string) (contracts.GridResponse, error) {
	q := url.Values{}
	q.Set("start", rng.Start)
	q.Set("end", rng.End)
	if mode != "" {
		q.Set("mode", mode)
	}
	if order != "" {
		q.Set("order", order)
	}
	var out contracts.GridResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/timeline", q, nil, &out)
	return out, err
}

// SignIn exchanges an identity credential for a session and keeps the token for later calls.
func (c *Client) SignIn(ctx context.Context, credential string) (contracts.SessionResponse, error) {
	var out contracts.SessionResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v1/session", nil, contracts.SignInRequest{Credential: credential}, &out); err != nil {
		return out, err
	}
	c.token = out.Token
	return out, nil
}

func (c *Client) Calendar(ctx context.Context, rng *domain.DateRange) ([]byte, error) {
	q := url.Values{}
	if rng != nil {
		q.Set("start", rng.Start)
		q.Set("end", rng.End)
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/calendar.ics", q, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, decodeError(resp.StatusCode, body)
	}
	return body, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dst any) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env contracts.Envelope[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	if len(env.Data) > 0 && dst != nil {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			return fmt.Errorf("decode %s %s data: %w", method, path, err)
		}
	}
	if env.Status != "success" || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Code: env.Code, Message: env.Message}
	}
	return nil
}

func decodeError(status int, raw []byte) error {
	var env contracts.Envelope[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err != nil {
		return &APIError{StatusCode: status, Code: "INTERNAL_ERROR", Message: strings.TrimSpace(string(raw))}
	}
	return &APIError{StatusCode: status, Code: env.Code, Message: env.Message}
}
