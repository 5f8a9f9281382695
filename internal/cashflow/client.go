package cashflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aruskas/internal/log"
)

// ErrUnexpectedPayload marks a response body that is not the JSON shape the
// endpoint is documented to return (e.g. a non-array list payload).
var ErrUnexpectedPayload = errors.New("unexpected response payload")

// APIError is a non-2xx response from the remote API. The body is kept for
// diagnostics; it is logged, never parsed.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote API returned %d: %s", e.StatusCode, e.Body)
}

// Client is a thin REST client for the remote cash-flow resource. The
// resource exposes GET (list), POST (create), PUT /{id} and DELETE /{id};
// there is no server-side filtering or pagination.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the given resource URL, e.g.
// "https://example.com/cashflows". A non-positive timeout defaults to 15s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// List fetches every record. A payload that is not a JSON array yields
// ErrUnexpectedPayload so the caller can default instead of failing.
func (c *Client) List(ctx context.Context) ([]Record, error) {
	body, err := c.do(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedPayload, err)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected array, got %s", ErrUnexpectedPayload, snippet(trimmed))
	}
	var recs []Record
	if err := json.Unmarshal(trimmed, &recs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedPayload, err)
	}
	return recs, nil
}

// Create posts a new record and returns the backend's copy of it.
func (c *Client) Create(ctx context.Context, rec Record) (Record, error) {
	body, err := c.do(ctx, http.MethodPost, c.baseURL, rec)
	if err != nil {
		return Record{}, err
	}
	return decodeRecord(body)
}

// Update replaces the identified record and returns the backend's copy.
func (c *Client) Update(ctx context.Context, id string, rec Record) (Record, error) {
	body, err := c.do(ctx, http.MethodPut, c.itemURL(id), rec)
	if err != nil {
		return Record{}, err
	}
	return decodeRecord(body)
}

// Delete removes the identified record.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, c.itemURL(id), nil)
	return err
}

func (c *Client) itemURL(id string) string {
	return c.baseURL + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, target string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	// Cap the body read; the list endpoint has no pagination but the
	// records are small.
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: snippet(data)}
		slog.ErrorContext(ctx, "Remote API request failed",
			log.FieldMethod, method,
			"url", target,
			log.FieldStatus, resp.StatusCode,
			"body", apiErr.Body)
		return nil, apiErr
	}
	return data, nil
}

func decodeRecord(body []byte) (Record, error) {
	var rec Record
	if len(bytes.TrimSpace(body)) == 0 {
		return rec, nil
	}
	if err := json.Unmarshal(body, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrUnexpectedPayload, err)
	}
	return rec, nil
}

func snippet(b []byte) string {
	const max = 256
	s := string(b)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
