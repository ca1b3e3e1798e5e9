// Package httpapi implements the service.Service interface over the
// TaskScribe REST API.
package httpapi

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
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"taskscribe/internal/config"
	"taskscribe/internal/service"
	"taskscribe/internal/session"
)

const (
	// RequestIDHeader carries a per-call id for correlating service logs.
	RequestIDHeader = "X-Request-ID"

	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 64 << 10
)

var _ service.Service = (*Client)(nil)

// Client implements service.Service using the TaskScribe REST API.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a client for cfg.BaseURL. Every request is authorized with a
// bearer token from ts.
func New(ctx context.Context, cfg *config.Config, ts oauth2.TokenSource) (*Client, error) {
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", cfg.BaseURL, err)
	}
	c := NewWithHTTPClient(cfg.BaseURL, oauth2.NewClient(ctx, ts), cfg.Log)
	c.timeout = cfg.Timeout
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
// The caller is responsible for any authorization on httpClient.
func NewWithHTTPClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		timeout: config.DefaultTimeout,
		logger:  logger,
	}
}

// ListTasks returns every task.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Extract submits a transcript for extraction.
func (c *Client) Extract(ctx context.Context, text string) error {
	return c.do(ctx, http.MethodPost, "/extract", struct {
		Text string `json:"text"`
	}{text}, nil)
}

// CompleteTask marks a task completed.
func (c *Client) CompleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPut, taskPath(id)+"/complete", nil, nil)
}

// ReopenTask marks a task open again.
func (c *Client) ReopenTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPut, taskPath(id)+"/undo", nil, nil)
}

// UpdateTask replaces the editable fields of a task.
func (c *Client) UpdateTask(ctx context.Context, id int64, fields service.TaskFields) error {
	return c.do(ctx, http.MethodPut, taskPath(id), updateBody(fields), nil)
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

func taskPath(id int64) string {
	return "/tasks/" + strconv.FormatInt(id, 10)
}

// updateBody sends null for cleared optional fields, as the service models
// owner and deadline as nullable.
func updateBody(f service.TaskFields) map[string]any {
	body := map[string]any{
		"description": f.Description,
		"owner":       nil,
		"deadline":    nil,
		"priority":    f.Priority,
	}
	if f.Owner != "" {
		body["owner"] = f.Owner
	}
	if f.Deadline != "" {
		body["deadline"] = f.Deadline
	}
	return body
}

// do performs one request. in is JSON-encoded when non-nil; out is decoded
// from a 2xx response when non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "request_id", reqID, "err", err)
		return wrapTransportError(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: invalid response: %v", service.ErrUnavailable, err)
	}
	return nil
}

// wrapTransportError classifies errors that happened before a response.
func wrapTransportError(err error) error {
	switch {
	case errors.Is(err, session.ErrNoSession), errors.Is(err, session.ErrExpired):
		return fmt.Errorf("%w: %v", service.ErrUnauthorized, errors.Unwrap(err))
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: request timed out", service.ErrUnavailable)
	case errors.Is(err, context.Canceled):
		return err
	}
	return fmt.Errorf("%w: %v", service.ErrUnavailable, err)
}

// statusError maps a non-2xx response to a service error class.
func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail := errorDetail(data)
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", service.ErrUnauthorized, detail)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", service.ErrNotFound, detail)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return fmt.Errorf("%w: %s", service.ErrRejected, detail)
	}
	return fmt.Errorf("%w: %d %s", service.ErrUnavailable, resp.StatusCode, detail)
}

// errorDetail extracts the "detail" member of an error body. Validation
// errors carry a list of objects with a "msg" member.
func errorDetail(data []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return strings.TrimSpace(string(data))
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return string(body.Detail)
}
