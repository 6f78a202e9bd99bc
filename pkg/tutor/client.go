package tutor

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

	"lingochat/pkg/config"
)

const maxErrorBody = 512

var (
	// ErrMissingReply is returned when a /chat response carries no reply text.
	ErrMissingReply = errors.New("response has no reply")
	// ErrMissingMistakes is returned when a /summary response has no mistakes field.
	ErrMissingMistakes = errors.New("response has no mistakes")
	// ErrMissingSession is returned when /start_session answers without a session id.
	ErrMissingSession = errors.New("response has no session_id")
)

// StatusError reports a non-2xx answer from the backend.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Message    string // "error" field of a JSON error body, if any
}

func (e *StatusError) Error() string {
	detail := e.Message
	if detail == "" {
		detail = e.Body
	}
	if detail == "" {
		return fmt.Sprintf("%s %s failed (%d)", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s failed (%d): %s", e.Method, e.Path, e.StatusCode, detail)
}

// Client talks to the tutoring backend over HTTP.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// NewClient creates a client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, fmt.Errorf("base_url is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid base_url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base_url must include scheme and host")
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/")

	c := &Client{
		baseURL: parsed,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewClientFromConfig builds a client from the backend section of the config.
func NewClientFromConfig(cfg config.BackendConfig) (*Client, error) {
	return NewClient(cfg.BaseURL, WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
}

// BaseURL returns the backend root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Chat posts one learner message and returns the tutor's reply.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("marshal chat request: %w", err)
	}

	start := time.Now()
	slog.Debug("tutor_chat_request", "language", req.Language, "message_len", len(req.Message))

	var payload chatPayload
	if err := c.do(ctx, http.MethodPost, "/chat", bytes.NewReader(body), &payload); err != nil {
		slog.Error("tutor_chat_error", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return ChatResponse{}, err
	}

	resp := ChatResponse{
		Feedback:      payload.Response,
		SessionID:     payload.SessionID,
		Difficulty:    payload.Difficulty,
		MistakeLogged: payload.MistakeLogged,
	}
	if payload.Severity != nil {
		resp.Severity = *payload.Severity
	}

	switch {
	case payload.Reply != nil:
		resp.Reply = *payload.Reply
	case payload.Response != nil && payload.Response.Text() != "":
		resp.Reply = payload.Response.Text()
	default:
		slog.Error("tutor_chat_error", "error", ErrMissingReply)
		return ChatResponse{}, ErrMissingReply
	}

	slog.Info("tutor_chat_response",
		"language", req.Language,
		"session_id", req.SessionID,
		"reply_len", len(resp.Reply),
		"mistake_logged", resp.MistakeLogged,
		"severity", resp.Severity,
		"duration_ms", time.Since(start).Milliseconds())
	return resp, nil
}

// Summary fetches the recorded mistakes.
func (c *Client) Summary(ctx context.Context) (SummaryResponse, error) {
	start := time.Now()

	var payload summaryPayload
	if err := c.do(ctx, http.MethodGet, "/summary", nil, &payload); err != nil {
		slog.Error("tutor_summary_error", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return SummaryResponse{}, err
	}
	if payload.Mistakes == nil {
		slog.Error("tutor_summary_error", "error", ErrMissingMistakes)
		return SummaryResponse{}, ErrMissingMistakes
	}

	slog.Info("tutor_summary_response",
		"mistakes", len(*payload.Mistakes),
		"duration_ms", time.Since(start).Milliseconds())
	return SummaryResponse{
		Mistakes:      *payload.Mistakes,
		TotalMistakes: payload.TotalMistakes,
	}, nil
}

// StartSession opens a tutoring session on the backend.
func (c *Client) StartSession(ctx context.Context, req StartSessionRequest) (SessionInfo, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return SessionInfo{}, fmt.Errorf("marshal session request: %w", err)
	}

	var info SessionInfo
	if err := c.do(ctx, http.MethodPost, "/start_session", bytes.NewReader(body), &info); err != nil {
		slog.Error("tutor_session_start_error", "error", err)
		return SessionInfo{}, err
	}
	if info.ID == "" {
		return SessionInfo{}, ErrMissingSession
	}

	slog.Info("tutor_session_started", "session_id", info.ID, "difficulty", info.Difficulty)
	return info, nil
}

// EndSession closes a session and returns the backend's account of it.
func (c *Client) EndSession(ctx context.Context, id string) (SessionSummary, error) {
	body, err := json.Marshal(map[string]string{"session_id": id})
	if err != nil {
		return SessionSummary{}, fmt.Errorf("marshal session request: %w", err)
	}

	var payload endSessionPayload
	if err := c.do(ctx, http.MethodPost, "/end_session", bytes.NewReader(body), &payload); err != nil {
		slog.Error("tutor_session_end_error", "session_id", id, "error", err)
		return SessionSummary{}, err
	}
	if payload.Summary == nil {
		return SessionSummary{}, nil
	}

	slog.Info("tutor_session_ended",
		"session_id", id,
		"messages", payload.Summary.TotalMessages,
		"mistakes", payload.Summary.TotalMistakes,
		"final_level", payload.Summary.FinalLevel)
	return *payload.Summary, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	endpoint := *c.baseURL
	endpoint.Path = c.baseURL.Path + path

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
		var ep errorPayload
		if json.Unmarshal(raw, &ep) == nil {
			statusErr.Message = ep.Error
		}
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
