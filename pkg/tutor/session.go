package tutor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
)

// Session tags every chat with one backend session, opened on the first send.
// Backends without /start_session are talked to sessionless.
type Session struct {
	client *Client
	start  StartSessionRequest

	mu         sync.Mutex
	id         string
	opened     bool
	difficulty string
}

// NewSession wraps client; nothing is sent until the first Chat.
func NewSession(client *Client, req StartSessionRequest) *Session {
	return &Session{client: client, start: req, difficulty: req.StartingLevel}
}

// Chat sends req inside the session, opening it first if needed. A backend that
// has forgotten the session gets one fresh session and a single retry.
func (s *Session) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	id, err := s.ensure(ctx)
	if err != nil {
		return ChatResponse{}, err
	}
	req.SessionID = id

	resp, err := s.client.Chat(ctx, req)
	if id != "" && isSessionRejected(err) {
		slog.Warn("tutor_session_rejected", "session_id", id, "error", err)
		s.forget(id)
		if req.SessionID, err = s.ensure(ctx); err != nil {
			return ChatResponse{}, err
		}
		resp, err = s.client.Chat(ctx, req)
	}
	if err != nil {
		return ChatResponse{}, err
	}

	s.mu.Lock()
	if resp.SessionID != "" && s.opened {
		s.id = resp.SessionID
	}
	if resp.Difficulty != "" {
		s.difficulty = resp.Difficulty
	}
	s.mu.Unlock()
	return resp, nil
}

// Summary returns the stored mistake history, which is not scoped to the session.
func (s *Session) Summary(ctx context.Context) (SummaryResponse, error) {
	return s.client.Summary(ctx)
}

// ID returns the open session id, or "" before the first send.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Difficulty returns the level the backend last reported.
func (s *Session) Difficulty() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.difficulty
}

// Close ends the open session, if any. It is safe to call more than once.
func (s *Session) Close(ctx context.Context) (SessionSummary, error) {
	s.mu.Lock()
	id := s.id
	s.id = ""
	s.opened = false
	s.mu.Unlock()

	if id == "" {
		return SessionSummary{}, nil
	}
	summary, err := s.client.EndSession(ctx, id)
	if err != nil {
		return SessionSummary{}, fmt.Errorf("end session: %w", err)
	}
	return summary, nil
}

func (s *Session) ensure(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opened {
		return s.id, nil
	}

	info, err := s.client.StartSession(ctx, s.start)
	if err != nil {
		if isEndpointMissing(err) {
			slog.Info("tutor_session_unsupported", "error", err)
			s.opened = true
			return "", nil
		}
		return "", fmt.Errorf("start session: %w", err)
	}
	s.id = info.ID
	s.opened = true
	if info.Difficulty != "" {
		s.difficulty = info.Difficulty
	}
	return s.id, nil
}

func (s *Session) forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id == id {
		s.id = ""
		s.opened = false
	}
}

func isEndpointMissing(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.StatusCode == http.StatusNotFound || statusErr.StatusCode == http.StatusMethodNotAllowed
}

func isSessionRejected(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.StatusCode == http.StatusBadRequest && strings.Contains(statusErr.Message, "session_id")
}
