package tutor

import (
	"encoding/json"
	"strings"
)

// ChatRequest is the body posted to /chat.
type ChatRequest struct {
	Message  string `json:"message"`
	Language string `json:"language"`

	// Set by Session; sessionless backends never see the field.
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the decoded /chat reply.
type ChatResponse struct {
	Reply string

	// Populated when the backend answers with the structured tutor payload.
	Feedback      *Feedback
	SessionID     string
	Difficulty    string
	MistakeLogged bool
	Severity      string
}

// Feedback is the structured correction some backends return alongside (or instead of) reply.
type Feedback struct {
	Corrected   string `json:"corrected,omitempty"`
	Explanation string `json:"explanation,omitempty"`
	Example     string `json:"example,omitempty"`
	Tip         string `json:"tip,omitempty"`
	Raw         string `json:"raw,omitempty"`
}

// HasSections reports whether the tutor filled any structured section.
func (f Feedback) HasSections() bool {
	return f.Corrected != "" || f.Explanation != "" || f.Example != "" || f.Tip != ""
}

// Text lays the sections out as labelled paragraphs, falling back to Raw.
func (f Feedback) Text() string {
	if !f.HasSections() {
		return f.Raw
	}
	var parts []string
	for _, section := range []struct{ label, body string }{
		{"Corrected", f.Corrected},
		{"Explanation", f.Explanation},
		{"Example", f.Example},
		{"Tip", f.Tip},
	} {
		if body := strings.TrimSpace(section.body); body != "" {
			parts = append(parts, section.label+": "+body)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Mistake is one server-owned correction record.
type Mistake struct {
	UserInput  string `json:"user_input"`
	Correction string `json:"correction"`

	ID         int64  `json:"id,omitempty"`
	UserID     string `json:"user_id,omitempty"`
	Severity   string `json:"severity,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
}

// UnmarshalJSON accepts both the named form and the {"row": [...]} form the
// backend emits for short database rows (user_input, correction first).
func (m *Mistake) UnmarshalJSON(data []byte) error {
	type named Mistake
	var wire struct {
		named
		Row []json.RawMessage `json:"row"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*m = Mistake(wire.named)
	if m.UserInput != "" || m.Correction != "" || len(wire.Row) < 2 {
		return nil
	}
	m.UserInput = rowText(wire.Row[0])
	m.Correction = rowText(wire.Row[1])
	return nil
}

func rowText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// SummaryResponse is the decoded /summary reply.
type SummaryResponse struct {
	Mistakes      []Mistake `json:"mistakes"`
	TotalMistakes int       `json:"total_mistakes,omitempty"`
}

// StartSessionRequest is the optional body posted to /start_session.
type StartSessionRequest struct {
	UserID        string `json:"user_id,omitempty"`
	StartingLevel string `json:"starting_level,omitempty"`
}

// SessionInfo is the /start_session reply.
type SessionInfo struct {
	ID         string `json:"session_id"`
	Difficulty string `json:"difficulty"`
	UserID     string `json:"user_id"`
}

// SessionSummary is what /end_session reports for the closed session.
type SessionSummary struct {
	TotalMessages int             `json:"total_messages"`
	TotalMistakes int             `json:"total_mistakes"`
	Details       []SessionRecord `json:"mistake_details"`
	FinalLevel    string          `json:"final_level"`
}

// SessionRecord is one interaction with a logged mistake.
type SessionRecord struct {
	UserInput  string `json:"user_input"`
	Mistake    string `json:"mistake"`
	Severity   string `json:"severity"`
	Difficulty string `json:"difficulty"`
}

type chatPayload struct {
	Reply         *string   `json:"reply"`
	Response      *Feedback `json:"response"`
	SessionID     string    `json:"session_id"`
	Difficulty    string    `json:"difficulty"`
	MistakeLogged bool      `json:"mistake_logged"`
	Severity      *string   `json:"severity"`
}

type summaryPayload struct {
	Mistakes      *[]Mistake `json:"mistakes"`
	TotalMistakes int        `json:"total_mistakes"`
}

type endSessionPayload struct {
	SessionID string          `json:"session_id"`
	Summary   *SessionSummary `json:"summary"`
}

type errorPayload struct {
	Error string `json:"error"`
}
