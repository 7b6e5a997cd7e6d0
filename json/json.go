// Package json defines the JSON wire format for scribe sessions.
package json

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/scribe"
	"github.com/fwojciec/scribe/dispatch"
)

// Version is the current envelope version.
const Version = 1

// Session is the v1 wire format for a session snapshot. History is listed
// most-recent-first; each entry's Index refers back to the replay history.
type Session struct {
	Version   int            `json:"version"`
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Messages  []Message      `json:"messages"`
	History   []HistoryEntry `json:"history"`
}

// Message is the JSON representation of a transcript message.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryEntry is one row of the replay history.
type HistoryEntry struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Outcome describes how the last turn was resolved.
type Outcome struct {
	Text   string `json:"text"`
	Tool   string `json:"tool,omitempty"`
	Failed bool   `json:"failed"`
}

// FromOutcome converts a resolved turn into its wire representation.
func FromOutcome(o dispatch.Outcome) Outcome {
	return Outcome{Text: o.Text, Tool: string(o.Tool), Failed: o.Failed}
}

// FromSession converts a session into its wire representation.
func FromSession(s *scribe.Session) Session {
	out := Session{
		Version:   Version,
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Messages:  make([]Message, len(s.Messages)),
		History:   make([]HistoryEntry, 0, len(s.History)),
	}
	for i, msg := range s.Messages {
		out.Messages[i] = Message{Role: string(msg.Role), Content: msg.Content, Timestamp: msg.Timestamp}
	}
	for _, item := range s.RecentHistory() {
		out.History = append(out.History, HistoryEntry{Index: item.Index, Text: item.Text})
	}
	return out
}

// ToSession converts a wire session back into a scribe.Session.
func ToSession(env Session) (*scribe.Session, error) {
	if env.Version != Version {
		return nil, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	s := &scribe.Session{
		ID:        env.ID,
		CreatedAt: env.CreatedAt,
		UpdatedAt: env.UpdatedAt,
		Messages:  make([]scribe.Message, len(env.Messages)),
		History:   make([]string, len(env.History)),
	}
	for i, dto := range env.Messages {
		role := scribe.Role(dto.Role)
		if role != scribe.RoleUser && role != scribe.RoleAssistant {
			return nil, fmt.Errorf("message %d: unknown role %q", i, dto.Role)
		}
		s.Messages[i] = scribe.Message{Role: role, Content: dto.Content, Timestamp: dto.Timestamp}
	}
	seen := make([]bool, len(env.History))
	for _, h := range env.History {
		if h.Index < 0 || h.Index >= len(env.History) || seen[h.Index] {
			return nil, fmt.Errorf("history entry %d: %w", h.Index, scribe.ErrHistoryIndex)
		}
		seen[h.Index] = true
		s.History[h.Index] = h.Text
	}
	return s, nil
}

// MarshalSession serializes a session in v1 envelope format.
func MarshalSession(s *scribe.Session) ([]byte, error) {
	return json.MarshalIndent(FromSession(s), "", "  ")
}

// UnmarshalSession deserializes a session from v1 envelope format.
func UnmarshalSession(data []byte) (*scribe.Session, error) {
	var env Session
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return ToSession(env)
}
