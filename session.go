package scribe

import (
	"fmt"
	"time"
)

// Greeting is the assistant message that opens every new session.
const Greeting = "Hey there! I am here to turn your ideas into awesome content?"

// Session is the in-memory state of one conversation: the transcript sent
// to the model and the replay history of raw user inputs. The two are
// independent; History is never deduplicated or trimmed.
type Session struct {
	ID        string
	Messages  []Message
	History   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession creates a session whose transcript starts with the greeting.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Messages:  []Message{AssistantMessage(Greeting, now)},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Submit records a user input in both the transcript and the replay history.
func (s *Session) Submit(input string, now time.Time) {
	s.Messages = append(s.Messages, UserMessage(input, now))
	s.History = append(s.History, input)
	s.UpdatedAt = now
}

// Reply appends the resolved assistant reply to the transcript.
func (s *Session) Reply(content string, now time.Time) {
	s.Messages = append(s.Messages, AssistantMessage(content, now))
	s.UpdatedAt = now
}

// HistoryEntry returns the k-th replay history entry (0 = oldest).
func (s *Session) HistoryEntry(k int) (string, error) {
	if k < 0 || k >= len(s.History) {
		return "", fmt.Errorf("entry %d of %d: %w", k, len(s.History), ErrHistoryIndex)
	}
	return s.History[k], nil
}

// HistoryItem pairs a replay history entry with its index in Session.History.
type HistoryItem struct {
	Index int
	Text  string
}

// RecentHistory lists the replay history most-recent-first, the order in
// which sidebars display it. Index always refers back to Session.History.
func (s *Session) RecentHistory() []HistoryItem {
	items := make([]HistoryItem, len(s.History))
	for i := range s.History {
		k := len(s.History) - 1 - i
		items[i] = HistoryItem{Index: k, Text: s.History[k]}
	}
	return items
}
