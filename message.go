package scribe

import "time"

// Message is a single role-tagged entry in the transcript.
type Message struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

// UserMessage returns a user message stamped with the given time.
func UserMessage(content string, ts time.Time) Message {
	return Message{Role: RoleUser, Content: content, Timestamp: ts}
}

// AssistantMessage returns an assistant message stamped with the given time.
func AssistantMessage(content string, ts time.Time) Message {
	return Message{Role: RoleAssistant, Content: content, Timestamp: ts}
}
