package scribe

import (
	"fmt"
	"strings"
)

// Validate checks universal constraints on Request.
// Provider implementations may apply additional provider-specific validation.
func (r Request) Validate() error {
	if r.Temperature != nil {
		if *r.Temperature < 0 || *r.Temperature > 2 {
			return fmt.Errorf("temperature must be in [0, 2], got %g: %w", *r.Temperature, ErrValidation)
		}
	}
	if r.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative, got %d: %w", r.MaxTokens, ErrValidation)
	}
	if len(r.Messages) == 0 {
		return fmt.Errorf("at least one message is required: %w", ErrValidation)
	}
	for i, msg := range r.Messages {
		if err := ValidateMessage(msg); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
	}
	for _, t := range r.Tools {
		if !t.Name.Valid() {
			return fmt.Errorf("tool %q: %w", t.Name, ErrToolNotFound)
		}
	}
	return nil
}

// ValidateMessage checks that a message has a known role and non-empty content.
func ValidateMessage(msg Message) error {
	switch msg.Role {
	case RoleUser, RoleAssistant:
	default:
		return fmt.Errorf("unknown role %q: %w", msg.Role, ErrValidation)
	}
	if strings.TrimSpace(msg.Content) == "" {
		return fmt.Errorf("empty %s message: %w", msg.Role, ErrValidation)
	}
	return nil
}
