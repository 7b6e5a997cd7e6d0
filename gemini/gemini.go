// Package gemini implements [scribe.Provider] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating between scribe's
// domain types and the Gemini API types. Replies are classified into a
// [scribe.Reply]: native function calls map to tool calls directly, and text
// replies go through package marker.
package gemini

const (
	defaultModel = "gemini-2.5-pro"

	roleUser  = "user"
	roleModel = "model"
)
