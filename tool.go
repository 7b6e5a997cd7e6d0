package scribe

import (
	"context"
	"encoding/json"
)

// ToolName identifies one of the external capabilities a reply can invoke.
type ToolName string

const (
	ToolGrammar  ToolName = "correct_grammar"
	ToolContent  ToolName = "create_content"
	ToolSynonyms ToolName = "suggest_synonyms"
)

// ToolNames lists the tools in marker-matching order.
var ToolNames = []ToolName{ToolGrammar, ToolContent, ToolSynonyms}

// Task returns the human-readable task label used in error messages.
func (n ToolName) Task() string {
	switch n {
	case ToolGrammar:
		return "grammar correction"
	case ToolContent:
		return "content creation"
	case ToolSynonyms:
		return "synonym suggestion"
	default:
		return string(n)
	}
}

// Param returns the name of the payload key the tool requires.
func (n ToolName) Param() string {
	switch n {
	case ToolGrammar:
		return "text"
	case ToolContent:
		return "prompt"
	case ToolSynonyms:
		return "word"
	default:
		return ""
	}
}

// Valid reports whether n names a known tool.
func (n ToolName) Valid() bool {
	return n.Param() != ""
}

// ToolCall is a parsed tool invocation. It is derived from a model reply and
// consumed immediately by the dispatcher; it is never stored.
type ToolCall struct {
	Name    ToolName
	Payload map[string]string
}

// Arg returns the tool's required argument and whether it was present.
func (c ToolCall) Arg() (string, bool) {
	v, ok := c.Payload[c.Name.Param()]
	return v, ok
}

// Tool is the schema sent to the model describing a tool's capabilities.
type Tool struct {
	Name        ToolName
	Description string
	Parameters  json.RawMessage
}

// ToolExecutor runs tool calls. The returned string is the final reply text.
type ToolExecutor interface {
	Execute(ctx context.Context, call ToolCall) (string, error)
}

// Corrector corrects grammar in a piece of text.
type Corrector interface {
	Correct(ctx context.Context, text string) (string, error)
}

// Thesaurus looks up synonyms for a single word.
type Thesaurus interface {
	Synonyms(ctx context.Context, word string) ([]string, error)
}
