package scribe

import "context"

// Provider is a strategy pattern interface for hosted language models.
// Generate blocks until the model replies or ctx is done.
//
// Implementations must classify the reply: a native function call or a
// marker-prefixed text becomes a ToolCallReply (or InvalidToolCall), and
// anything else a DirectReply. Response.Text always carries the raw,
// trimmed text the model produced, which may be empty for function calls.
type Provider interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// Request carries the transcript and generation parameters for one call.
// The provider uses its own defaults when fields are zero/nil.
type Request struct {
	Model        string // model ID, provider-specific; empty = provider default
	SystemPrompt string
	Messages     []Message
	Tools        []Tool
	MaxTokens    int      // 0 = provider default
	Temperature  *float64 // nil = provider default
}

// Response is the outcome of a single Generate call.
type Response struct {
	Reply         Reply
	Text          string
	StopReason    StopReason
	RawStopReason string
	Usage         Usage
}
