package scribe

// Reply is a sealed interface representing a classified model reply.
// The unexported marker method prevents external implementations.
type Reply interface {
	reply()
}

// DirectReply is an ordinary conversational answer, displayed verbatim.
// Providers trim surrounding whitespace from the model's text before
// classifying it, so Text carries no leading or trailing blank lines.
type DirectReply struct {
	Text string
}

func (DirectReply) reply() {}

// ToolCallReply is a well-formed request to run a tool.
type ToolCallReply struct {
	Call ToolCall
}

func (ToolCallReply) reply() {}

// InvalidToolCall is a recognised tool invocation whose payload could not be
// used: malformed JSON, a non-string value, or a missing required key.
type InvalidToolCall struct {
	Tool ToolName
	Err  error
}

func (InvalidToolCall) reply() {}

// Interface compliance checks.
var (
	_ Reply = DirectReply{}
	_ Reply = ToolCallReply{}
	_ Reply = InvalidToolCall{}
)
