package builtin

import "github.com/fwojciec/scribe"

// GrammarTool returns the tool definition for grammar correction.
func GrammarTool() scribe.Tool {
	return scribe.Tool{
		Name:        scribe.ToolGrammar,
		Description: "Correct the grammar and spelling of a piece of text. Returns the corrected text.",
		Parameters:  stringParam("text", "The text to correct, exactly as the user wrote it"),
	}
}
