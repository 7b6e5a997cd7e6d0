package builtin

import (
	"fmt"
	"strings"

	"github.com/fwojciec/scribe"
)

// SynonymsTool returns the tool definition for synonym suggestion.
func SynonymsTool() scribe.Tool {
	return scribe.Tool{
		Name:        scribe.ToolSynonyms,
		Description: "Suggest synonyms for a single word using a local thesaurus.",
		Parameters:  stringParam("word", "The word to find synonyms for"),
	}
}

// FormatSynonyms renders a synonym list as the reply sentence. An empty list
// still produces a sentence.
func FormatSynonyms(word string, synonyms []string) string {
	return fmt.Sprintf("Synonyms for '%s': %s", word, strings.Join(synonyms, ", "))
}
