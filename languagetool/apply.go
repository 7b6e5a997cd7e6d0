package languagetool

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf16"
)

// Policy selects how matches are applied to the checked text.
type Policy string

const (
	// PolicySubstring replaces the first occurrence of each match's context
	// text with its top replacement, in service order. Repeated or
	// overlapping contexts can clobber earlier edits.
	PolicySubstring Policy = "substring"

	// PolicyOffset replaces the flagged span at each match's offset and
	// length, right-to-left, skipping matches that overlap one already
	// applied.
	PolicyOffset Policy = "offset"
)

// ParsePolicy parses a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicySubstring, PolicyOffset:
		return p, nil
	case "":
		return PolicySubstring, nil
	default:
		return "", fmt.Errorf("unknown grammar policy %q: must be %q or %q", s, PolicySubstring, PolicyOffset)
	}
}

// Apply returns text with matches applied under policy. Matches without
// replacements are skipped.
func Apply(text string, matches []Match, policy Policy) string {
	if policy == PolicyOffset {
		return applyOffsets(text, matches)
	}
	return applySubstrings(text, matches)
}

func applySubstrings(text string, matches []Match) string {
	for _, m := range matches {
		if len(m.Replacements) == 0 || m.Context.Text == "" {
			continue
		}
		text = strings.Replace(text, m.Context.Text, m.Replacements[0].Value, 1)
	}
	return text
}

// applyOffsets works in UTF-16 code units because that is how the service
// reports offsets.
func applyOffsets(text string, matches []Match) string {
	units := utf16.Encode([]rune(text))

	usable := make([]Match, 0, len(matches))
	for _, m := range matches {
		if len(m.Replacements) == 0 || m.Offset < 0 || m.Length < 0 || m.Offset+m.Length > len(units) {
			continue
		}
		usable = append(usable, m)
	}
	sort.SliceStable(usable, func(i, j int) bool {
		return usable[i].Offset > usable[j].Offset
	})

	limit := len(units)
	for _, m := range usable {
		end := m.Offset + m.Length
		if end > limit {
			continue
		}
		repl := utf16.Encode([]rune(m.Replacements[0].Value))
		next := make([]uint16, 0, len(units)-m.Length+len(repl))
		next = append(next, units[:m.Offset]...)
		next = append(next, repl...)
		next = append(next, units[end:]...)
		units = next
		limit = m.Offset
	}
	return string(utf16.Decode(units))
}
