package wordnet

import (
	"context"
	"fmt"
	"strings"
)

type substitution struct {
	suffix, replace string
}

// detachments are WordNet's suffix detachment rules, tried in order.
var detachments = map[POS][]substitution{
	Noun: {
		{"s", ""}, {"ses", "s"}, {"ves", "f"}, {"xes", "x"}, {"zes", "z"},
		{"ches", "ch"}, {"shes", "sh"}, {"men", "man"}, {"ies", "y"},
	},
	Verb: {
		{"s", ""}, {"ies", "y"}, {"es", "e"}, {"es", ""},
		{"ed", "e"}, {"ed", ""}, {"ing", "e"}, {"ing", ""},
	},
	Adj: {
		{"er", ""}, {"est", ""}, {"er", "e"}, {"est", "e"},
	},
}

// detach applies every matching rule for pos to every form once.
func detach(forms []string, pos POS) []string {
	var out []string
	seen := make(map[string]bool)
	for _, form := range forms {
		for _, sub := range detachments[pos] {
			if !strings.HasSuffix(form, sub.suffix) {
				continue
			}
			base := form[:len(form)-len(sub.suffix)] + sub.replace
			if base == "" || seen[base] {
				continue
			}
			seen[base] = true
			out = append(out, base)
		}
	}
	return out
}

// Morphy returns the base forms of word for pos that appear in the index,
// in the manner of WordNet's morphological processor.
//
// An entry in the exception list wins: the word and its listed bases are
// kept if indexed. Otherwise the word and one round of suffix detachment
// are checked together, and further rounds are applied until some form is
// indexed or no rule matches. The result is empty for an unknown word.
func (s *Store) Morphy(ctx context.Context, word string, pos POS) ([]string, error) {
	form := Normalize(word)
	if form == "" {
		return []string{}, nil
	}

	bases, err := s.exceptionBases(ctx, form, pos)
	if err != nil {
		return nil, err
	}
	if len(bases) > 0 {
		return s.indexed(ctx, pos, append([]string{form}, bases...))
	}

	forms := detach([]string{form}, pos)
	found, err := s.indexed(ctx, pos, append([]string{form}, forms...))
	if err != nil || len(found) > 0 {
		return found, err
	}
	for len(forms) > 0 {
		forms = detach(forms, pos)
		found, err = s.indexed(ctx, pos, forms)
		if err != nil || len(found) > 0 {
			return found, err
		}
	}
	return []string{}, nil
}

func (s *Store) exceptionBases(ctx context.Context, form string, pos POS) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT base FROM exceptions WHERE inflected = ? AND pos = ? ORDER BY position`,
		form, string(pos))
	if err != nil {
		return nil, fmt.Errorf("wordnet: query exceptions: %w", err)
	}
	defer rows.Close()

	var bases []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("wordnet: scan exception: %w", err)
		}
		bases = append(bases, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("wordnet: query exceptions: %w", err)
	}
	return bases, nil
}

// indexed filters forms to those with at least one sense for pos, keeping
// order and dropping duplicates.
func (s *Store) indexed(ctx context.Context, pos POS, forms []string) ([]string, error) {
	out := []string{}
	seen := make(map[string]bool)
	for _, f := range forms {
		if seen[f] {
			continue
		}
		seen[f] = true
		var ok bool
		err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM senses WHERE word = ? AND pos = ?)`,
			f, string(pos)).Scan(&ok)
		if err != nil {
			return nil, fmt.Errorf("wordnet: query index: %w", err)
		}
		if ok {
			out = append(out, f)
		}
	}
	return out, nil
}
