// Package wordnet implements [scribe.Thesaurus] over a SQLite lexical
// database built from the WordNet dictionary files.
//
// The schema is managed by goose migrations embedded in the binary; the data
// is loaded once with [Store.Import].
package wordnet

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/scribe"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrations embed.FS

// POS is a WordNet part-of-speech tag as it appears in index lines.
type POS string

const (
	Noun POS = "n"
	Verb POS = "v"
	Adj  POS = "a"
	Adv  POS = "r"
)

// POSOrder is the order in which synsets of different parts of speech are
// returned by [Store.Synonyms].
var POSOrder = []POS{Noun, Verb, Adj, Adv}

// Interface compliance check.
var _ scribe.Thesaurus = (*Store)(nil)

// Store is a WordNet lexical database backed by SQLite.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Option configures a [Store].
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open opens (creating if needed) the database at path and applies pending
// migrations. The parent directory is created when missing.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("wordnet: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("wordnet: open database: %w", err)
	}
	// A single connection keeps :memory: databases coherent and serialises
	// writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("wordnet: ping database: %w", err)
	}

	s := &Store{db: db, log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("wordnet: migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, fsys)
	if err != nil {
		return fmt.Errorf("wordnet: migrations: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("wordnet: run migrations: %w", err)
	}
	for _, r := range results {
		s.log.Debug().
			Int64("version", r.Source.Version).
			Dur("duration", r.Duration).
			Msg("applied migration")
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Normalize converts a word to the form used as an index key: trimmed,
// lower-cased, with runs of whitespace replaced by underscores.
func Normalize(word string) string {
	return strings.ToLower(strings.Join(strings.Fields(word), "_"))
}

const synonymsQuery = `
SELECT l.name
FROM senses s
JOIN lemmas l ON l.pos = s.pos AND l.synset_offset = s.synset_offset
WHERE s.word = ? AND s.pos = ?
ORDER BY s.rank, l.position`

// Synonyms returns every lemma name of every synset containing word or one
// of its base forms (see [Store.Morphy]). Synsets are ordered by part of
// speech, then base form, then sense rank; lemmas keep their in-synset
// order. Duplicates are removed keeping the first occurrence. An unknown
// word yields an empty list.
func (s *Store) Synonyms(ctx context.Context, word string) ([]string, error) {
	key := Normalize(word)
	if key == "" {
		return []string{}, nil
	}

	seen := make(map[string]bool)
	out := []string{}
	for _, pos := range POSOrder {
		forms, err := s.Morphy(ctx, key, pos)
		if err != nil {
			return nil, err
		}
		for _, form := range forms {
			names, err := s.lemmas(ctx, form, pos)
			if err != nil {
				return nil, err
			}
			for _, name := range names {
				if seen[name] {
					continue
				}
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out, nil
}

func (s *Store) lemmas(ctx context.Context, word string, pos POS) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, synonymsQuery, word, string(pos))
	if err != nil {
		return nil, fmt.Errorf("wordnet: query synonyms: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("wordnet: scan synonym: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("wordnet: query synonyms: %w", err)
	}
	return names, nil
}

// Counts reports the number of synsets and index senses in the store.
func (s *Store) Counts(ctx context.Context) (synsets, senses int, err error) {
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM synsets`).Scan(&synsets); err != nil {
		return 0, 0, fmt.Errorf("wordnet: count synsets: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM senses`).Scan(&senses); err != nil {
		return 0, 0, fmt.Errorf("wordnet: count senses: %w", err)
	}
	return synsets, senses, nil
}
