package wordnet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sourcegraph/conc/pool"
)

// dictPattern matches the eight dictionary files at any depth below the
// import root. excPattern matches the optional exception lists.
const (
	dictPattern = "**/{index,data}.{noun,verb,adj,adv}"
	excPattern  = "**/{noun,verb,adj,adv}.exc"
)

var suffixPOS = map[string]POS{
	"noun": Noun,
	"verb": Verb,
	"adj":  Adj,
	"adv":  Adv,
}

// ImportStats summarises an import.
type ImportStats struct {
	Files    int
	Synsets  int
	Lemmas   int
	Senses     int
	Exceptions int
	Duration   time.Duration
}

type fileKind int

const (
	kindIndex fileKind = iota
	kindData
	kindExc
)

type parsedFile struct {
	path       string
	kind       fileKind
	pos        POS
	index      []IndexEntry
	synsets    []Synset
	exceptions []Exception
}

// Import replaces the store's contents with the lexicon found under dir, a
// WordNet dict directory. Files are parsed concurrently and loaded in a
// single transaction.
func (s *Store) Import(ctx context.Context, dir string) (ImportStats, error) {
	start := time.Now()
	fsys := os.DirFS(dir)

	paths, err := doublestar.Glob(fsys, dictPattern, doublestar.WithFilesOnly())
	if err != nil {
		return ImportStats{}, fmt.Errorf("wordnet: find dictionary files: %w", err)
	}
	if len(paths) == 0 {
		return ImportStats{}, fmt.Errorf("wordnet: no dictionary files under %s", dir)
	}
	excPaths, err := doublestar.Glob(fsys, excPattern, doublestar.WithFilesOnly())
	if err != nil {
		return ImportStats{}, fmt.Errorf("wordnet: find exception files: %w", err)
	}
	paths = append(paths, excPaths...)

	p := pool.NewWithResults[parsedFile]().WithContext(ctx).WithCancelOnError()
	for _, name := range paths {
		p.Go(func(ctx context.Context) (parsedFile, error) {
			return parseFile(ctx, fsys, name)
		})
	}
	files, err := p.Wait()
	if err != nil {
		return ImportStats{}, fmt.Errorf("wordnet: %w", err)
	}
	if err := checkPairs(files); err != nil {
		return ImportStats{}, err
	}

	stats, err := s.load(ctx, files)
	if err != nil {
		return ImportStats{}, err
	}
	stats.Files = len(files)
	stats.Duration = time.Since(start)
	s.log.Info().
		Str("dir", dir).
		Int("files", stats.Files).
		Int("synsets", stats.Synsets).
		Int("senses", stats.Senses).
		Int("exceptions", stats.Exceptions).
		Dur("duration", stats.Duration).
		Msg("wordnet import complete")
	return stats, nil
}

func parseFile(ctx context.Context, fsys fs.FS, name string) (parsedFile, error) {
	prefix, suffix, _ := strings.Cut(path.Base(name), ".")
	pf := parsedFile{path: name, pos: suffixPOS[suffix], kind: kindData}
	switch {
	case suffix == "exc":
		pf.kind, pf.pos = kindExc, suffixPOS[prefix]
	case prefix == "index":
		pf.kind = kindIndex
	}

	f, err := fsys.Open(name)
	if err != nil {
		return parsedFile{}, err
	}
	defer f.Close()

	err = scanLines(f, func(line string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch pf.kind {
		case kindIndex:
			e, err := ParseIndexLine(line)
			if err != nil {
				return err
			}
			pf.index = append(pf.index, e)
		case kindExc:
			e, err := ParseExceptionLine(line)
			if err != nil {
				return err
			}
			pf.exceptions = append(pf.exceptions, e)
		default:
			syn, err := ParseDataLine(line)
			if err != nil {
				return err
			}
			pf.synsets = append(pf.synsets, syn)
		}
		return nil
	})
	if err != nil {
		return parsedFile{}, fmt.Errorf("%s: %w", name, err)
	}
	return pf, nil
}

// checkPairs requires that every part of speech with an index file also has
// a data file and vice versa.
func checkPairs(files []parsedFile) error {
	index := make(map[POS]bool)
	data := make(map[POS]bool)
	for _, f := range files {
		switch f.kind {
		case kindIndex:
			index[f.pos] = true
		case kindData:
			data[f.pos] = true
		}
	}
	var errs []error
	for _, pos := range POSOrder {
		if index[pos] != data[pos] {
			errs = append(errs, fmt.Errorf("wordnet: incomplete dictionary for pos %q: index=%t data=%t", pos, index[pos], data[pos]))
		}
	}
	return errors.Join(errs...)
}

func (s *Store) load(ctx context.Context, files []parsedFile) (stats ImportStats, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("wordnet: begin import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, q := range []string{`DELETE FROM exceptions`, `DELETE FROM senses`, `DELETE FROM lemmas`, `DELETE FROM synsets`} {
		if _, err = tx.ExecContext(ctx, q); err != nil {
			return stats, fmt.Errorf("wordnet: clear lexicon: %w", err)
		}
	}

	insSynset, err := tx.PrepareContext(ctx, `INSERT INTO synsets (pos, synset_offset, ss_type, gloss) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return stats, fmt.Errorf("wordnet: prepare: %w", err)
	}
	defer insSynset.Close()
	insLemma, err := tx.PrepareContext(ctx, `INSERT INTO lemmas (pos, synset_offset, position, name) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return stats, fmt.Errorf("wordnet: prepare: %w", err)
	}
	defer insLemma.Close()
	insSense, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO senses (word, pos, rank, synset_offset) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return stats, fmt.Errorf("wordnet: prepare: %w", err)
	}
	defer insSense.Close()
	insExc, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO exceptions (pos, inflected, position, base) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return stats, fmt.Errorf("wordnet: prepare: %w", err)
	}
	defer insExc.Close()

	// Synsets first so lemma foreign keys resolve.
	for _, f := range files {
		for _, syn := range f.synsets {
			if err = insertSynset(ctx, insSynset, insLemma, f.pos, syn); err != nil {
				return stats, err
			}
			stats.Synsets++
			stats.Lemmas += len(syn.Lemmas)
		}
	}
	for _, f := range files {
		for _, e := range f.index {
			for rank, off := range e.Offsets {
				if _, err = insSense.ExecContext(ctx, e.Lemma, string(f.pos), rank, off); err != nil {
					return stats, fmt.Errorf("wordnet: insert sense %s: %w", e.Lemma, err)
				}
				stats.Senses++
			}
		}
	}

	for _, f := range files {
		for _, e := range f.exceptions {
			for i, base := range e.Bases {
				if _, err = insExc.ExecContext(ctx, string(f.pos), e.Inflected, i, base); err != nil {
					return stats, fmt.Errorf("wordnet: insert exception %s: %w", e.Inflected, err)
				}
			}
			stats.Exceptions++
		}
	}

	if err = tx.Commit(); err != nil {
		return stats, fmt.Errorf("wordnet: commit import: %w", err)
	}
	return stats, nil
}

func insertSynset(ctx context.Context, insSynset, insLemma *sql.Stmt, pos POS, syn Synset) error {
	if _, err := insSynset.ExecContext(ctx, string(pos), syn.Offset, syn.Type, syn.Gloss); err != nil {
		return fmt.Errorf("wordnet: insert synset %s:%08d: %w", pos, syn.Offset, err)
	}
	for i, name := range syn.Lemmas {
		if _, err := insLemma.ExecContext(ctx, string(pos), syn.Offset, i, name); err != nil {
			return fmt.Errorf("wordnet: insert lemma %s: %w", name, err)
		}
	}
	return nil
}
