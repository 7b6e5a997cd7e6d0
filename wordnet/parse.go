package wordnet

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// IndexEntry is one parsed line of an index.* file: a lemma and the offsets
// of the synsets containing it, most frequent sense first.
type IndexEntry struct {
	Lemma   string
	POS     POS
	Offsets []int64
}

// Synset is one parsed line of a data.* file.
type Synset struct {
	Offset int64
	Type   string // n, v, a, s or r
	Lemmas []string
	Gloss  string
}

// ParseIndexLine parses a line of the form
//
//	lemma pos synset_cnt p_cnt [ptr_symbol...] sense_cnt tagsense_cnt synset_offset...
func ParseIndexLine(line string) (IndexEntry, error) {
	f := strings.Fields(line)
	if len(f) < 6 {
		return IndexEntry{}, fmt.Errorf("index line: too few fields: %q", line)
	}
	synsetCnt, err := strconv.Atoi(f[2])
	if err != nil {
		return IndexEntry{}, fmt.Errorf("index line: synset_cnt: %w", err)
	}
	pCnt, err := strconv.Atoi(f[3])
	if err != nil {
		return IndexEntry{}, fmt.Errorf("index line: p_cnt: %w", err)
	}
	// Skip the pointer symbols, sense_cnt and tagsense_cnt.
	start := 4 + pCnt + 2
	if pCnt < 0 || synsetCnt < 0 || start+synsetCnt > len(f) {
		return IndexEntry{}, fmt.Errorf("index line: expected %d offsets: %q", synsetCnt, line)
	}
	entry := IndexEntry{
		Lemma:   f[0],
		POS:     POS(f[1]),
		Offsets: make([]int64, synsetCnt),
	}
	for i := range synsetCnt {
		off, err := strconv.ParseInt(f[start+i], 10, 64)
		if err != nil {
			return IndexEntry{}, fmt.Errorf("index line: offset: %w", err)
		}
		entry.Offsets[i] = off
	}
	return entry, nil
}

// ParseDataLine parses a line of the form
//
//	synset_offset lex_filenum ss_type w_cnt word lex_id [word lex_id...] p_cnt ... | gloss
//
// w_cnt is a two-digit hexadecimal number. Adjective syntactic markers are
// stripped from word names.
func ParseDataLine(line string) (Synset, error) {
	head, gloss, _ := strings.Cut(line, "|")
	f := strings.Fields(head)
	if len(f) < 4 {
		return Synset{}, fmt.Errorf("data line: too few fields: %q", line)
	}
	off, err := strconv.ParseInt(f[0], 10, 64)
	if err != nil {
		return Synset{}, fmt.Errorf("data line: offset: %w", err)
	}
	wCnt, err := strconv.ParseInt(f[3], 16, 32)
	if err != nil {
		return Synset{}, fmt.Errorf("data line: w_cnt: %w", err)
	}
	if 4+2*int(wCnt) > len(f) {
		return Synset{}, fmt.Errorf("data line: expected %d words: %q", wCnt, line)
	}
	s := Synset{
		Offset: off,
		Type:   f[2],
		Lemmas: make([]string, wCnt),
		Gloss:  strings.TrimSpace(gloss),
	}
	for i := range int(wCnt) {
		s.Lemmas[i] = stripMarker(f[4+2*i])
	}
	return s, nil
}

// Exception is one parsed line of a *.exc file: an irregular inflected form
// and its base forms.
type Exception struct {
	Inflected string
	Bases     []string
}

// ParseExceptionLine parses a line of the form
//
//	inflected_form base_form [base_form...]
func ParseExceptionLine(line string) (Exception, error) {
	f := strings.Fields(line)
	if len(f) < 2 {
		return Exception{}, fmt.Errorf("exception line: too few fields: %q", line)
	}
	return Exception{Inflected: f[0], Bases: f[1:]}, nil
}

var adjMarkers = []string{"(a)", "(p)", "(ip)"}

func stripMarker(word string) string {
	for _, m := range adjMarkers {
		if strings.HasSuffix(word, m) {
			return strings.TrimSuffix(word, m)
		}
	}
	return word
}

// scanLines calls fn for every content line of a dictionary file. License
// lines, which start with a space, and blank lines are skipped. The returned
// error names the failing line number.
func scanLines(r io.Reader, fn func(line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	n := 0
	for sc.Scan() {
		n++
		line := sc.Text()
		if line == "" || line[0] == ' ' {
			continue
		}
		if err := fn(line); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return sc.Err()
}
