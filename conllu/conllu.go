// Package conllu reads and writes CoNLL-U treebanks and attaches edit tree
// labels to their tokens.
//
// Only what lemma conversion needs is interpreted: the ID, FORM and LEMMA
// columns and the MISC feature list. All other columns, comments, multiword
// token ranges and empty nodes are carried through unchanged.
// For a description of the format see
// https://universaldependencies.org/format.html
package conllu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	fieldSeparator = "\t"
	numFields      = 10
	empty          = "_"
)

// ErrFormat is wrapped by every error caused by malformed input.
var ErrFormat = errors.New("malformed CoNLL-U")

// Token is one row of a sentence. Columns hold their raw text, with "_" for
// unspecified values, except Misc which is parsed.
type Token struct {
	ID     string
	Form   string
	Lemma  string
	UPOS   string
	XPOS   string
	Feats  string
	Head   string
	DepRel string
	Deps   string
	Misc   Features
}

// IsWord reports whether t is a syntactic word, as opposed to a multiword
// token range ("3-4") or an empty node ("5.1").
func (t *Token) IsWord() bool {
	_, err := strconv.Atoi(t.ID)
	return err == nil
}

// String returns t as a tab-separated row without line terminator.
func (t *Token) String() string {
	return strings.Join([]string{
		t.ID, t.Form, t.Lemma, t.UPOS, t.XPOS,
		t.Feats, t.Head, t.DepRel, t.Deps, t.Misc.String(),
	}, fieldSeparator)
}

// Sentence is a block of comment lines followed by token rows.
type Sentence struct {
	// Comments holds the comment lines, including the leading "#".
	Comments []string
	Tokens   []*Token
}

// Words returns the syntactic words of s, in order.
func (s *Sentence) Words() []*Token {
	words := make([]*Token, 0, len(s.Tokens))
	for _, t := range s.Tokens {
		if t.IsWord() {
			words = append(words, t)
		}
	}
	return words
}

// Feature is one entry of the MISC column. Entries without "=" have
// HasValue set to false.
type Feature struct {
	Name     string
	Value    string
	HasValue bool
}

// Features is an ordered MISC feature list.
type Features []Feature

// ParseFeatures parses a MISC column.
func ParseFeatures(s string) Features {
	if s == "" || s == empty {
		return nil
	}
	parts := strings.Split(s, "|")
	fs := make(Features, 0, len(parts))
	for _, p := range parts {
		name, value, ok := strings.Cut(p, "=")
		fs = append(fs, Feature{Name: name, Value: value, HasValue: ok})
	}
	return fs
}

// Get returns the value of the first feature called name.
func (fs Features) Get(name string) (string, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Set replaces the value of the first feature called name, or appends it.
func (fs *Features) Set(name, value string) {
	for i := range *fs {
		if (*fs)[i].Name == name {
			(*fs)[i].Value = value
			(*fs)[i].HasValue = true
			return
		}
	}
	*fs = append(*fs, Feature{Name: name, Value: value, HasValue: true})
}

// Delete removes every feature called name.
func (fs *Features) Delete(name string) {
	out := (*fs)[:0]
	for _, f := range *fs {
		if f.Name != name {
			out = append(out, f)
		}
	}
	*fs = out
}

// String renders fs as a MISC column, "_" when empty.
func (fs Features) String() string {
	if len(fs) == 0 {
		return empty
	}
	var sb strings.Builder
	for i, f := range fs {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(f.Name)
		if f.HasValue {
			sb.WriteByte('=')
			sb.WriteString(f.Value)
		}
	}
	return sb.String()
}

// Reader reads sentences one at a time.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader returns a Reader reading from r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Reader{sc: sc}
}

// Read returns the next sentence, or io.EOF when the input is exhausted.
// A final sentence without a trailing blank line is still returned.
// Comment lines must precede the token rows of their sentence.
func (r *Reader) Read() (*Sentence, error) {
	var s *Sentence

	for r.sc.Scan() {
		r.line++
		line := strings.TrimSuffix(r.sc.Text(), "\r")

		if line == "" {
			if s != nil {
				return s, nil
			}
			continue
		}
		if s == nil {
			s = &Sentence{}
		}

		if strings.HasPrefix(line, "#") {
			if len(s.Tokens) > 0 {
				return nil, fmt.Errorf("line %d: %w: comment after a token row", r.line, ErrFormat)
			}
			s.Comments = append(s.Comments, line)
			continue
		}

		t, err := parseToken(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}
		s.Tokens = append(s.Tokens, t)
	}

	if err := r.sc.Err(); err != nil {
		return nil, err
	}
	if s != nil {
		return s, nil
	}
	return nil, io.EOF
}

func parseToken(line string) (*Token, error) {
	record := strings.Split(line, fieldSeparator)
	if len(record) != numFields {
		return nil, fmt.Errorf("%w: expected %d fields, got %d", ErrFormat, numFields, len(record))
	}
	if record[0] == "" {
		return nil, fmt.Errorf("%w: empty ID field", ErrFormat)
	}

	return &Token{
		ID:     record[0],
		Form:   record[1],
		Lemma:  record[2],
		UPOS:   record[3],
		XPOS:   record[4],
		Feats:  record[5],
		Head:   record[6],
		DepRel: record[7],
		Deps:   record[8],
		Misc:   ParseFeatures(record[9]),
	}, nil
}

// ReadAll reads every sentence from r.
func ReadAll(r io.Reader) ([]*Sentence, error) {
	var sentences []*Sentence
	cr := NewReader(r)
	for {
		s, err := cr.Read()
		if err == io.EOF {
			return sentences, nil
		}
		if err != nil {
			return nil, err
		}
		sentences = append(sentences, s)
	}
}

// Writer writes sentences, each followed by a blank line.
// Call Flush when done.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes one sentence.
func (w *Writer) Write(s *Sentence) error {
	for _, c := range s.Comments {
		w.w.WriteString(c)
		w.w.WriteByte('\n')
	}
	for _, t := range s.Tokens {
		w.w.WriteString(t.String())
		w.w.WriteByte('\n')
	}
	return w.w.WriteByte('\n')
}

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
