package edittree

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
)

// Vocabulary is a read-only form → lemma table used by VocabularyBackoff.
// A nil *Vocabulary is empty.
type Vocabulary struct {
	// entries maps the exact form → lemma.
	entries map[string]string
	// folded maps foldKey(form) → lemma of the first such form.
	folded map[string]string
}

// NewVocabulary builds a vocabulary from form → lemma pairs. Forms that
// only differ in case resolve, case-insensitively, to the lexically smallest.
func NewVocabulary(pairs map[string]string) *Vocabulary {
	v := &Vocabulary{
		entries: make(map[string]string, len(pairs)),
		folded:  make(map[string]string, len(pairs)),
	}
	for _, form := range slices.Sorted(maps.Keys(pairs)) {
		v.add(form, pairs[form])
	}
	return v
}

// LoadVocabulary reads a vocabulary file (see ReadVocabulary).
func LoadVocabulary(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary: %w", err)
	}
	defer f.Close()

	v, err := ReadVocabulary(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// ReadVocabulary reads one "form<TAB>lemma" pair per line. Blank lines and
// lines starting with "!" are skipped. When a form occurs twice the first
// line wins.
func ReadVocabulary(r io.Reader) (*Vocabulary, error) {
	v := &Vocabulary{
		entries: make(map[string]string),
		folded:  make(map[string]string),
	}

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "!") {
			continue
		}
		form, lemma, ok := strings.Cut(line, "\t")
		if !ok || form == "" {
			return nil, fmt.Errorf("line %d: expected form<TAB>lemma", lineNo)
		}
		if _, seen := v.entries[form]; seen {
			continue
		}
		v.add(form, lemma)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Vocabulary) add(form, lemma string) {
	v.entries[form] = lemma
	key := foldKey(form)
	if _, ok := v.folded[key]; !ok {
		v.folded[key] = lemma
	}
}

// Lookup returns the lemma listed for form. When the exact form is absent,
// a case-insensitive match is tried, so that a sentence-initial capitalised
// form still finds its entry.
func (v *Vocabulary) Lookup(form string) (string, bool) {
	if v == nil {
		return "", false
	}
	if lemma, ok := v.entries[form]; ok {
		return lemma, true
	}
	lemma, ok := v.folded[foldKey(form)]
	return lemma, ok
}

// Len returns the number of distinct forms.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.entries)
}

// foldKey returns the case-insensitive lookup key for form.
func foldKey(form string) string {
	return strings.ToLower(form)
}
