package edittree

import (
	"fmt"
	"strings"
)

// BackoffKind names a backoff policy.
type BackoffKind rune

const (
	BackoffForm       BackoffKind = 'f'
	BackoffConstant   BackoffKind = 'c'
	BackoffVocabulary BackoffKind = 'v'
)

// BackoffKinds lists every kind in a stable order.
var BackoffKinds = []BackoffKind{BackoffForm, BackoffConstant, BackoffVocabulary}

func (k BackoffKind) String() string {
	switch k {
	case BackoffForm:
		return "form"
	case BackoffConstant:
		return "constant"
	case BackoffVocabulary:
		return "vocabulary"
	default:
		return "unknown"
	}
}

// ParseBackoffKind converts a configuration name to a BackoffKind.
func ParseBackoffKind(s string) (BackoffKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "form":
		return BackoffForm, nil
	case "constant":
		return BackoffConstant, nil
	case "vocabulary", "vocab":
		return BackoffVocabulary, nil
	}
	return 0, fmt.Errorf("unknown backoff strategy %q", s)
}

// BackoffStrategy chooses the string used in place of a degenerate target:
// an empty lemma at encoding time, or an unusable tree at decoding time.
// The zero value is the form strategy. Strategies are immutable and safe for
// concurrent use.
type BackoffStrategy struct {
	kind    BackoffKind
	literal string
	vocab   *Vocabulary
}

// FormBackoff returns the strategy that falls back to the form itself.
func FormBackoff() BackoffStrategy {
	return BackoffStrategy{kind: BackoffForm}
}

// ConstantBackoff returns the strategy that always falls back to literal.
func ConstantBackoff(literal string) BackoffStrategy {
	return BackoffStrategy{kind: BackoffConstant, literal: literal}
}

// VocabularyBackoff returns the strategy that looks the form up in v and
// falls back to the form when it is not listed.
func VocabularyBackoff(v *Vocabulary) BackoffStrategy {
	return BackoffStrategy{kind: BackoffVocabulary, vocab: v}
}

// Kind returns the policy of b.
func (b BackoffStrategy) Kind() BackoffKind {
	if b.kind == 0 {
		return BackoffForm
	}
	return b.kind
}

func (b BackoffStrategy) String() string {
	switch b.Kind() {
	case BackoffConstant:
		return fmt.Sprintf("constant(%q)", b.literal)
	case BackoffVocabulary:
		return fmt.Sprintf("vocabulary(%d entries)", b.vocab.Len())
	}
	return b.Kind().String()
}

// Degenerate returns the fallback string for form.
func (b BackoffStrategy) Degenerate(form string) string {
	switch b.Kind() {
	case BackoffConstant:
		return b.literal
	case BackoffVocabulary:
		if lemma, ok := b.vocab.Lookup(form); ok {
			return lemma
		}
	}
	return form
}
