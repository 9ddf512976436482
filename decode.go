package edittree

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMismatch is wrapped by every DecodeError.
var ErrMismatch = errors.New("edit tree does not apply to form")

// DecodeError reports that a tree cannot be applied to a form segment.
// This is the normal outcome of applying a predicted tree to a form it was
// not built from; callers usually fall back to the form.
type DecodeError struct {
	// Form is the form segment the failing node was applied to.
	Form string
	// Reason describes the violated precondition.
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v: %q: %s", ErrMismatch, e.Form, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return ErrMismatch
}

// Decode applies t to form and returns the resulting lemma. It fails with a
// *DecodeError when form does not have the shape t was built for.
//
// A MatchNode keeps a non-empty middle, so it only fits forms longer than
// Pre+Suf runes: (m 0 1 () (r "s" "")) fits "cats" but not "s".
func Decode(t EditTree, form string) (string, error) {
	var sb strings.Builder
	if err := apply(t, []rune(form), &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// DecodeOrBackoff applies t to form. On mismatch it returns
// b.Degenerate(form) and false instead of an error.
func DecodeOrBackoff(t EditTree, form string, b BackoffStrategy) (string, bool) {
	lemma, err := Decode(t, form)
	if err != nil {
		return b.Degenerate(form), false
	}
	return lemma, true
}

func apply(t EditTree, form []rune, sb *strings.Builder) error {
	if isEmpty(t) {
		if len(form) != 0 {
			return &DecodeError{Form: string(form), Reason: "empty tree applied to non-empty form"}
		}
		return nil
	}

	switch t := t.(type) {
	case *MatchNode:
		if t.Pre < 0 || t.Suf < 0 || t.Pre+t.Suf >= len(form) {
			return &DecodeError{
				Form:   string(form),
				Reason: fmt.Sprintf("form too short for match with pre=%d suf=%d", t.Pre, t.Suf),
			}
		}
		if err := apply(t.Left, form[:t.Pre], sb); err != nil {
			return err
		}
		for _, r := range form[t.Pre : len(form)-t.Suf] {
			sb.WriteRune(r)
		}
		return apply(t.Right, form[len(form)-t.Suf:], sb)

	case *ReplaceNode:
		if string(form) != t.Replacee {
			return &DecodeError{
				Form:   string(form),
				Reason: fmt.Sprintf("expected %q", t.Replacee),
			}
		}
		sb.WriteString(t.Replacement)
		return nil
	}

	return fmt.Errorf("unknown edit tree node %T", t)
}
