package edittree

// Encoder builds edit trees with a fixed backoff strategy.
// The zero value uses FormBackoff.
type Encoder struct {
	Backoff BackoffStrategy
}

// NewEncoder returns an Encoder that substitutes b for empty lemmas.
func NewEncoder(b BackoffStrategy) *Encoder {
	return &Encoder{Backoff: b}
}

// Encode returns the edit tree that rewrites form into lemma.
func (e *Encoder) Encode(form, lemma string) EditTree {
	return Encode(form, lemma, e.Backoff)
}

// Encode returns the edit tree that rewrites form into lemma. When lemma is
// empty but form is not, the lemma is first replaced by b.Degenerate(form).
//
// The result is deterministic and Decode(Encode(form, lemma, b), form)
// always yields the (possibly substituted) lemma.
func Encode(form, lemma string, b BackoffStrategy) EditTree {
	if lemma == "" && form != "" {
		lemma = b.Degenerate(form)
	}
	return Build(form, lemma)
}

// Build is Encode without backoff: the empty lemma is encoded as is.
func Build(form, lemma string) EditTree {
	return build([]rune(form), []rune(lemma))
}

func build(form, lemma []rune) EditTree {
	if len(form) == 0 && len(lemma) == 0 {
		return nil
	}

	i, j, n := longestCommonSubstring(form, lemma)
	if n == 0 {
		return &ReplaceNode{
			Replacee:    string(form),
			Replacement: string(lemma),
		}
	}

	return &MatchNode{
		Pre:   i,
		Suf:   len(form) - i - n,
		Left:  build(form[:i], lemma[:j]),
		Right: build(form[i+n:], lemma[j+n:]),
	}
}

// longestCommonSubstring returns the start of the longest common substring
// in a and in b, and its length. Among matches of equal length the one
// starting first in a wins, then the one starting first in b. The length is
// zero when a and b share no rune.
func longestCommonSubstring(a, b []rune) (ai, bi, n int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	// prev[j+1] is the length of the common suffix of a[:i] and b[:j+1].
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)

	for i := range a {
		for j := range b {
			if a[i] != b[j] {
				cur[j+1] = 0
				continue
			}
			cur[j+1] = prev[j] + 1

			// Ends are visited in (i, j) order, so for a fixed length the
			// first strictly longer match found also starts first in a,
			// then in b.
			if l := cur[j+1]; l > n {
				ai, bi, n = i+1-l, j+1-l, l
			}
		}
		prev, cur = cur, prev
	}

	return ai, bi, n
}
