package conllu

import (
	"context"
	"fmt"

	"github.com/cours-de-latin/edittree"
	"golang.org/x/sync/errgroup"
)

// DefaultFeature is the MISC feature that holds edit tree labels.
const DefaultFeature = "edit_tree"

// Stats counts what happened to the words of one or more sentences.
type Stats struct {
	Sentences int
	Words     int
	// Backoff counts words whose lemma came from the backoff strategy:
	// missing lemmas when annotating, missing or unusable labels when
	// applying.
	Backoff int
	// Mismatch counts labels whose tree did not fit the word form.
	Mismatch int
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Sentences += o.Sentences
	s.Words += o.Words
	s.Backoff += o.Backoff
	s.Mismatch += o.Mismatch
}

// lemmaOf returns the lemma column of t, with "" for an unspecified lemma.
// An underscore lemma is only taken literally for the form "_".
func lemmaOf(t *Token) string {
	if t.Lemma == empty && t.Form != empty {
		return ""
	}
	return t.Lemma
}

// lemmaColumn renders lemma for the LEMMA column.
func lemmaColumn(lemma string) string {
	if lemma == "" {
		return empty
	}
	return lemma
}

// Annotate stores the edit tree label of every word of s in the MISC
// feature called feature. Words without a lemma are encoded against the
// codec's backoff.
func Annotate(s *Sentence, c *edittree.Codec, feature string) Stats {
	st := Stats{Sentences: 1}

	for _, t := range s.Words() {
		lemma := lemmaOf(t)
		if lemma == "" && t.Form != "" {
			st.Backoff++
		}

		t.Misc.Set(feature, c.Label(t.Form, lemma))
		st.Words++
	}

	return st
}

// AddLabels adds the label in the MISC feature called feature of every
// word of sentences to inv, in sentence and word order. Call it after the
// sentences were annotated so that class ids follow corpus order.
func AddLabels(inv *edittree.Inventory, sentences []*Sentence, feature string) {
	for _, s := range sentences {
		for _, t := range s.Words() {
			if label, ok := t.Misc.Get(feature); ok {
				inv.Add(label)
			}
		}
	}
}

// Apply sets the lemma of every word of s from the edit tree label in its
// MISC feature called feature, removing the feature. Words without a label,
// or whose tree does not fit their form, get the codec's backoff lemma.
// A malformed label is an error and leaves the word untouched.
func Apply(s *Sentence, c *edittree.Codec, feature string) (Stats, error) {
	st := Stats{Sentences: 1}

	for _, t := range s.Words() {
		st.Words++

		label, ok := t.Misc.Get(feature)
		if !ok {
			t.Lemma = lemmaColumn(c.Backoff.Degenerate(t.Form))
			st.Backoff++
			continue
		}

		lemma, fits, err := c.LemmaOrBackoff(t.Form, label)
		if err != nil {
			return st, fmt.Errorf("token %s (%q): %w", t.ID, t.Form, err)
		}
		if !fits {
			st.Mismatch++
			st.Backoff++
		}
		t.Lemma = lemmaColumn(lemma)
		t.Misc.Delete(feature)
	}

	return st, nil
}

// ProcessAll runs fn on every sentence using up to workers goroutines
// (unbounded when workers <= 0) and returns the summed statistics. The
// first error cancels the remaining work.
func ProcessAll(ctx context.Context, sentences []*Sentence, workers int, fn func(*Sentence) (Stats, error)) (Stats, error) {
	g, gCtx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	stats := make([]Stats, len(sentences))
	for i, s := range sentences {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			st, err := fn(s)
			if err != nil {
				return fmt.Errorf("sentence %d: %w", i+1, err)
			}
			stats[i] = st
			return nil
		})
	}

	var total Stats
	if err := g.Wait(); err != nil {
		return total, err
	}
	if err := ctx.Err(); err != nil {
		return total, err
	}
	for _, st := range stats {
		total.Add(st)
	}
	return total, nil
}
