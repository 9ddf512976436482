// Package edittree converts between word forms and lemmas using edit trees,
// so that lemmatization can be treated as classification over a small set
// of labels.
//
// An edit tree records which parts of a form are kept and which are
// rewritten to obtain the lemma. The tree for "walking" → "walk" keeps the
// first four characters and rewrites the suffix "ing" to the empty string;
// the same tree applied to "talking" yields "talk". Trees serialize to a
// short, canonical label such as
//
//	(m 0 3 () (r "ing" ""))
//
// which a sequence labeller can predict per token.
//
// The package has no I/O and no shared mutable state except Inventory;
// every function may be called concurrently.
package edittree

// Codec bundles the operations a tagging pipeline needs around labels:
// building labels from gold lemmas and turning predicted labels back into
// lemmas.
type Codec struct {
	// Backoff replaces empty lemmas when encoding, and replaces the
	// lemma when a predicted tree does not fit the form.
	Backoff BackoffStrategy
}

// New returns a Codec using backoff b.
func New(b BackoffStrategy) *Codec {
	return &Codec{Backoff: b}
}

// Tree returns the edit tree rewriting form into lemma.
func (c *Codec) Tree(form, lemma string) EditTree {
	return Encode(form, lemma, c.Backoff)
}

// Label returns the serialized edit tree rewriting form into lemma.
func (c *Codec) Label(form, lemma string) string {
	return Serialize(c.Tree(form, lemma))
}

// Lemma parses label and applies it to form. Malformed labels yield a
// *ParseError, trees that do not fit form a *DecodeError.
func (c *Codec) Lemma(form, label string) (string, error) {
	t, err := Deserialize(label)
	if err != nil {
		return "", err
	}
	return Decode(t, form)
}

// LemmaOrBackoff is like Lemma, but a tree that does not fit form is not an
// error: the backoff string is returned with ok set to false. Malformed
// labels are still reported.
func (c *Codec) LemmaOrBackoff(form, label string) (lemma string, ok bool, err error) {
	t, err := Deserialize(label)
	if err != nil {
		return "", false, err
	}
	lemma, ok = DecodeOrBackoff(t, form, c.Backoff)
	return lemma, ok, nil
}
