package edittree

import (
	"testing"
)

func TestCodecLabel(t *testing.T) {
	c := New(FormBackoff())

	if got, want := c.Label("walking", "walk"), `(m 0 3 () (r "ing" ""))`; got != want {
		t.Errorf("Label(walking, walk) = %q, want %q", got, want)
	}
	if got, want := c.Label("Haus", ""), "(m 0 0 () ())"; got != want {
		t.Errorf("Label(Haus, \"\") = %q, want %q", got, want)
	}
	if got := c.Tree("", ""); got != nil {
		t.Errorf("Tree(\"\", \"\") = %v, want empty tree", got)
	}
}

func TestCodecLemma(t *testing.T) {
	c := New(ConstantBackoff("_"))
	label := c.Label("walking", "walk")

	lemma, err := c.Lemma("talking", label)
	if err != nil {
		t.Fatalf("Lemma(talking): %v", err)
	}
	if lemma != "talk" {
		t.Errorf("Lemma(talking) = %q, want %q", lemma, "talk")
	}

	if _, err := c.Lemma("go", label); err == nil {
		t.Error("Lemma(go) succeeded, want mismatch")
	}
	if _, err := c.Lemma("walking", "(m 0"); err == nil {
		t.Error("Lemma with malformed label succeeded")
	}
}

func TestCodecLemmaOrBackoff(t *testing.T) {
	c := New(ConstantBackoff("_"))
	label := c.Label("walking", "walk")

	lemma, ok, err := c.LemmaOrBackoff("go", label)
	if err != nil {
		t.Fatalf("LemmaOrBackoff(go): %v", err)
	}
	if ok || lemma != "_" {
		t.Errorf("LemmaOrBackoff(go) = %q, %v, want %q, false", lemma, ok, "_")
	}

	lemma, ok, err = c.LemmaOrBackoff("talking", label)
	if err != nil || !ok || lemma != "talk" {
		t.Errorf("LemmaOrBackoff(talking) = %q, %v, %v", lemma, ok, err)
	}

	if _, _, err := c.LemmaOrBackoff("go", "(x)"); err == nil {
		t.Error("LemmaOrBackoff with malformed label succeeded")
	}
}

func TestLabelStability(t *testing.T) {
	// Labels are persisted in corpora, so their exact text must not drift.
	golden := map[[2]string]string{
		{"walking", "walk"}:     `(m 0 3 () (r "ing" ""))`,
		{"gegangen", "gehen"}:   `(m 0 6 () (m 4 0 (r "gang" "h") ()))`,
		{"Häuser", "Haus"}:      `(m 2 2 (m 0 1 () (r "ä" "a")) (r "er" ""))`,
		{"went", "go"}:          `(r "went" "go")`,
		{"unhappiest", "happy"}: `(m 2 4 (r "un" "") (r "iest" "y"))`,
	}

	c := New(FormBackoff())
	for pair, want := range golden {
		if got := c.Label(pair[0], pair[1]); got != want {
			t.Errorf("Label(%q, %q) = %q, want %q", pair[0], pair[1], got, want)
		}
	}
}
