package edittree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize(t *testing.T) {
	tests := []struct {
		tree EditTree
		want string
	}{
		{nil, "()"},
		{&ReplaceNode{Replacee: "ing"}, `(r "ing" "")`},
		{&MatchNode{Pre: 12, Suf: 0}, "(m 12 0 () ())"},
		{&ReplaceNode{Replacee: `a"b`, Replacement: `c\d`}, `(r "a\"b" "c\\d")`},
		{&ReplaceNode{Replacee: "a|b", Replacement: "\t\n\r"}, `(r "a\|b" "\t\n\r")`},
		{&ReplaceNode{Replacee: "(m 0 0 () ())", Replacement: "日本"}, `(r "(m 0 0 () ())" "日本")`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Serialize(tt.tree))
		if tt.tree != nil {
			assert.Equal(t, tt.want, tt.tree.String())
		}
	}
}

func TestDeserializeRoundTrip(t *testing.T) {
	labels := []string{
		"()",
		"(m 0 0 () ())",
		`(m 0 3 () (r "ing" ""))`,
		`(m 0 6 () (m 4 0 (r "gang" "h") ()))`,
		`(m 2 2 (m 0 1 () (r "ä" "a")) (r "er" ""))`,
		`(r "a\"b" "c\\d")`,
		`(r "a\|b" "\t\n\r")`,
		`(r "" "")`,
	}

	for _, label := range labels {
		tree, err := Deserialize(label)
		require.NoError(t, err, label)
		assert.Equal(t, label, Serialize(tree))
	}
}

func TestDeserializeEncoded(t *testing.T) {
	pairs := [][2]string{
		{"walking", "walk"},
		{`"quoted"`, `quote`},
		{`back\slash`, `slash`},
		{"pipe|d", "pipe"},
		{"tab\tbed", "bed"},
		{"", "x"},
		{"x", ""},
	}

	for _, p := range pairs {
		tree := Build(p[0], p[1])
		parsed, err := Deserialize(Serialize(tree))
		require.NoError(t, err, "%q → %q", p[0], p[1])
		assert.True(t, Equal(tree, parsed), "%s", tree)

		lemma, err := Decode(parsed, p[0])
		require.NoError(t, err)
		assert.Equal(t, p[1], lemma)
	}
}

func TestDeserializeErrors(t *testing.T) {
	tests := []struct {
		label  string
		offset int
	}{
		{"", 0},
		{"(", 1},
		{"(x)", 1},
		{"(m 01 0 () ())", 3},
		{"(m -1 0 () ())", 3},
		{"(m  0 0 () ())", 3},
		{"(m 0 x () ())", 5},
		{"(m 0 0 () ()", 12},
		{"(m 0 0 ())", 9},
		{`(r "abc" "x"`, 12},
		{`(r "abc`, 7},
		{`(r abc "x")`, 3},
		{`(r "a\q" "")`, 6},
		{`(r "a|b" "")`, 5},
		{"(r \"a\nb\" \"\")", 5},
		{"() ", 2},
		{"()()", 2},
		{"(m 99999999999999999999999 0 () ())", 3},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			tree, err := Deserialize(tt.label)
			require.Error(t, err)
			assert.Nil(t, tree)
			assert.True(t, errors.Is(err, ErrSyntax))

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.offset, pe.Offset, pe.Error())
		})
	}
}

func TestMustDeserialize(t *testing.T) {
	assert.Equal(t, "(m 0 0 () ())", MustDeserialize("(m 0 0 () ())").String())
	assert.Panics(t, func() { MustDeserialize("(m") })
}

func FuzzDeserialize(f *testing.F) {
	f.Add("()")
	f.Add(`(m 0 3 () (r "ing" ""))`)
	f.Add(`(r "a\"b" "c\\d")`)

	f.Fuzz(func(t *testing.T, label string) {
		tree, err := Deserialize(label)
		if err != nil {
			return
		}
		// Anything accepted must be canonical.
		if got := Serialize(tree); got != label {
			t.Fatalf("Serialize(Deserialize(%q)) = %q", label, got)
		}
	})
}
