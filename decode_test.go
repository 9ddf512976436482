package edittree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeGeneralizes(t *testing.T) {
	tests := []struct {
		form, lemma string
		apply       string
		want        string
	}{
		{"walking", "walk", "talking", "talk"},
		{"cats", "cat", "dogs", "dog"},
		{"gegangen", "gehen", "gegangen", "gehen"},
		{"Häuser", "Haus", "Mäuser", "Maus"},
		{"unhappiest", "happy", "unluckiest", "lucky"},
	}

	for _, tt := range tests {
		tree := Encode(tt.form, tt.lemma, FormBackoff())
		got, err := Decode(tree, tt.apply)
		require.NoError(t, err, "%s applied to %q", tree, tt.apply)
		assert.Equal(t, tt.want, got)
	}
}

func TestDecodeMismatch(t *testing.T) {
	cats := Encode("cats", "cat", FormBackoff())

	tests := []struct {
		name string
		tree EditTree
		form string
	}{
		{"replacee differs", cats, "dogx"},
		{"form too short", cats, "s"},
		{"empty form", cats, ""},
		{"empty tree", nil, "a"},
		{"replace node", &ReplaceNode{Replacee: "go", Replacement: "went"}, "goes"},
		{"absent left child", &MatchNode{Pre: 1, Suf: 0}, "ab"},
		{"absent right child", &MatchNode{Pre: 0, Suf: 1}, "ab"},
		{"empty middle", &MatchNode{Pre: 1, Suf: 1, Left: &ReplaceNode{Replacee: "a"}, Right: &ReplaceNode{Replacee: "b"}}, "ab"},
		{"negative pre", &MatchNode{Pre: -1}, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.tree, tt.form)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMismatch), "%v", err)

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.NotEmpty(t, de.Reason)
		})
	}
}

func TestNilNodesAreEmptyTrees(t *testing.T) {
	var (
		match   *MatchNode
		replace *ReplaceNode
	)
	trees := []EditTree{match, replace}

	for _, tree := range trees {
		assert.Equal(t, "()", Serialize(tree))
		assert.Equal(t, "()", tree.String())
		assert.True(t, Equal(tree, nil))
		assert.Zero(t, Depth(tree))
		assert.Zero(t, Nodes(tree))

		got, err := Decode(tree, "")
		require.NoError(t, err)
		assert.Empty(t, got)

		_, err = Decode(tree, "a")
		assert.ErrorIs(t, err, ErrMismatch)
	}

	nested := &MatchNode{Pre: 0, Suf: 2, Left: match, Right: &ReplaceNode{Replacee: "er"}}
	assert.Equal(t, `(m 0 2 () (r "er" ""))`, Serialize(nested))
	assert.True(t, Equal(nested, Encode("Kinder", "Kind", FormBackoff())))

	got, err := Decode(nested, "Kinder")
	require.NoError(t, err)
	assert.Equal(t, "Kind", got)
}

func TestDecodeMiddleMustBeNonEmpty(t *testing.T) {
	tree := MustDeserialize(`(m 0 1 () (r "s" ""))`)

	got, err := Decode(tree, "cats")
	require.NoError(t, err)
	assert.Equal(t, "cat", got)

	_, err = Decode(tree, "s")
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestDecodeWalkingRejectsOtherSuffix(t *testing.T) {
	tree := Encode("walking", "walk", FormBackoff())
	_, err := Decode(tree, "walked")
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestDecodeOrBackoff(t *testing.T) {
	tree := Encode("cats", "cat", FormBackoff())

	lemma, ok := DecodeOrBackoff(tree, "dogs", FormBackoff())
	assert.True(t, ok)
	assert.Equal(t, "dog", lemma)

	lemma, ok = DecodeOrBackoff(tree, "ox", FormBackoff())
	assert.False(t, ok)
	assert.Equal(t, "ox", lemma)

	lemma, ok = DecodeOrBackoff(tree, "ox", ConstantBackoff("_"))
	assert.False(t, ok)
	assert.Equal(t, "_", lemma)
}

func TestDecodeErrorMessage(t *testing.T) {
	_, err := Decode(&ReplaceNode{Replacee: "go", Replacement: "went"}, "run")
	require.Error(t, err)
	assert.Equal(t, `edit tree does not apply to form: "run": expected "go"`, err.Error())
}
