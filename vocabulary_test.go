package edittree

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadVocabulary(t *testing.T) {
	src := strings.Join([]string{
		"! form\tlemma",
		"",
		"ging\tgehen",
		"ging\tgang",
		"Äpfel\tApfel\r",
		"leer\t",
	}, "\n")

	v, err := ReadVocabulary(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 3, v.Len())

	lemma, ok := v.Lookup("ging")
	assert.True(t, ok)
	assert.Equal(t, "gehen", lemma, "first entry wins")

	lemma, ok = v.Lookup("äpfel")
	assert.True(t, ok)
	assert.Equal(t, "Apfel", lemma)

	lemma, ok = v.Lookup("leer")
	assert.True(t, ok)
	assert.Equal(t, "", lemma)

	_, ok = v.Lookup("Birne")
	assert.False(t, ok)
}

func TestReadVocabularyMalformed(t *testing.T) {
	_, err := ReadVocabulary(strings.NewReader("ging\tgehen\nkaputt\n"))
	assert.EqualError(t, err, "line 2: expected form<TAB>lemma")

	_, err = ReadVocabulary(strings.NewReader("\tgehen\n"))
	assert.Error(t, err)
}

func TestLoadVocabulary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.tsv")
	require.NoError(t, os.WriteFile(path, []byte("was\tbe\n"), 0o644))

	v, err := LoadVocabulary(path)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Len())

	_, err = LoadVocabulary(filepath.Join(t.TempDir(), "missing.tsv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewVocabularyFoldsDeterministically(t *testing.T) {
	v := NewVocabulary(map[string]string{"Was": "WAS", "was": "be"})

	lemma, _ := v.Lookup("was")
	assert.Equal(t, "be", lemma)
	lemma, _ = v.Lookup("WAS")
	assert.Equal(t, "WAS", lemma)

	var nilVocab *Vocabulary
	_, ok := nilVocab.Lookup("was")
	assert.False(t, ok)
	assert.Zero(t, nilVocab.Len())
}
