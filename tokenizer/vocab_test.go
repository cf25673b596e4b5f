package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabStoreAdd(t *testing.T) {
	store, err := NewVocabStore(8)
	require.NoError(t, err)

	require.NoError(t, store.Add("low", Decompose("low"), 3))
	require.NoError(t, store.Add("low", Decompose("low"), 2))
	require.NoError(t, store.Add("wide", Decompose("wide"), 1))

	assert.Equal(t, 2, store.Len())
	assert.Equal(t, 6, store.TotalFrequency())

	var entry *VocabEntry
	store.Range(func(word string, e *VocabEntry) bool {
		if word == "low" {
			entry = e
		}
		return true
	})
	require.NotNil(t, entry)
	assert.Equal(t, 5, entry.Frequency, "repeated adds accumulate frequency")
	assert.Equal(t, []string{"l", "o", "w"}, entry.Symbols)
}

func TestVocabStoreInvalid(t *testing.T) {
	store, err := NewVocabStore(8)
	require.NoError(t, err)

	assert.Error(t, store.Add("", nil, 1))
	assert.Error(t, store.Add("word", Decompose("word"), 0))
	assert.Error(t, store.Add("word", Decompose("word"), -1))
}

func TestTotalBytesInvariantAcrossMerge(t *testing.T) {
	store := specStore(t)

	// low x5 (3 bytes), lower x2 (5), newest x6 (6), widest x3 (6)
	want := 3*5 + 5*2 + 6*6 + 6*3
	assert.Equal(t, want, store.TotalBytes())

	// a merge moves symbol boundaries only
	store.Range(func(_ string, entry *VocabEntry) bool {
		entry.Symbols = spliceSymbols(entry.Symbols, MergeRule{Left: "e", Right: "s", Merged: "es"})
		return true
	})
	assert.Equal(t, want, store.TotalBytes())
	assert.Equal(t, 16, store.TotalFrequency())
}
