package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teleprint-me/altbpe/tokenizer"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "altbpe.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func trainArtifacts(t *testing.T) *tokenizer.Artifacts {
	t.Helper()
	artifacts, err := tokenizer.TrainCounts(context.Background(), map[string]int{
		"low":    5,
		"lower":  2,
		"newest": 6,
		"widest": 3,
	}, tokenizer.Options{MaxMerges: 4, MinPairCount: 1})
	require.NoError(t, err)
	return artifacts
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := openStore(t)
	artifacts := trainArtifacts(t)

	require.NoError(t, store.SaveArtifacts(artifacts))

	loaded, err := store.LoadArtifacts()
	require.NoError(t, err)

	ignore := cmpopts.IgnoreUnexported(tokenizer.Vocabulary{})
	if diff := cmp.Diff(artifacts.Vocabulary, loaded.Vocabulary, ignore); diff != "" {
		t.Errorf("vocabulary mismatch (-saved +loaded):\n%s", diff)
	}
	if diff := cmp.Diff(artifacts.Merges, loaded.Merges); diff != "" {
		t.Errorf("merges mismatch (-saved +loaded):\n%s", diff)
	}

	// the byte fallback is regenerated, not read back; it must still
	// round-trip every byte value
	for i := 0; i < 256; i++ {
		b := byte(i)
		got, ok := loaded.ByteFallback.Decode(loaded.ByteFallback.Token(b))
		require.True(t, ok)
		require.Equal(t, b, got)
	}
}

func TestSaveReplacesExisting(t *testing.T) {
	store := openStore(t)
	artifacts := trainArtifacts(t)

	require.NoError(t, store.SaveArtifacts(artifacts))
	require.NoError(t, store.SaveArtifacts(artifacts))

	loaded, err := store.LoadArtifacts()
	require.NoError(t, err)
	assert.Equal(t, artifacts.Vocabulary.Size(), loaded.Vocabulary.Size())
	assert.Len(t, loaded.Merges, len(artifacts.Merges))
}

func TestLoadEmpty(t *testing.T) {
	store := openStore(t)

	_, err := store.LoadArtifacts()
	assert.Error(t, err)
}

func TestMeta(t *testing.T) {
	store := openStore(t)

	v, err := store.Meta("tokenizer.pretokenizer")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, store.SetMeta("tokenizer.pretokenizer", tokenizer.DefaultPretokenizer))
	v, err = store.Meta("tokenizer.pretokenizer")
	require.NoError(t, err)
	assert.Equal(t, tokenizer.DefaultPretokenizer, v)

	// overwrite
	require.NoError(t, store.SetMeta("tokenizer.pretokenizer", "x"))
	v, err = store.Meta("tokenizer.pretokenizer")
	require.NoError(t, err)
	assert.Equal(t, "x", v)
}
