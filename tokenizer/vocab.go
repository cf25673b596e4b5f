// Package tokenizer trains byte-pair-encoding vocabularies. A corpus of
// pre-tokenized words is reduced by repeatedly merging the most frequent
// adjacent symbol pair; the trained artifacts are the symbol vocabulary,
// the ordered merge-rule list, and a byte-fallback table.
package tokenizer

import (
	"errors"
	"fmt"

	"github.com/teleprint-me/altbpe/hashtable"
)

var (
	// ErrEmptyCorpus is returned when training is started with no words.
	ErrEmptyCorpus = errors.New("tokenizer: empty corpus")

	// ErrAmbiguousPair is returned when a symbol contains the pair-key
	// separator, which would make pair keys ambiguous.
	ErrAmbiguousPair = errors.New("tokenizer: symbol contains pair separator")

	// ErrCorrupt is returned when a merge round changes the total byte
	// content or frequency sum of the store. Training must halt rather
	// than continue from inconsistent state.
	ErrCorrupt = errors.New("tokenizer: vocabulary store corrupted")
)

// VocabEntry is one distinct corpus word. Symbols is the mutable
// symbol sequence, initially one symbol per codepoint; Frequency is the
// occurrence count and never changes after construction.
type VocabEntry struct {
	Symbols   []string
	Frequency int
}

// VocabStore is a multiset of corpus words keyed by their original
// surface form.
type VocabStore struct {
	table *hashtable.Table[*VocabEntry]
}

func NewVocabStore(capacity int) (*VocabStore, error) {
	table, err := hashtable.New[*VocabEntry](capacity)
	if err != nil {
		return nil, err
	}
	return &VocabStore{table: table}, nil
}

// Add records frequency occurrences of word. Repeated adds of the same
// surface form accumulate; the symbol sequence of the first add wins.
func (s *VocabStore) Add(word string, symbols []string, frequency int) error {
	if word == "" || frequency <= 0 {
		return hashtable.ErrInvalidInput
	}

	key := []byte(word)
	if entry, ok := s.table.Get(key); ok {
		entry.Frequency += frequency
		return nil
	}

	return s.table.Set(key, &VocabEntry{
		Symbols:   symbols,
		Frequency: frequency,
	})
}

// Len reports the number of distinct words.
func (s *VocabStore) Len() int {
	return s.table.Len()
}

// Range calls fn for every entry. Iteration order carries no meaning.
func (s *VocabStore) Range(fn func(word string, entry *VocabEntry) bool) {
	s.table.Range(func(key []byte, entry *VocabEntry) bool {
		return fn(string(key), entry)
	})
}

// TotalFrequency sums the occurrence counts of all words.
func (s *VocabStore) TotalFrequency() int {
	var total int
	s.table.Range(func(_ []byte, entry *VocabEntry) bool {
		total += entry.Frequency
		return true
	})
	return total
}

// TotalBytes sums frequency-weighted symbol byte lengths. Merges only
// move symbol boundaries, so this quantity is invariant across rounds.
func (s *VocabStore) TotalBytes() int {
	var total int
	s.table.Range(func(_ []byte, entry *VocabEntry) bool {
		var n int
		for _, sym := range entry.Symbols {
			n += len(sym)
		}
		total += n * entry.Frequency
		return true
	})
	return total
}

// storeFromCounts builds a store from word counts, decomposing each
// word into its initial symbols.
func storeFromCounts(counts map[string]int) (*VocabStore, error) {
	if len(counts) == 0 {
		return nil, ErrEmptyCorpus
	}

	store, err := NewVocabStore(len(counts))
	if err != nil {
		return nil, err
	}
	for word, n := range counts {
		if err := store.Add(word, Decompose(word), n); err != nil {
			return nil, fmt.Errorf("add %q: %w", word, err)
		}
	}
	return store, nil
}
