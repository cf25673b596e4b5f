package tokenizer

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/teleprint-me/altbpe/hashtable"
)

// pairSeparator joins two adjacent symbols into a pair key. No symbol
// may contain it; PairStats rejects such symbols instead of silently
// producing ambiguous keys.
const pairSeparator = " "

// PairKey forms the stats key for two adjacent symbols.
func PairKey(left, right string) string {
	return left + pairSeparator + right
}

// CutPairKey splits a stats key back into its two symbols.
func CutPairKey(key string) (left, right string, ok bool) {
	return strings.Cut(key, pairSeparator)
}

// PairStats scans every word with a two-symbol sliding window and
// accumulates the word's frequency into the window's pair. Every
// adjacent occurrence counts, including overlapping repeats within one
// word. The scan shards across workers; shard results are summed, and
// addition commutes, so scheduling never changes the outcome. The
// returned table is valid only until the next merge mutates the store.
func (s *VocabStore) PairStats(ctx context.Context, workers int) (*hashtable.Table[int], error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	entries := make([]*VocabEntry, 0, s.Len())
	s.Range(func(_ string, entry *VocabEntry) bool {
		entries = append(entries, entry)
		return true
	})

	if workers > len(entries) {
		workers = max(len(entries), 1)
	}

	locals := make([]*hashtable.Table[int], workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			// pair keys are freshly allocated per window and never
			// touched again, so the table can alias them instead of
			// copying each one a second time
			local, err := hashtable.NewShared[int](64)
			if err != nil {
				return err
			}
			locals[w] = local

			for i := w; i < len(entries); i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := countPairs(local, entries[i]); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats, err := hashtable.NewShared[int](64)
	if err != nil {
		return nil, err
	}
	for _, local := range locals {
		var setErr error
		local.Range(func(key []byte, n int) bool {
			total, _ := stats.Get(key)
			setErr = stats.Set(key, total+n)
			return setErr == nil
		})
		if setErr != nil {
			return nil, setErr
		}
		// drops the local slots; keys now aliased by stats stay alive
		local.Clear()
	}
	return stats, nil
}

// countPairs adds one word's frequency-weighted pair counts to the
// table. A word with fewer than two symbols contributes nothing.
func countPairs(stats *hashtable.Table[int], entry *VocabEntry) error {
	if len(entry.Symbols) < 2 {
		return nil
	}

	for _, sym := range entry.Symbols {
		if strings.Contains(sym, pairSeparator) {
			return fmt.Errorf("%w: %q", ErrAmbiguousPair, sym)
		}
	}

	for i := 0; i < len(entry.Symbols)-1; i++ {
		key := []byte(PairKey(entry.Symbols[i], entry.Symbols[i+1]))
		n, _ := stats.Get(key)
		if err := stats.Set(key, n+entry.Frequency); err != nil {
			return err
		}
	}
	return nil
}
