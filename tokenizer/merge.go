package tokenizer

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"

	heap "github.com/emirpasic/gods/v2/trees/binaryheap"

	"github.com/teleprint-me/altbpe/hashtable"
	"github.com/teleprint-me/altbpe/logutil"
)

// MergeRule records one training step: Left and Right were coalesced
// into Merged at the given rank. The ordered rule list is the artifact
// that lets an encoder replay training order on unseen text; the
// vocabulary alone cannot.
type MergeRule struct {
	Left   string
	Right  string
	Merged string
	Rank   int
}

type engineState int

const (
	stateRunning engineState = iota
	stateTerminated
)

// MergeEngine drives the training loop over a vocabulary store.
type MergeEngine struct {
	store *VocabStore
	opts  Options

	state engineState
	rules []MergeRule

	// symbols distinct at any point during training, initial and merged
	symbols map[string]struct{}

	// conservation baselines captured at creation
	wantBytes int
	wantFreq  int
}

// NewMergeEngine prepares an engine over store. The store must already
// hold the corpus; the engine mutates its entries in place.
func NewMergeEngine(store *VocabStore, opts Options) (*MergeEngine, error) {
	if store == nil || store.Len() == 0 {
		return nil, ErrEmptyCorpus
	}

	symbols := make(map[string]struct{})
	store.Range(func(_ string, entry *VocabEntry) bool {
		for _, sym := range entry.Symbols {
			symbols[sym] = struct{}{}
		}
		return true
	})

	return &MergeEngine{
		store:     store,
		opts:      opts.withDefaults(),
		symbols:   symbols,
		wantBytes: store.TotalBytes(),
		wantFreq:  store.TotalFrequency(),
	}, nil
}

// Rules returns the merge rules recorded so far, in rank order.
func (e *MergeEngine) Rules() []MergeRule {
	return e.rules
}

// Terminated reports whether the engine has reached a stop condition.
func (e *MergeEngine) Terminated() bool {
	return e.state == stateTerminated
}

// pairCount is one candidate pair drawn from the round's stats table.
type pairCount struct {
	key   string
	count int
}

// Run executes merge rounds until a stop condition is reached: the
// round budget is spent, the target vocabulary size is met, no pairs
// remain, or every remaining pair is below the minimum count.
func (e *MergeEngine) Run(ctx context.Context) error {
	for e.state == stateRunning {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.round(ctx); err != nil {
			e.state = stateTerminated
			return err
		}
	}
	return nil
}

func (e *MergeEngine) round(ctx context.Context) error {
	if e.opts.MaxMerges >= 0 && len(e.rules) >= e.opts.MaxMerges {
		e.state = stateTerminated
		return nil
	}
	if e.opts.TargetVocabSize > 0 && len(e.symbols) >= e.opts.TargetVocabSize {
		e.state = stateTerminated
		return nil
	}

	stats, err := e.store.PairStats(ctx, e.opts.NumWorkers)
	if err != nil {
		return err
	}
	// the stats table is rebuilt from scratch each round; release this
	// round's keys and counts before the store mutates underneath them
	defer stats.Clear()

	if stats.Len() == 0 {
		e.state = stateTerminated
		return nil
	}

	best, ok := selectPair(stats)
	if !ok || best.count < e.opts.MinPairCount {
		e.state = stateTerminated
		return nil
	}

	left, right, ok := CutPairKey(best.key)
	if !ok {
		return fmt.Errorf("%w: bad pair key %q", ErrAmbiguousPair, best.key)
	}

	rule := MergeRule{
		Left:   left,
		Right:  right,
		Merged: left + right,
		Rank:   len(e.rules),
	}

	e.store.Range(func(_ string, entry *VocabEntry) bool {
		entry.Symbols = spliceSymbols(entry.Symbols, rule)
		return true
	})

	if e.store.TotalBytes() != e.wantBytes || e.store.TotalFrequency() != e.wantFreq {
		return fmt.Errorf("%w: conservation check failed after merge %d", ErrCorrupt, rule.Rank)
	}

	e.rules = append(e.rules, rule)
	e.symbols[rule.Merged] = struct{}{}

	slog.Debug("merge", "rank", rule.Rank, "left", rule.Left, "right", rule.Right, "count", best.count)
	return nil
}

// selectPair returns the highest-count pair. Ties break on the
// lexicographically smallest pair key. The comparator is a total
// order, so the popped maximum is the same whatever order the stats
// table iterates in.
func selectPair(stats *hashtable.Table[int]) (pairCount, bool) {
	pairs := heap.NewWith(func(a, b pairCount) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.key, b.key)
	})

	stats.Range(func(key []byte, count int) bool {
		pairs.Push(pairCount{key: string(key), count: count})
		return true
	})

	return pairs.Pop()
}

// spliceSymbols replaces every non-overlapping occurrence of the rule's
// pair, scanning the symbol sequence left to right. Operating on the
// discrete sequence rather than the joined string means a previously
// merged symbol whose text happens to contain the pair's characters is
// never corrupted.
func spliceSymbols(symbols []string, rule MergeRule) []string {
	n := len(symbols)
	if n < 2 {
		return symbols
	}

	var out []string
	for i := 0; i < n; {
		if i+1 < n && symbols[i] == rule.Left && symbols[i+1] == rule.Right {
			if out == nil {
				out = append(make([]string, 0, n), symbols[:i]...)
			}
			out = append(out, rule.Merged)
			logutil.Trace("splice", "at", i, "merged", rule.Merged)
			i += 2
		} else {
			if out != nil {
				out = append(out, symbols[i])
			}
			i++
		}
	}

	if out == nil {
		return symbols
	}
	return out
}
