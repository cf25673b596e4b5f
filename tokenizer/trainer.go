package tokenizer

import (
	"context"
	"log/slog"
	"slices"
	"time"
)

// Options control a training run.
type Options struct {
	// TargetVocabSize stops training once the number of distinct
	// symbols reaches it. Zero means no target.
	TargetVocabSize int

	// MaxMerges bounds the number of merge rounds. Zero means a
	// zero-round budget: the store is left exactly as decomposed.
	// Negative means unbounded (the target or pair exhaustion stops
	// the run instead).
	MaxMerges int

	// MinPairCount terminates training once the best pair occurs fewer
	// times than this. Zero selects the default of 1: any remaining
	// pair merges until the budget, target, or pair exhaustion stops
	// the run.
	MinPairCount int

	// NumWorkers shards the pair-statistics scan. Zero means NumCPU.
	NumWorkers int

	// Pretokenizer overrides the split pattern used by Train.
	Pretokenizer string
}

func (o Options) withDefaults() Options {
	if o.MinPairCount == 0 {
		o.MinPairCount = 1
	}
	if o.MaxMerges == 0 && o.TargetVocabSize > 0 {
		o.MaxMerges = -1
	}
	return o
}

// Artifacts is the trained output: the symbol vocabulary, the ordered
// merge-rule list, and the byte-fallback table. All three are required
// downstream; see MergeRule for why the vocabulary alone is not enough.
type Artifacts struct {
	Vocabulary   *Vocabulary
	Merges       []MergeRule
	ByteFallback *ByteFallback
}

// Train pre-tokenizes raw text into words and trains on their counts.
func Train(ctx context.Context, text string, opts Options) (*Artifacts, error) {
	pre, err := NewPretokenizer(opts.Pretokenizer)
	if err != nil {
		return nil, err
	}

	words, err := pre.Split(text)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(words))
	for _, word := range words {
		counts[word]++
	}

	return TrainCounts(ctx, counts, opts)
}

// TrainCounts trains on pre-tokenized word counts.
func TrainCounts(ctx context.Context, counts map[string]int, opts Options) (*Artifacts, error) {
	store, err := storeFromCounts(counts)
	if err != nil {
		return nil, err
	}
	return TrainStore(ctx, store, opts)
}

// TrainStore runs the merge loop over an existing store and assembles
// the artifacts. The store is mutated in place.
func TrainStore(ctx context.Context, store *VocabStore, opts Options) (*Artifacts, error) {
	start := time.Now()

	initial := initialSymbols(store)

	engine, err := NewMergeEngine(store, opts)
	if err != nil {
		return nil, err
	}
	if err := engine.Run(ctx); err != nil {
		return nil, err
	}

	fallback, err := NewByteFallback()
	if err != nil {
		return nil, err
	}

	artifacts := &Artifacts{
		Vocabulary:   assembleVocabulary(store, initial, engine.Rules()),
		Merges:       engine.Rules(),
		ByteFallback: fallback,
	}

	slog.Info("trained",
		"words", store.Len(),
		"symbols", artifacts.Vocabulary.Size(),
		"merges", len(artifacts.Merges),
		"elapsed", time.Since(start))
	return artifacts, nil
}

// initialSymbols returns the distinct pre-merge symbols in sorted
// order, pinning the low vocabulary ids independently of table
// iteration order.
func initialSymbols(store *VocabStore) []string {
	seen := make(map[string]struct{})
	store.Range(func(_ string, entry *VocabEntry) bool {
		for _, sym := range entry.Symbols {
			seen[sym] = struct{}{}
		}
		return true
	})

	symbols := make([]string, 0, len(seen))
	for sym := range seen {
		symbols = append(symbols, sym)
	}
	slices.Sort(symbols)
	return symbols
}

// assembleVocabulary assigns ids to every symbol that ever existed:
// initial symbols first in sorted order, then merged symbols in rank
// order. Frequencies reflect the final store state; a symbol fully
// absorbed by later merges keeps its id with a zero frequency.
func assembleVocabulary(store *VocabStore, initial []string, rules []MergeRule) *Vocabulary {
	freqs := make(map[string]int)
	store.Range(func(_ string, entry *VocabEntry) bool {
		for _, sym := range entry.Symbols {
			freqs[sym] += entry.Frequency
		}
		return true
	})

	vocab := &Vocabulary{
		Values: make([]string, 0, len(initial)+len(rules)),
		Types:  make([]int32, 0, len(initial)+len(rules)),
		Freqs:  make([]int, 0, len(initial)+len(rules)),
	}

	assigned := make(map[string]struct{}, len(initial)+len(rules))
	add := func(sym string) {
		if _, ok := assigned[sym]; ok {
			return
		}
		assigned[sym] = struct{}{}
		vocab.Values = append(vocab.Values, sym)
		vocab.Types = append(vocab.Types, TokenNormal)
		vocab.Freqs = append(vocab.Freqs, freqs[sym])
	}

	for _, sym := range initial {
		add(sym)
	}
	for _, rule := range rules {
		add(rule.Merged)
	}
	return vocab
}
