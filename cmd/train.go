package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teleprint-me/altbpe/format"
	"github.com/teleprint-me/altbpe/fs/sqlite"
	"github.com/teleprint-me/altbpe/tokenizer"
)

func TrainHandler(cmd *cobra.Command, args []string) error {
	corpus, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	vocabSize, _ := cmd.Flags().GetInt("vocab-size")
	maxMerges, _ := cmd.Flags().GetInt("max-merges")
	minPairCount, _ := cmd.Flags().GetInt("min-pair-count")
	workers, _ := cmd.Flags().GetInt("workers")
	pattern, _ := cmd.Flags().GetString("pretokenizer")

	if vocabSize <= 0 && maxMerges <= 0 {
		return fmt.Errorf("set --vocab-size or --max-merges to give training a stop condition")
	}

	opts := tokenizer.Options{
		TargetVocabSize: vocabSize,
		MaxMerges:       maxMerges,
		MinPairCount:    minPairCount,
		NumWorkers:      workers,
		Pretokenizer:    pattern,
	}
	if maxMerges <= 0 {
		// unbounded; the vocab-size target stops the run
		opts.MaxMerges = -1
	}

	artifacts, err := tokenizer.Train(cmd.Context(), string(corpus), opts)
	if err != nil {
		return err
	}

	fmt.Printf("trained %s symbols, %s merges from %s bytes of corpus\n",
		format.HumanNumber(uint64(artifacts.Vocabulary.Size())),
		format.HumanNumber(uint64(len(artifacts.Merges))),
		format.HumanNumber(uint64(len(corpus))))

	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		return nil
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveArtifacts(artifacts); err != nil {
		return err
	}
	if pattern == "" {
		pattern = tokenizer.DefaultPretokenizer
	}
	if err := store.SetMeta("tokenizer.pretokenizer", pattern); err != nil {
		return err
	}

	fmt.Printf("saved artifacts to %s\n", dbPath)
	return nil
}
