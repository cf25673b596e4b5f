package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/teleprint-me/altbpe/envconfig"
	"github.com/teleprint-me/altbpe/logutil"
	"github.com/teleprint-me/altbpe/version"
)

func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "altbpe",
		Short:         "Train byte-pair-encoding vocabularies",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if envconfig.Debug {
				level = slog.LevelDebug
			}
			if envconfig.Trace {
				level = logutil.LevelTrace
			}
			slog.SetDefault(logutil.NewLogger(os.Stderr, level))
		},
		Version: version.Version,
	}

	trainCmd := &cobra.Command{
		Use:   "train CORPUS",
		Short: "Train a vocabulary from a text corpus",
		Args:  cobra.ExactArgs(1),
		RunE:  TrainHandler,
	}
	trainCmd.Flags().String("db", envconfig.Database, "SQLite database to write artifacts to")
	trainCmd.Flags().Int("vocab-size", 0, "Stop once this many distinct symbols exist")
	trainCmd.Flags().Int("max-merges", envconfig.MaxMerges, "Merge-round budget")
	trainCmd.Flags().Int("min-pair-count", 1, "Stop once the best pair occurs fewer times than this")
	trainCmd.Flags().Int("workers", envconfig.NumWorkers, "Workers for the pair-statistics scan")
	trainCmd.Flags().String("pretokenizer", "", "Override the pre-tokenizer split pattern")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the trained vocabulary and merge rules",
		Args:  cobra.NoArgs,
		RunE:  ShowHandler,
	}
	showCmd.Flags().String("db", envconfig.Database, "SQLite database to read artifacts from")
	showCmd.Flags().Int("limit", 20, "Rows to display per table (0 for all)")

	envCmd := &cobra.Command{
		Use:   "env",
		Short: "Show environment configuration",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for name, v := range envconfig.AsMap() {
				fmt.Printf("%-20s %v\n", name, v.Value)
			}
		},
	}

	rootCmd.AddCommand(trainCmd, showCmd, envCmd)
	return rootCmd
}
