package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/teleprint-me/altbpe/fs/sqlite"
	"github.com/teleprint-me/altbpe/tokenizer"
)

func ShowHandler(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		return fmt.Errorf("no database given; set --db or ALTBPE_DB")
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	artifacts, err := store.LoadArtifacts()
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	out := os.Stdout

	prettyPrintVocabulary(out, artifacts.Vocabulary, limit)
	fmt.Fprint(out, "\n")
	prettyPrintMerges(out, artifacts.Merges, limit)
	return nil
}

func prettyPrintVocabulary(out io.Writer, vocab *tokenizer.Vocabulary, limit int) {
	table := tablewriter.NewWriter(out)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding(" ")
	table.SetHeader([]string{"ID", "SYMBOL", "FREQUENCY"})

	fmt.Fprintf(out, "Vocabulary (%d symbols):\n", vocab.Size())
	for i, symbol := range vocab.Values {
		if limit > 0 && i >= limit {
			break
		}
		table.Append([]string{
			strconv.Itoa(i),
			strconv.Quote(symbol),
			strconv.Itoa(vocab.Freqs[i]),
		})
	}
	table.Render()
	if limit > 0 && vocab.Size() > limit {
		fmt.Fprintf(out, "... %d more\n", vocab.Size()-limit)
	}
}

func prettyPrintMerges(out io.Writer, merges []tokenizer.MergeRule, limit int) {
	table := tablewriter.NewWriter(out)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding(" ")
	table.SetHeader([]string{"RANK", "LEFT", "RIGHT", "MERGED"})

	fmt.Fprintf(out, "Merges (%d rules):\n", len(merges))
	for i, rule := range merges {
		if limit > 0 && i >= limit {
			break
		}
		table.Append([]string{
			strconv.Itoa(rule.Rank),
			strconv.Quote(rule.Left),
			strconv.Quote(rule.Right),
			strconv.Quote(rule.Merged),
		})
	}
	table.Render()
	if limit > 0 && len(merges) > limit {
		fmt.Fprintf(out, "... %d more\n", len(merges)-limit)
	}
}
