package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tetrivo/tetra/internal/eval"
)

var (
	evalTopK   int
	evalHybrid bool
	evalJSON   bool
)

var evalCmd = &cobra.Command{
	Use:   "eval [golden.yaml...]",
	Short: "Evaluate ranking quality against golden sets",
	Long: `Indexes the instructions of each golden set into a throwaway store,
asks its questions and reports recall@5, recall@10, nDCG@10 and MRR@10.

Questions answered by the fallback count as misses.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().IntVarP(&evalTopK, "top", "k", eval.DefaultTopK, "instructions requested per question")
	evalCmd.Flags().BoolVar(&evalHybrid, "hybrid", false, "use hybrid retrieval when available")
	evalCmd.Flags().BoolVar(&evalJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	if evalServices == nil {
		return errors.New("evaluation services not configured")
	}

	ctx := commandContext(cmd)
	for i, path := range args {
		ds, err := eval.LoadDataset(path)
		if err != nil {
			return err
		}

		// Each dataset gets its own store so corpora never mix.
		index, retrieval := evalServices()
		runner := eval.NewRunner(index, retrieval, eval.WithTopK(evalTopK), eval.WithHybrid(evalHybrid))
		result, err := runner.Run(ctx, ds)
		if err != nil {
			return fmt.Errorf("evaluate %s: %w", path, err)
		}

		if i > 0 {
			cmd.Println()
		}
		if evalJSON {
			err = result.WriteJSON(cmd.OutOrStdout())
		} else {
			err = result.WriteTable(cmd.OutOrStdout())
		}
		if err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}
	return nil
}
