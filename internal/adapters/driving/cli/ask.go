package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tetrivo/tetra/internal/core/domain"
)

var (
	askTopN        int
	askHybrid      bool
	askJSON        bool
	askShowContext bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Find the instructions relevant to a question",
	Long: `Ranks the published instructions of the organisation against a question
and prints the selected instructions with their scores.

When no instruction matches, the first instructions are returned instead
and the answer is marked as a fallback. Use --context to print the bounded
context block an answering step would receive.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopN, "top", "n", 0, "number of instructions to return (0 = configured default)")
	askCmd.Flags().BoolVar(&askHybrid, "hybrid", false, "merge keyword ranking with vector similarity")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the result as JSON")
	askCmd.Flags().BoolVarP(&askShowContext, "context", "c", false, "print the context block")
	rootCmd.AddCommand(askCmd)
}

type askOutput struct {
	Instructions []rankedOutput `json:"instructions"`
	Context      string         `json:"context"`
	SourceID     string         `json:"source_id,omitempty"`
	Fallback     bool           `json:"fallback"`
	Candidates   int            `json:"candidates"`
	Mode         string         `json:"mode"`
}

type rankedOutput struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Folder   string  `json:"folder,omitempty"`
	Severity string  `json:"severity"`
	Score    float64 `json:"score"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}
	org, err := requireOrg()
	if err != nil {
		return err
	}

	result, err := retrievalService.Ask(commandContext(cmd), domain.AskRequest{
		OrgID:    org,
		Question: args[0],
		TopN:     askTopN,
		Hybrid:   askHybrid,
	})
	if errors.Is(err, domain.ErrNoInstructions) {
		cmd.Printf("No published instructions for organisation %s.\n", org)
		return nil
	}
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return writeJSON(cmd, toAskOutput(result))
	}
	outputAsk(cmd, result)
	return nil
}

func toAskOutput(result *domain.AskResult) askOutput {
	out := askOutput{
		Instructions: toRankedOutput(result.Ranked),
		Context:      result.Context,
		Fallback:     result.Fallback,
		Candidates:   result.Candidates,
		Mode:         result.Mode,
	}
	if result.Source != nil {
		out.SourceID = result.Source.ID
	}
	return out
}

func toRankedOutput(ranked []domain.RankedInstruction) []rankedOutput {
	out := make([]rankedOutput, len(ranked))
	for i := range ranked {
		inst := &ranked[i].Instruction
		out[i] = rankedOutput{
			ID:       inst.ID,
			Title:    inst.Title,
			Folder:   inst.FolderName(),
			Severity: string(inst.Severity),
			Score:    ranked[i].Score,
		}
	}
	return out
}

func outputAsk(cmd *cobra.Command, result *domain.AskResult) {
	p := newPrinter(cmd)

	header := fmt.Sprintf("Instructions (%s, %d of %d candidates):", result.Mode, len(result.Ranked), result.Candidates)
	cmd.Println(p.title(header))
	if result.Fallback {
		cmd.Println(p.muted("No instruction matched the question; showing the first instructions."))
	}
	cmd.Println()

	printRanked(cmd, p, result.Ranked)

	if result.Source != nil {
		cmd.Printf("Source: %s (%s)\n", displayTitle(result.Source), result.Source.ID)
	}

	if askShowContext {
		cmd.Println()
		cmd.Println(p.title("Context:"))
		cmd.Println(result.Context)
	}
}

func printRanked(cmd *cobra.Command, p printer, ranked []domain.RankedInstruction) {
	for i := range ranked {
		inst := &ranked[i].Instruction
		cmd.Printf("  [%d] %s (%.2f) %s\n", i+1, displayTitle(inst), ranked[i].Score, p.severity(inst.Severity))
		cmd.Printf("      %s\n", p.muted(inst.ID))
		if text := preview(inst.Text(), 100); text != "" {
			cmd.Printf("      %s\n", text)
		}
		cmd.Println()
	}
}
