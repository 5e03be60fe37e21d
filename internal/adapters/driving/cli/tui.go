package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tetrivo/tetra/internal/adapters/driving/tui"
	"github.com/tetrivo/tetra/internal/adapters/driving/tui/keymap"
)

var (
	tuiTopN   int
	tuiHybrid bool
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: "Ask questions in an interactive terminal user interface, browse the\n" +
		"organisation's instructions and read them with keywords and chunk counts.\n\n" +
		"Controls:\n" + controlsHelp(keymap.Default()),
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().IntVarP(&tuiTopN, "top", "n", 0, "instructions per answer (0 = configured default)")
	tuiCmd.Flags().BoolVar(&tuiHybrid, "hybrid", false, "use hybrid retrieval")
	rootCmd.AddCommand(tuiCmd)
}

// controlsHelp lists every binding of km once, in section order.
func controlsHelp(km *keymap.KeyMap) string {
	var b strings.Builder
	seen := make(map[string]bool)
	for _, section := range km.Sections() {
		for _, binding := range section.Bindings {
			h := binding.Help()
			if seen[h.Key+h.Desc] {
				continue
			}
			seen[h.Key+h.Desc] = true
			fmt.Fprintf(&b, "  %-10s %s\n", h.Key, h.Desc)
		}
	}
	return b.String()
}

func newTUIApp(ctx context.Context) (*tui.App, error) {
	org, err := requireOrg()
	if err != nil {
		return nil, err
	}
	app, err := tui.NewApp(
		&tui.Ports{Retrieval: retrievalService, Instruction: instructionService},
		tui.Config{OrgID: org, TopN: tuiTopN, Hybrid: tuiHybrid},
	)
	if err != nil {
		return nil, fmt.Errorf("starting TUI: %w", err)
	}
	return app.WithContext(ctx), nil
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "TUI panic: %v\n%s\n", r, debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	app, err := newTUIApp(ctx)
	if err != nil {
		return err
	}

	stop := startScheduler(ctx)
	defer stop()

	return app.Run()
}
