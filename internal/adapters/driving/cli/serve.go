package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tetrivo/tetra/internal/adapters/driving/httpapi"
	"github.com/tetrivo/tetra/internal/adapters/driving/watch"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
	"github.com/tetrivo/tetra/internal/logger"
)

var (
	serveAddr        string
	serveNoScheduler bool
	serveWatchDir    string
	serveMCP         bool

	watchPattern  string
	watchDebounce time.Duration
	watchStatus   string
	watchNoScan   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the JSON API for asking, ranking, keyword extraction and
chunking. The background re-index runs alongside unless --no-scheduler is
given. With --watch a directory of instruction files is kept indexed too,
and with --mcp the MCP server is mounted at /mcp.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Keep a directory of instruction files indexed",
	Long: `Imports every matching file below the directory, then re-indexes
files as they change and removes instructions whose file is deleted.
Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default "+httpapi.DefaultAddr+")")
	serveCmd.Flags().BoolVar(&serveNoScheduler, "no-scheduler", false, "do not run the background re-index")
	serveCmd.Flags().StringVar(&serveWatchDir, "watch", "", "also watch this directory of instruction files")
	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "also serve MCP over HTTP at /mcp")

	watchCmd.Flags().StringVarP(&watchPattern, "pattern", "p", watch.DefaultPattern, "glob selecting files below the directory")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before changes are applied")
	watchCmd.Flags().StringVar(&watchStatus, "status", "published", "status for files that do not set one")
	watchCmd.Flags().BoolVar(&watchNoScan, "no-scan", false, "skip the initial import")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ports := &httpapi.Ports{
		Retrieval:   retrievalService,
		Text:        textService,
		Instruction: instructionService,
		Index:       indexService,
	}
	addr := serveAddr
	if addr == "" {
		addr = serverAddr
	}
	config := httpapi.Config{Addr: addr}
	if serveMCP {
		m, err := newMCPServer()
		if err != nil {
			return err
		}
		config.MCP = m.Handler()
	}
	server, err := httpapi.NewServer(ports, config)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	if !serveNoScheduler {
		stop := startScheduler(ctx)
		defer stop()
	}

	if serveWatchDir != "" {
		w, err := newWatcher(serveWatchDir)
		if err != nil {
			return err
		}
		go func() {
			if err := w.Run(ctx); err != nil {
				logger.Error("watcher stopped: %v", err)
			}
		}()
	}

	cmd.Printf("HTTP API listening on http://%s\n", server.Addr())
	return server.Run(ctx)
}

// startScheduler runs the scheduler in the background and returns a
// function that stops it.
func startScheduler(ctx context.Context) func() {
	if scheduler == nil {
		return func() {}
	}
	go func() {
		if err := scheduler.Start(ctx); err != nil {
			logger.Error("scheduler stopped: %v", err)
		}
	}()
	return func() {
		if err := scheduler.Stop(); err != nil {
			logger.Error("scheduler stop error: %v", err)
		}
	}
}

func newWatcher(dir string) (*watch.Watcher, error) {
	if ingestService == nil {
		return nil, errors.New("ingest service not configured")
	}
	org, err := requireOrg()
	if err != nil {
		return nil, err
	}
	status, err := parseStatus(watchStatus)
	if err != nil {
		return nil, err
	}
	return watch.New(ingestService, watch.Config{
		Root:     dir,
		Pattern:  watchPattern,
		Debounce: watchDebounce,
		Defaults: driving.IngestOptions{OrgID: org, Status: status},
	})
}

func runWatch(cmd *cobra.Command, args []string) error {
	w, err := newWatcher(args[0])
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if !watchNoScan {
		report, err := w.Scan(ctx)
		if err != nil {
			return fmt.Errorf("initial import failed: %w", err)
		}
		cmd.Printf("Imported %d, skipped %d, failed %d\n", report.Imported, report.Skipped, report.Failed)
	}

	cmd.Printf("Watching %s (press Ctrl+C to stop)\n", w.Root())
	return w.Run(ctx)
}
