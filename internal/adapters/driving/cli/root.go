// Package cli provides the cobra command tree for the tetra binary.
package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tetrivo/tetra/internal/core/ports/driving"
	"github.com/tetrivo/tetra/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// errNoOrg is returned by commands that need an organisation and got none.
var errNoOrg = errors.New("organisation required: pass --org or set TETRA_ORG")

// Services holds the driving ports the commands run against.
type Services struct {
	Retrieval   driving.RetrievalService
	Text        driving.TextService
	Instruction driving.InstructionService
	Index       driving.IndexService
	Ingest      driving.IngestService
	Settings    driving.SettingsService
	Scheduler   driving.Scheduler

	// EvalServices builds write and query services over a throwaway store.
	EvalServices func() (driving.IndexService, driving.RetrievalService)

	// DefaultOrg is used when --org is not given.
	DefaultOrg string

	// ServerAddr is the listen address used when serve has no --addr.
	ServerAddr string
}

var (
	retrievalService   driving.RetrievalService
	textService        driving.TextService
	instructionService driving.InstructionService
	indexService       driving.IndexService
	ingestService      driving.IngestService
	settingsService    driving.SettingsService
	scheduler          driving.Scheduler
	evalServices       func() (driving.IndexService, driving.RetrievalService)
	defaultOrg         string
	serverAddr         string
)

var (
	verboseFlag bool
	orgFlag     string
)

var rootCmd = &cobra.Command{
	Use:   "tetra",
	Short: "HSE instruction retrieval",
	Long: `tetra stores the HSE instructions of an organisation and finds the
ones relevant to a question, building the context handed to an answering step.

Instructions are ranked by keyword overlap with the question. With an
embedding provider configured, hybrid retrieval adds vector similarity.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "print debug logging to stderr")
	rootCmd.PersistentFlags().StringVarP(&orgFlag, "org", "o", "", "organisation ID (default $TETRA_ORG)")
}

// SetServices wires the driving ports used by the commands.
func SetServices(s *Services) {
	retrievalService = s.Retrieval
	textService = s.Text
	instructionService = s.Instruction
	indexService = s.Index
	ingestService = s.Ingest
	settingsService = s.Settings
	scheduler = s.Scheduler
	evalServices = s.EvalServices
	defaultOrg = s.DefaultOrg
	serverAddr = s.ServerAddr
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// currentOrg returns the organisation from --org or the configured default.
func currentOrg() string {
	if org := strings.TrimSpace(orgFlag); org != "" {
		return org
	}
	return strings.TrimSpace(defaultOrg)
}

// requireOrg is currentOrg for commands that cannot run without one.
func requireOrg() (string, error) {
	org := currentOrg()
	if org == "" {
		return "", errNoOrg
	}
	return org, nil
}

// commandContext returns the command context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
