package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/tetrivo/tetra/internal/adapters/driven/storage/memory"
	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
	"github.com/tetrivo/tetra/internal/core/services"
	"github.com/tetrivo/tetra/internal/normalisers"
	"github.com/tetrivo/tetra/internal/postprocessors"
)

const testOrg = "acme"

// testServices exposes the services wired by setupTestServices.
type testServices struct {
	store  *memory.InstructionStore
	index  *services.IndexService
	config *memory.ConfigStore
}

func newPipeline(t *testing.T) *postprocessors.Pipeline {
	t.Helper()
	r := postprocessors.NewDefaultRegistry()
	p, err := r.BuildPipeline(domain.DefaultPipelineConfig())
	require.NoError(t, err)
	return p
}

// setupTestServices wires real services over in-memory stores and
// returns a cleanup that restores the previous wiring and flag values.
func setupTestServices(t *testing.T) (*testServices, func()) {
	t.Helper()

	settings := domain.DefaultAppSettings()
	store := memory.NewInstructionStore()
	index := services.NewIndexService(store, newPipeline(t), nil, nil)
	config := memory.NewConfigStore()

	old := Services{
		Retrieval:    retrievalService,
		Text:         textService,
		Instruction:  instructionService,
		Index:        indexService,
		Ingest:       ingestService,
		Settings:     settingsService,
		Scheduler:    scheduler,
		EvalServices: evalServices,
		DefaultOrg:   defaultOrg,
		ServerAddr:   serverAddr,
	}

	SetServices(&Services{
		Retrieval:   services.NewRetrievalService(store, nil, settings.Ranking, nil, nil),
		Text:        services.NewTextService(settings),
		Instruction: services.NewInstructionService(store),
		Index:       index,
		Ingest:      services.NewIngestService(normalisers.NewDefaultRegistry(), index),
		Settings:    services.NewSettingsService(config, nil),
		EvalServices: func() (driving.IndexService, driving.RetrievalService) {
			s := memory.NewInstructionStore()
			return services.NewIndexService(s, newPipeline(t), nil, nil),
				services.NewRetrievalService(s, nil, settings.Ranking, nil, nil)
		},
		DefaultOrg: testOrg,
	})

	return &testServices{store: store, index: index, config: config}, func() {
		SetServices(&old)
		resetFlags(rootCmd)
	}
}

// resetFlags restores every flag of the tree to its default, since the
// command tree is shared between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCLI executes the root command with args and returns the combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLIWithInput(t, "", args...)
}

// runCLIWithInput is runCLI with stdin set to input.
func runCLIWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// save stores an instruction directly through the index service.
func (s *testServices) save(t *testing.T, title, content string, status domain.Status) *domain.Instruction {
	t.Helper()
	draft := domain.InstructionDraft{
		OrgID:    testOrg,
		Title:    title,
		Severity: domain.SeverityCritical,
		Status:   status,
		Folder:   &domain.Folder{Name: "Verneutstyr"},
	}
	if content != "" {
		draft.Content = &content
	}
	inst, err := s.index.Save(context.Background(), draft)
	require.NoError(t, err)
	return inst
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const seedYAML = `org_id: acme
instructions:
  - id: helmet
    title: Bruk av hjelm
    folder: Verneutstyr
    severity: critical
    content: Hjelm skal alltid brukes på byggeplassen.
  - id: forklift
    title: Kjøring av truck
    severity: medium
    content: Truck skal kun kjøres av personell med gyldig truckførerbevis.
  - id: draft-fire
    title: Brannøvelse
    status: draft
    content: Brannøvelse holdes to ganger i året.
`
