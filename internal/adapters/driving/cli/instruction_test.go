package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetrivo/tetra/internal/adapters/driven/storage/memory"
	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
)

func listAll(t *testing.T, store *memory.InstructionStore) []domain.Instruction {
	t.Helper()
	all, err := store.ListInstructions(context.Background(), driven.InstructionFilter{})
	require.NoError(t, err)
	return all
}

func TestAddCmd_FromFlags(t *testing.T) {
	svc, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := runCLI(t, "add",
		"--title", "Bruk av hjelm",
		"--content", "Hjelm skal brukes på hele anlegget. Hjelm er påbudt.",
		"--folder", "Verneutstyr",
		"--severity", "critical")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved instruction")
	assert.Contains(t, out, "[Verneutstyr] Bruk av hjelm")
	assert.Contains(t, out, "Status: published, severity: critical")

	all := listAll(t, svc.store)
	require.Len(t, all, 1)
	assert.Equal(t, testOrg, all[0].OrgID)
	assert.Equal(t, "hjelm", all[0].Keywords.Terms[0])
}

func TestAddCmd_DraftStatus(t *testing.T) {
	svc, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := runCLI(t, "add", "--title", "Brannøvelse", "--content", "Øvelse to ganger i året.", "--status", "draft")
	require.NoError(t, err)

	all := listAll(t, svc.store)
	require.Len(t, all, 1)
	assert.Equal(t, domain.StatusDraft, all[0].Status)
}

func TestAddCmd_RejectsBadInput(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing title", []string{"add", "--content", "tekst"}, "pass a file or --title"},
		{"bad severity", []string{"add", "--title", "T", "--severity", "extreme"}, "unknown severity"},
		{"bad status", []string{"add", "--title", "T", "--status", "archived"}, "unknown status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer resetFlags(rootCmd)
			_, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAddCmd_FromFile(t *testing.T) {
	svc, cleanup := setupTestServices(t)
	defer cleanup()

	path := writeFile(t, t.TempDir(), "hjelm.md", "# Bruk av hjelm\n\nHjelm skal alltid brukes på byggeplassen.\n")

	_, err := runCLI(t, "add", path)
	require.NoError(t, err)
	_, err = runCLI(t, "add", path)
	require.NoError(t, err)

	all := listAll(t, svc.store)
	require.Len(t, all, 1, "re-adding a file updates its instruction")
	assert.Equal(t, "Bruk av hjelm", all[0].Title)
	assert.Equal(t, domain.StatusPublished, all[0].Status)
}

func TestImportCmd_SeedFile(t *testing.T) {
	svc, cleanup := setupTestServices(t)
	defer cleanup()

	path := writeFile(t, t.TempDir(), "seed.yaml", seedYAML)
	out, err := runCLI(t, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 instructions into acme, failed 0")

	inst, err := svc.store.GetInstruction(context.Background(), "draft-fire")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, inst.Status)

	helmet, err := svc.store.GetInstruction(context.Background(), "helmet")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, helmet.Status)
	assert.Equal(t, "Verneutstyr", helmet.FolderName())
}

func TestImportCmd_SeedFileReportsBadEntries(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	path := writeFile(t, t.TempDir(), "seed.yml", `instructions:
  - title: Gyldig
    content: Tekst.
  - title: ""
    content: Mangler tittel.
`)
	out, err := runCLI(t, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 instructions into acme, failed 1")
	assert.Contains(t, out, "instruction 2")
}

func TestImportCmd_Directory(t *testing.T) {
	svc, cleanup := setupTestServices(t)
	defer cleanup()

	dir := t.TempDir()
	writeFile(t, dir, "verneutstyr/hjelm.md", "# Bruk av hjelm\n\nHjelm skal alltid brukes.\n")
	writeFile(t, dir, "truck.txt", "Truck skal kun kjøres med truckførerbevis.\n")
	writeFile(t, dir, "bilde.png", "not an instruction")

	out, err := runCLI(t, "import", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2, skipped 0, failed 0")
	assert.Len(t, listAll(t, svc.store), 2)
}

func TestListCmd(t *testing.T) {
	svc, cleanup := setupTestServices(t)
	defer cleanup()

	svc.save(t, "Bruk av hjelm", "Hjelm skal brukes.", domain.StatusPublished)
	svc.save(t, "Brannøvelse", "", domain.StatusDraft)

	out, err := runCLI(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "[Verneutstyr] Bruk av hjelm")
	assert.Contains(t, out, "(file only)")
	assert.Contains(t, out, "Total: 2 instructions")

	resetFlags(rootCmd)
	out, err = runCLI(t, "list", "--status", "draft", "--json")
	require.NoError(t, err)

	var got []instructionOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Brannøvelse", got[0].Title)
	assert.Equal(t, "draft", got[0].Status)
}

func TestListCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := runCLI(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No instructions found.")
}

func TestShowCmd(t *testing.T) {
	svc, cleanup := setupTestServices(t)
	defer cleanup()

	inst := svc.save(t, "Bruk av hjelm", "Hjelm skal brukes på hele anlegget.", domain.StatusPublished)

	out, err := runCLI(t, "show", "--chunks", inst.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "ID:        "+inst.ID)
	assert.Contains(t, out, "Chunks:    1")
	assert.Contains(t, out, "DOKUMENT: [Verneutstyr] Bruk av hjelm")
	assert.Contains(t, out, "--- chunk 0 ---")
}

func TestShowCmd_NotFound(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := runCLI(t, "show", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteCmd(t *testing.T) {
	svc, cleanup := setupTestServices(t)
	defer cleanup()

	inst := svc.save(t, "Bruk av hjelm", "Hjelm skal brukes.", domain.StatusPublished)

	out, err := runCLI(t, "delete", inst.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted instruction "+inst.ID)
	assert.Empty(t, listAll(t, svc.store))

	_, err = runCLI(t, "delete", inst.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReindexCmd(t *testing.T) {
	svc, cleanup := setupTestServices(t)
	defer cleanup()

	svc.save(t, "Bruk av hjelm", "Hjelm skal brukes.", domain.StatusPublished)
	svc.save(t, "Truck", "Truck krever bevis.", domain.StatusPublished)

	out, err := runCLI(t, "reindex")
	require.NoError(t, err)
	assert.Contains(t, out, "Reindexed acme: checked 2, refreshed 0")

	out, err = runCLI(t, "reindex", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "checked 2, refreshed 2")
}

func TestSeedInstruction_Draft(t *testing.T) {
	entry := seedInstruction{Title: " Hjelm ", Content: "Tekst", Folder: "Utstyr", Severity: "CRITICAL"}
	d, err := entry.draft("acme")
	require.NoError(t, err)
	assert.Equal(t, "Hjelm", d.Title)
	assert.Equal(t, domain.SeverityCritical, d.Severity)
	assert.Equal(t, domain.StatusPublished, d.Status)
	require.NotNil(t, d.Content)
	assert.Equal(t, "Utstyr", d.Folder.Name)

	_, err = seedInstruction{Title: "T", Status: "archived"}.draft("acme")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIsSeedFile(t *testing.T) {
	assert.True(t, isSeedFile("seed.yaml"))
	assert.True(t, isSeedFile("SEED.YML"))
	assert.False(t, isSeedFile("instruks.md"))
	assert.False(t, isSeedFile("dir"))
}
