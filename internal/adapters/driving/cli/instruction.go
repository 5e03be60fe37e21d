package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tetrivo/tetra/internal/adapters/driving/watch"
	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
	"github.com/tetrivo/tetra/internal/ranking"
)

var (
	addTitle    string
	addContent  string
	addFolder   string
	addSeverity string
	addStatus   string
	addFileURI  string

	importPattern string
	importStatus  string

	listStatus string
	listJSON   bool

	showChunks bool
	showJSON   bool

	reindexForce bool
)

var addCmd = &cobra.Command{
	Use:   "add [file]",
	Short: "Add or update an instruction",
	Long: `Adds an instruction from a Markdown, text or HTML file, or from
--title and --content. Keywords and chunks are generated on save.

Adding the same file again updates the instruction it created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

var importCmd = &cobra.Command{
	Use:   "import [path]",
	Short: "Import instructions from a directory or YAML seed file",
	Long: `Imports every matching file below a directory, or every entry of a
YAML seed file. Files that cannot be normalised are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List instructions",
	Long:  `Lists the instructions of the organisation, most recently updated first. Without --org every organisation is listed.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show [instruction-id]",
	Short: "Show an instruction",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [instruction-id]",
	Short: "Delete an instruction",
	Long:  `Removes an instruction together with its chunks and vectors.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Refresh stale keywords and missing chunks",
	Long: `Regenerates keywords and chunks for instructions whose keywords were
produced by an older extractor or that have no chunks. Use --force to
refresh every instruction.`,
	Args: cobra.NoArgs,
	RunE: runReindex,
}

func init() {
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "instruction title")
	addCmd.Flags().StringVarP(&addContent, "content", "c", "", "instruction text")
	addCmd.Flags().StringVar(&addFolder, "folder", "", "folder name")
	addCmd.Flags().StringVarP(&addSeverity, "severity", "s", "", "low, medium or critical (default medium)")
	addCmd.Flags().StringVar(&addStatus, "status", string(domain.StatusPublished), "draft or published")
	addCmd.Flags().StringVar(&addFileURI, "file-uri", "", "attachment reference")

	importCmd.Flags().StringVarP(&importPattern, "pattern", "p", watch.DefaultPattern, "glob selecting files below the directory")
	importCmd.Flags().StringVar(&importStatus, "status", string(domain.StatusPublished), "status for files that do not set one")

	listCmd.Flags().StringVar(&listStatus, "status", "", "only list draft or published instructions")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")

	showCmd.Flags().BoolVar(&showChunks, "chunks", false, "print the stored chunks")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output details as JSON")

	reindexCmd.Flags().BoolVarP(&reindexForce, "force", "f", false, "refresh every instruction")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(reindexCmd)
}

func parseStatus(s string) (domain.Status, error) {
	status := domain.Status(strings.ToLower(strings.TrimSpace(s)))
	if status == "" {
		return "", nil
	}
	if !status.IsValid() {
		return "", fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, s)
	}
	return status, nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	org, err := requireOrg()
	if err != nil {
		return err
	}
	status, err := parseStatus(addStatus)
	if err != nil {
		return err
	}

	var inst *domain.Instruction
	if len(args) == 1 {
		if ingestService == nil {
			return errors.New("ingest service not configured")
		}
		inst, err = watch.IngestFile(commandContext(cmd), ingestService, args[0], driving.IngestOptions{
			OrgID:  org,
			Status: status,
		})
	} else {
		inst, err = addFromFlags(cmd, org, status)
	}
	if err != nil {
		return fmt.Errorf("failed to add instruction: %w", err)
	}

	cmd.Printf("Saved instruction %s: %s\n", inst.ID, displayTitle(inst))
	cmd.Printf("  Status: %s, severity: %s, keywords: %s\n",
		inst.Status, inst.Severity, strings.Join(inst.Keywords.Terms, ", "))
	return nil
}

func addFromFlags(cmd *cobra.Command, org string, status domain.Status) (*domain.Instruction, error) {
	if indexService == nil {
		return nil, errors.New("index service not configured")
	}
	if strings.TrimSpace(addTitle) == "" {
		return nil, fmt.Errorf("%w: pass a file or --title", domain.ErrInvalidInput)
	}
	severity, err := domain.ParseSeverity(addSeverity)
	if err != nil {
		return nil, err
	}

	draft := domain.InstructionDraft{
		OrgID:    org,
		Title:    addTitle,
		Severity: severity,
		Status:   status,
		FileURI:  addFileURI,
	}
	if strings.TrimSpace(addContent) != "" {
		content := addContent
		draft.Content = &content
	}
	if addFolder != "" {
		draft.Folder = &domain.Folder{Name: addFolder}
	}
	return indexService.Save(commandContext(cmd), draft)
}

func runImport(cmd *cobra.Command, args []string) error {
	org, err := requireOrg()
	if err != nil {
		return err
	}
	if isSeedFile(args[0]) {
		return importSeed(cmd, args[0], org)
	}

	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	status, err := parseStatus(importStatus)
	if err != nil {
		return err
	}

	report, err := watch.Import(commandContext(cmd), ingestService, args[0], importPattern, driving.IngestOptions{
		OrgID:  org,
		Status: status,
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	for _, e := range report.Errors {
		cmd.PrintErrf("  error: %v\n", e)
	}
	cmd.Printf("Imported %d, skipped %d, failed %d\n", report.Imported, report.Skipped, report.Failed)
	return nil
}

// importSeed saves every entry of a seed file. The file's org_id wins
// over --org.
func importSeed(cmd *cobra.Command, path, org string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	seed, err := loadSeed(path)
	if err != nil {
		return err
	}
	if seed.OrgID != "" {
		org = seed.OrgID
	}

	ctx := commandContext(cmd)
	var saved, failed int
	for i, entry := range seed.Instructions {
		draft, err := entry.draft(org)
		if err == nil {
			_, err = indexService.Save(ctx, draft)
		}
		if err != nil {
			failed++
			cmd.PrintErrf("  error: instruction %d (%s): %v\n", i+1, entry.Title, err)
			continue
		}
		saved++
	}

	cmd.Printf("Imported %d instructions into %s, failed %d\n", saved, org, failed)
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	if instructionService == nil {
		return errors.New("instruction service not configured")
	}
	status, err := parseStatus(listStatus)
	if err != nil {
		return err
	}

	org := currentOrg()
	instructions, err := instructionService.List(commandContext(cmd), org, driving.ListOptions{Status: status})
	if err != nil {
		return fmt.Errorf("failed to list instructions: %w", err)
	}

	if listJSON {
		out := make([]instructionOutput, len(instructions))
		for i := range instructions {
			out[i] = toInstructionOutput(&instructions[i])
		}
		return writeJSON(cmd, out)
	}

	if len(instructions) == 0 {
		cmd.Println("No instructions found.")
		return nil
	}

	p := newPrinter(cmd)
	for i := range instructions {
		inst := &instructions[i]
		cmd.Printf("  %s\n", p.title(displayTitle(inst)))
		line := fmt.Sprintf("    %s  %s  %s", inst.ID, inst.Status, p.severity(inst.Severity))
		if org == "" {
			line += "  org " + inst.OrgID
		}
		if !inst.HasText() {
			line += "  (file only)"
		}
		cmd.Println(line)
	}
	cmd.Println()
	cmd.Printf("Total: %d instructions\n", len(instructions))
	return nil
}

type instructionOutput struct {
	ID       string   `json:"id"`
	OrgID    string   `json:"org_id"`
	Title    string   `json:"title"`
	Folder   string   `json:"folder,omitempty"`
	Severity string   `json:"severity"`
	Status   string   `json:"status"`
	Keywords []string `json:"keywords"`
	FileURI  string   `json:"file_uri,omitempty"`
	Updated  string   `json:"updated_at"`
}

func toInstructionOutput(inst *domain.Instruction) instructionOutput {
	keywords := inst.Keywords.Terms
	if keywords == nil {
		keywords = []string{}
	}
	return instructionOutput{
		ID:       inst.ID,
		OrgID:    inst.OrgID,
		Title:    inst.Title,
		Folder:   inst.FolderName(),
		Severity: string(inst.Severity),
		Status:   string(inst.Status),
		Keywords: keywords,
		FileURI:  inst.FileURI,
		Updated:  inst.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	if instructionService == nil {
		return errors.New("instruction service not configured")
	}

	ctx := commandContext(cmd)
	id := args[0]

	details, err := instructionService.GetDetails(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get instruction: %w", err)
	}
	if showJSON {
		return writeJSON(cmd, details)
	}

	inst, err := instructionService.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get instruction: %w", err)
	}

	p := newPrinter(cmd)
	cmd.Println(p.title(displayTitle(inst)))
	cmd.Printf("  ID:        %s\n", details.ID)
	cmd.Printf("  Org:       %s\n", details.OrgID)
	cmd.Printf("  Severity:  %s\n", p.severity(details.Severity))
	cmd.Printf("  Status:    %s\n", details.Status)
	keywords := strings.Join(details.Keywords, ", ")
	if details.KeywordsStale {
		keywords += " (stale, run reindex)"
	}
	cmd.Printf("  Keywords:  %s\n", keywords)
	cmd.Printf("  Chunks:    %d\n", details.ChunkCount)
	cmd.Printf("  Length:    %d characters\n", details.ContentLength)
	if details.FileURI != "" {
		cmd.Printf("  File:      %s\n", details.FileURI)
	}
	cmd.Printf("  Updated:   %s\n", details.UpdatedAt.Format("2006-01-02 15:04"))
	cmd.Println()

	if inst.HasText() {
		cmd.Println(ranking.FormatBlock(inst))
	} else {
		cmd.Println(p.muted("(file only, no text)"))
	}

	if showChunks {
		chunks, err := instructionService.Chunks(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get chunks: %w", err)
		}
		cmd.Println()
		for i := range chunks {
			cmd.Println(p.title(fmt.Sprintf("--- chunk %d ---", chunks[i].Index)))
			cmd.Println(chunks[i].Content)
		}
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	if err := indexService.Delete(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to delete instruction: %w", err)
	}
	cmd.Printf("Deleted instruction %s\n", args[0])
	return nil
}

func runReindex(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	org := currentOrg()
	report, err := indexService.Reindex(commandContext(cmd), domain.ReindexOptions{
		OrgID: org,
		Force: reindexForce,
	})
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	scope := "all organisations"
	if org != "" {
		scope = org
	}
	cmd.Printf("Reindexed %s: checked %d, refreshed %d, skipped %d, failed %d\n",
		scope, report.Checked, report.Refreshed, report.Skipped, report.Failed)
	return nil
}
