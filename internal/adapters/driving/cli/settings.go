package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tetrivo/tetra/internal/core/domain"
)

var errNoSettings = errors.New("settings service not configured")

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change ranking, chunking and embedding settings",
	RunE:  runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one numeric setting",
	Long:  "Change one numeric setting. Known keys:\n\n  " + strings.Join(settingKeys(), "\n  "),
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:       "reset [section]",
	Short:     "Restore defaults for a section, or for everything",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"ranking", "chunking", "keywords", "embedding"},
	RunE:      runSettingsReset,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Choose the embedding provider for hybrid retrieval",
	RunE:  runSettingsEmbedding,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsResetCmd, settingsEmbeddingCmd)
	rootCmd.AddCommand(settingsCmd)
}

const reindexHint = "Run 'tetra reindex --force' to apply it to stored instructions."

// settingRow is one labelled line of `settings show`.
type settingRow struct{ label, value string }

func printSection(w io.Writer, title string, rows ...settingRow) {
	fmt.Fprintf(w, "[%s]\n", title)
	for _, r := range rows {
		fmt.Fprintf(w, "  %s: %s\n", r.label, r.value)
	}
	fmt.Fprintln(w)
}

func embeddingRows(e domain.EmbeddingSettings) []settingRow {
	if e.Provider == "" {
		return []settingRow{{"Provider", "(none, keyword retrieval only)"}}
	}
	rows := []settingRow{{"Provider", e.Provider.Description()}, {"Model", e.Model}}
	if e.BaseURL != "" {
		rows = append(rows, settingRow{"Base URL", e.BaseURL})
	}
	if e.Provider.RequiresAPIKey() {
		key := "(not set)"
		if e.APIKey != "" {
			key = maskAPIKey(e.APIKey)
		}
		rows = append(rows, settingRow{"API Key", key})
	}
	if e.RequestsPerSecond > 0 {
		rows = append(rows, settingRow{"Rate limit", fmt.Sprintf("%g requests/s", e.RequestsPerSecond)})
	}
	status := "configured"
	if !e.IsConfigured() {
		status = "not configured"
	}
	return append(rows, settingRow{"Status", status})
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	s, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}

	w := cmd.OutOrStdout()
	r := s.Ranking
	printSection(w, "Ranking",
		settingRow{"Keyword weight", fmt.Sprintf("%g", r.KeywordWeight)},
		settingRow{"Title weight", fmt.Sprintf("%g", r.TitleWeight)},
		settingRow{"Content weight", fmt.Sprintf("%g (capped at %d per token)", r.ContentWeight, r.ContentCap)},
		settingRow{"Top N", fmt.Sprintf("%d (max %d)", r.DefaultTopN, r.MaxTopN)},
		settingRow{"Context budget", fmt.Sprintf("%d characters", r.MaxContextChars)},
	)
	printSection(w, "Chunking",
		settingRow{"Max chunk", fmt.Sprintf("%d characters", s.Chunking.MaxChunkChars)},
		settingRow{"Overlap", fmt.Sprintf("%d characters", s.Chunking.OverlapChars)},
	)
	printSection(w, "Keywords",
		settingRow{"Max keywords", strconv.Itoa(s.Keywords.MaxKeywords)},
		settingRow{"Min token length", strconv.Itoa(s.Keywords.MinTokenLength)},
	)
	printSection(w, "Embedding", embeddingRows(s.Embedding)...)

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		return nil
	}
	cmd.Println("Configuration is valid.")
	return nil
}

// settingSetters parses a value into the field named by its dot key.
var settingSetters = map[string]func(*domain.AppSettings, string) error{
	"ranking.keyword_weight":    setFloat(func(s *domain.AppSettings) *float64 { return &s.Ranking.KeywordWeight }),
	"ranking.title_weight":      setFloat(func(s *domain.AppSettings) *float64 { return &s.Ranking.TitleWeight }),
	"ranking.content_weight":    setFloat(func(s *domain.AppSettings) *float64 { return &s.Ranking.ContentWeight }),
	"ranking.content_cap":       setInt(func(s *domain.AppSettings) *int { return &s.Ranking.ContentCap }),
	"ranking.default_top_n":     setInt(func(s *domain.AppSettings) *int { return &s.Ranking.DefaultTopN }),
	"ranking.max_top_n":         setInt(func(s *domain.AppSettings) *int { return &s.Ranking.MaxTopN }),
	"ranking.max_context_chars": setInt(func(s *domain.AppSettings) *int { return &s.Ranking.MaxContextChars }),
	"chunking.max_chunk_chars":  setInt(func(s *domain.AppSettings) *int { return &s.Chunking.MaxChunkChars }),
	"chunking.overlap_chars":    setInt(func(s *domain.AppSettings) *int { return &s.Chunking.OverlapChars }),
	"keywords.max_keywords":     setInt(func(s *domain.AppSettings) *int { return &s.Keywords.MaxKeywords }),
	"keywords.min_token_length": setInt(func(s *domain.AppSettings) *int { return &s.Keywords.MinTokenLength }),
}

func setFloat(field func(*domain.AppSettings) *float64) func(*domain.AppSettings, string) error {
	return func(s *domain.AppSettings, raw string) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, raw)
		}
		*field(s) = f
		return nil
	}
}

func setInt(field func(*domain.AppSettings) *int) func(*domain.AppSettings, string) error {
	return func(s *domain.AppSettings, raw string) error {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%w: %q is not an integer", domain.ErrInvalidInput, raw)
		}
		*field(s) = n
		return nil
	}
}

func settingKeys() []string {
	return slices.Sorted(maps.Keys(settingSetters))
}

// applySetting changes one key and validates the whole result.
func applySetting(s *domain.AppSettings, key, value string) error {
	set, ok := settingSetters[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := set(s, value); err != nil {
		return err
	}
	return s.Validate()
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	key, value := args[0], args[1]

	s, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}
	if err := applySetting(s, key, value); err != nil {
		return err
	}
	if err := settingsService.Save(s); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	cmd.Printf("Set %s = %s\n", key, value)
	if !strings.HasPrefix(strings.ToLower(key), "ranking.") {
		cmd.Println(reindexHint)
	}
	return nil
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	var section string
	if len(args) > 0 {
		section = strings.ToLower(strings.TrimSpace(args[0]))
	}
	if err := settingsService.Reset(section); err != nil {
		return err
	}

	switch section {
	case "":
		cmd.Println("All settings restored to defaults.")
	default:
		cmd.Printf("Settings section [%s] restored to defaults.\n", section)
	}
	if section != "ranking" {
		cmd.Println(reindexHint)
	}
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	p := &prompter{cmd: cmd, in: bufio.NewReader(cmd.InOrStdin())}

	providers := domain.AllEmbeddingProviders()
	cmd.Println("Select Embedding Provider")
	for i, provider := range providers {
		cmd.Printf("  %d. %s\n", i+1, provider.Description())
	}
	provider := providers[parseChoice(p.ask("\nEnter choice", "1"), len(providers), 1)-1]

	model := p.ask("Enter model name", domain.DefaultEmbeddingModels()[provider])

	var apiKey string
	if provider.RequiresAPIKey() {
		if apiKey = p.secret("Enter API key"); apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetEmbeddingProvider(provider, model, apiKey); err != nil {
		return fmt.Errorf("saving embedding provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding provider unreachable: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n", provider.Description(), model)
	cmd.Println("Run 'tetra reindex --force' to embed stored instructions.")
	return nil
}

// prompter asks questions on the command's output and reads the answers
// line by line from its input.
type prompter struct {
	cmd *cobra.Command
	in  *bufio.Reader
}

// ask returns the trimmed answer, or def when it is empty.
func (p *prompter) ask(label, def string) string {
	if def != "" {
		p.cmd.Printf("%s [%s]: ", label, def)
	} else {
		p.cmd.Printf("%s: ", label)
	}
	if answer := p.line(); answer != "" {
		return answer
	}
	return def
}

// secret reads without echo when stdin is a terminal.
func (p *prompter) secret(label string) string {
	p.cmd.Printf("%s: ", label)
	defer p.cmd.Println()
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		if b, err := term.ReadPassword(fd); err == nil {
			return strings.TrimSpace(string(b))
		}
	}
	return p.line()
}

func (p *prompter) line() string {
	s, _ := p.in.ReadString('\n')
	return strings.TrimSpace(s)
}

// parseChoice reads a 1-based menu choice, falling back to def.
func parseChoice(input string, n, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || v < 1 || v > n {
		return def
	}
	return v
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
