package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tetrivo/tetra/internal/core/ports/driving"
)

var (
	rankFile string
	rankTopN int
	rankJSON bool

	keywordsMax      int
	keywordsFromFile bool
	keywordsJSON     bool

	chunkMax      int
	chunkOverlap  int
	chunkTitle    string
	chunkFromFile bool
	chunkJSON     bool
)

var rankCmd = &cobra.Command{
	Use:   "rank [question]",
	Short: "Rank instructions from a YAML file",
	Long: `Ranks the instructions of a seed file against a question without
touching the store. Instructions that share no token with the question
are left out.`,
	Args: cobra.ExactArgs(1),
	RunE: runRank,
}

var keywordsCmd = &cobra.Command{
	Use:   "keywords [text]",
	Short: "Extract keywords from text",
	Long: `Prints the most frequent qualifying tokens of the text, most frequent
first. Use --file to read the text from a file, or "-" for stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runKeywords,
}

var chunkCmd = &cobra.Command{
	Use:   "chunk [text]",
	Short: "Split text into chunks",
	Long: `Splits text into overlapping chunks, preferring paragraph, then
sentence, then word boundaries. With --title the embedding inputs are
printed as well. Use --file to read the text from a file, or "-" for stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runChunk,
}

func init() {
	rankCmd.Flags().StringVarP(&rankFile, "file", "f", "", "YAML file with the instructions to rank (required)")
	rankCmd.Flags().IntVarP(&rankTopN, "top", "n", 5, "maximum number of instructions")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "output as JSON")
	_ = rankCmd.MarkFlagRequired("file")

	keywordsCmd.Flags().IntVarP(&keywordsMax, "max", "m", 0, "maximum keywords (0 = configured default)")
	keywordsCmd.Flags().BoolVarP(&keywordsFromFile, "file", "f", false, "treat the argument as a file path")
	keywordsCmd.Flags().BoolVar(&keywordsJSON, "json", false, "output as JSON")

	chunkCmd.Flags().IntVar(&chunkMax, "max", 0, "maximum runes per chunk (0 = configured default)")
	chunkCmd.Flags().IntVar(&chunkOverlap, "overlap", 0, "runes repeated between chunks (default: configured value)")
	chunkCmd.Flags().StringVarP(&chunkTitle, "title", "t", "", "instruction title used for embedding inputs")
	chunkCmd.Flags().BoolVarP(&chunkFromFile, "file", "f", false, "treat the argument as a file path")
	chunkCmd.Flags().BoolVar(&chunkJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(keywordsCmd)
	rootCmd.AddCommand(chunkCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	if textService == nil {
		return errors.New("text service not configured")
	}

	seed, err := loadSeed(rankFile)
	if err != nil {
		return err
	}
	instructions, err := seed.instructions()
	if err != nil {
		return err
	}

	ranked := textService.Rank(args[0], instructions, rankTopN)
	if rankJSON {
		return writeJSON(cmd, toRankedOutput(ranked))
	}

	if len(ranked) == 0 {
		cmd.Println("No instruction matches the question.")
		return nil
	}
	p := newPrinter(cmd)
	cmd.Println(p.title(fmt.Sprintf("Ranked %d of %d instructions:", len(ranked), len(instructions))))
	cmd.Println()
	printRanked(cmd, p, ranked)
	return nil
}

func runKeywords(cmd *cobra.Command, args []string) error {
	if textService == nil {
		return errors.New("text service not configured")
	}

	text, err := readInput(cmd, args[0], keywordsFromFile)
	if err != nil {
		return err
	}

	keywords := textService.ExtractKeywords(text, keywordsMax)
	if keywords == nil {
		keywords = []string{}
	}
	if keywordsJSON {
		return writeJSON(cmd, keywords)
	}

	if len(keywords) == 0 {
		cmd.Println("No keywords found.")
		return nil
	}
	for _, kw := range keywords {
		cmd.Println(kw)
	}
	return nil
}

type chunkOutput struct {
	Index   int    `json:"index"`
	Content string `json:"content"`
}

type chunksOutput struct {
	Chunks          []chunkOutput `json:"chunks"`
	EmbeddingInputs []string      `json:"embedding_inputs,omitempty"`
}

func runChunk(cmd *cobra.Command, args []string) error {
	if textService == nil {
		return errors.New("text service not configured")
	}

	text, err := readInput(cmd, args[0], chunkFromFile)
	if err != nil {
		return err
	}

	opts := driving.ChunkOptions{MaxChunkChars: chunkMax}
	if cmd.Flags().Changed("overlap") {
		opts.OverlapChars = &chunkOverlap
	}
	chunks := textService.Chunk(text, opts)

	out := chunksOutput{Chunks: make([]chunkOutput, len(chunks))}
	for i := range chunks {
		out.Chunks[i] = chunkOutput{Index: chunks[i].Index, Content: chunks[i].Content}
	}
	if chunkTitle != "" {
		out.EmbeddingInputs = textService.PrepareForEmbedding(chunkTitle, chunks)
	}

	if chunkJSON {
		return writeJSON(cmd, out)
	}

	if len(chunks) == 0 {
		cmd.Println("No chunks (empty text).")
		return nil
	}
	p := newPrinter(cmd)
	for _, c := range out.Chunks {
		cmd.Println(p.title(fmt.Sprintf("--- chunk %d (%d runes) ---", c.Index, len([]rune(c.Content)))))
		cmd.Println(c.Content)
		cmd.Println()
	}
	if len(out.EmbeddingInputs) > 0 {
		cmd.Printf("%d embedding inputs prefixed with %q\n", len(out.EmbeddingInputs), chunkTitle)
	}
	cmd.Printf("Total: %d chunks\n", len(chunks))
	return nil
}
