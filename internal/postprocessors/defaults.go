package postprocessors

import (
	"github.com/tetrivo/tetra/internal/adapters/driven/config"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
	"github.com/tetrivo/tetra/internal/postprocessors/chunker"
	"github.com/tetrivo/tetra/internal/postprocessors/keywords"
	"github.com/tetrivo/tetra/internal/textanalysis"
)

// RegisterDefaults adds the keywords and chunker processors to r.
func RegisterDefaults(r *Registry) {
	r.Register(keywords.Name, buildKeywords)
	r.Register(chunker.Name, buildChunker)
}

// setting reports the value of key and whether it was configured.
func setting(cfg config.Values, key string) (int, bool) {
	if _, ok := cfg[key]; !ok {
		return 0, false
	}
	return cfg.Int(key), true
}

// buildKeywords reads max_keywords and min_token_length.
func buildKeywords(cfg config.Values) (driven.PostProcessor, error) {
	var analyzer []textanalysis.Option
	var opts []keywords.Option
	if n, ok := setting(cfg, "min_token_length"); ok {
		analyzer = append(analyzer, textanalysis.WithMinTokenLength(n))
	}
	if n, ok := setting(cfg, "max_keywords"); ok {
		opts = append(opts, keywords.WithMaxKeywords(n))
	}
	opts = append(opts, keywords.WithAnalyzer(textanalysis.NewAnalyzer(analyzer...)))
	return keywords.New(opts...), nil
}

// buildChunker reads max_chunk_chars and overlap_chars. A non-positive
// chunk size keeps the default.
func buildChunker(cfg config.Values) (driven.PostProcessor, error) {
	var opts []chunker.Option
	if n := cfg.Int("max_chunk_chars"); n > 0 {
		opts = append(opts, chunker.WithMaxChunkChars(n))
	}
	if n, ok := setting(cfg, "overlap_chars"); ok {
		opts = append(opts, chunker.WithOverlapChars(n))
	}
	return chunker.New(opts...), nil
}
