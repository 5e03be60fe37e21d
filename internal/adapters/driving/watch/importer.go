package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
	"github.com/tetrivo/tetra/internal/logger"
)

// DefaultPattern matches every supported instruction file below the root.
const DefaultPattern = "**/*.{md,markdown,txt,html,htm}"

// ImportReport summarises a bulk import.
type ImportReport struct {
	Imported int
	Skipped  int
	Failed   int
	Errors   []error
}

// Import ingests every file below root that matches pattern.
// Unsupported files are skipped; other failures are collected and the
// import continues.
func Import(
	ctx context.Context,
	ingest driving.IngestService,
	root, pattern string,
	opts driving.IngestOptions,
) (ImportReport, error) {
	var report ImportReport

	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return report, fmt.Errorf("%w: bad pattern %q", domain.ErrInvalidInput, pattern)
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return report, fmt.Errorf("resolve root: %w", err)
	}

	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return report, fmt.Errorf("glob %s: %w", pattern, err)
	}
	logger.Debug("Import: %d files match %s in %s", len(matches), pattern, root)

	for _, rel := range matches {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		path := filepath.Join(root, filepath.FromSlash(rel))
		_, err := IngestFile(ctx, ingest, path, opts)
		switch {
		case err == nil:
			report.Imported++
		case errors.Is(err, domain.ErrUnsupportedType):
			report.Skipped++
		default:
			report.Failed++
			report.Errors = append(report.Errors, err)
		}
	}
	return report, nil
}

// IngestFile reads a file and ingests it. The URI is the absolute path.
func IngestFile(
	ctx context.Context,
	ingest driving.IngestService,
	path string,
	opts driving.IngestOptions,
) (*domain.Instruction, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, abs)
		}
		return nil, fmt.Errorf("read %s: %w", abs, err)
	}
	return ingest.Ingest(ctx, &domain.RawInstruction{URI: abs, Content: content}, opts)
}
