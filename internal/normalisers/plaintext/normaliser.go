// Package plaintext normalises .txt instructions. It is the fallback for
// any text the other normalisers do not claim.
package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
	"github.com/tetrivo/tetra/internal/normalisers/meta"
)

// priority is below every format-specific normaliser.
const priority = 5

var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser passes text through with line endings unified.
type Normaliser struct{}

func New() *Normaliser { return &Normaliser{} }

func (*Normaliser) SupportedMIMETypes() []string { return []string{"text/plain"} }

func (*Normaliser) Priority() int { return priority }

// Normalise drops a byte order mark and converts CRLF and CR line endings.
// Input that is not valid UTF-8 is read as Windows-1252, the usual
// encoding of text exported from older Norwegian office tools. The title
// comes from metadata or the file name.
func (*Normaliser) Normalise(_ context.Context, raw *domain.RawInstruction) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text, err := decode(raw.Content)
	if err != nil {
		return nil, err
	}
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(text)

	draft, err := meta.Draft(raw, "", text)
	if err != nil {
		return nil, err
	}
	return &driven.NormaliseResult{Draft: draft}, nil
}

func decode(b []byte) (string, error) {
	if utf8.Valid(b) {
		return string(b), nil
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
