package ranking

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tetrivo/tetra/internal/core/domain"
)

// DefaultMaxContextChars bounds the context block in runes.
const DefaultMaxContextChars = 12000

const blockSeparator = "\n\n"

// FormatBlock renders one instruction as a context block.
func FormatBlock(inst *domain.Instruction) string {
	folder := ""
	if name := inst.FolderName(); name != "" {
		folder = "[" + name + "] "
	}
	return fmt.Sprintf("---\nDOKUMENT: %s%s\nALVORLIGHET: %s\nINNHOLD:\n%s\n---",
		folder, inst.Title, inst.Severity, inst.Text())
}

// BuildContext joins instruction blocks in order, skipping any block that
// would push the total past maxChars runes. If the first block alone is too large it
// is truncated on a rune boundary so the result is never empty for
// non-empty input. A non-positive maxChars uses DefaultMaxContextChars.
func BuildContext(instructions []domain.Instruction, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxContextChars
	}

	var b strings.Builder
	used := 0
	for i := range instructions {
		block := FormatBlock(&instructions[i])
		n := utf8.RuneCountInString(block)

		if i == 0 {
			if n > maxChars {
				return truncateRunes(block, maxChars)
			}
			b.WriteString(block)
			used = n
			continue
		}

		sep := utf8.RuneCountInString(blockSeparator)
		if used+sep+n > maxChars {
			continue
		}
		b.WriteString(blockSeparator)
		b.WriteString(block)
		used += sep + n
	}
	return b.String()
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
