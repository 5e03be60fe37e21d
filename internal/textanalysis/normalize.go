package textanalysis

import (
	"strings"
	"unicode"
)

// Normalize lower-cases text and splits it into tokens.
// Any rune that is not a letter, a digit or whitespace acts as a separator,
// so accented letters such as æ, ø and å survive intact.
// Empty input yields a nil slice.
func Normalize(text string) []string {
	if text == "" {
		return nil
	}
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return r
		default:
			return ' '
		}
	}, text)
	return strings.Fields(cleaned)
}
