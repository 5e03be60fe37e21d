package chunker

import (
	"regexp"
	"unicode/utf8"
)

var (
	paragraphBoundary = regexp.MustCompile(`\n[ \t]*\n\s*`)
	sentenceBoundary  = regexp.MustCompile(`[.!?]+\s+`)
	wordBoundary      = regexp.MustCompile(`\s+`)
)

type level int

const (
	paragraphLevel level = iota
	sentenceLevel
	wordLevel
)

// boundaries maps each level to the pattern that cuts text at it.
var boundaries = [...]*regexp.Regexp{
	paragraphLevel: paragraphBoundary,
	sentenceLevel:  sentenceBoundary,
	wordLevel:      wordBoundary,
}

// unit is a piece of text packed as a whole unless it must be split to
// make room for overlap.
// It keeps its trailing separator so units concatenate back to the input.
type unit struct {
	text  string
	runes int
	level level
}

// splitUnits breaks text into paragraphs, then oversized paragraphs into
// sentences, then oversized sentences into words.
func splitUnits(text string, maxRunes int) []unit {
	var out []unit
	for _, p := range splitAfter(text, paragraphLevel) {
		if p.runes <= maxRunes {
			out = append(out, p)
			continue
		}
		for _, s := range splitAfter(p.text, sentenceLevel) {
			if s.runes <= maxRunes {
				out = append(out, s)
				continue
			}
			out = append(out, splitAfter(s.text, wordLevel)...)
		}
	}
	return out
}

// finer splits u at the next level down that actually cuts it.
// Nil means u is a single word.
func (u unit) finer() []unit {
	for l := u.level + 1; l <= wordLevel; l++ {
		if parts := splitAfter(u.text, l); len(parts) > 1 {
			return parts
		}
	}
	return nil
}

// splitAfter cuts s after every boundary of level l.
func splitAfter(s string, l level) []unit {
	var out []unit
	last := 0
	for _, loc := range boundaries[l].FindAllStringIndex(s, -1) {
		out = append(out, newUnit(s[last:loc[1]], l))
		last = loc[1]
	}
	if last < len(s) {
		out = append(out, newUnit(s[last:], l))
	}
	return out
}

func newUnit(s string, l level) unit {
	return unit{text: s, runes: utf8.RuneCountInString(s), level: l}
}
