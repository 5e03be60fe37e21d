package textanalysis

// StopWords is an immutable set of function words ignored by the analyzer.
type StopWords struct {
	words map[string]struct{}
}

// NewStopWords builds a stop-word set. Words are matched after normalisation,
// so they are stored lower-cased.
func NewStopWords(words ...string) StopWords {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		for _, tok := range Normalize(w) {
			set[tok] = struct{}{}
		}
	}
	return StopWords{words: set}
}

// Contains reports whether token is a stop word.
func (s StopWords) Contains(token string) bool {
	_, ok := s.words[token]
	return ok
}

// Len returns the number of distinct stop words.
func (s StopWords) Len() int {
	return len(s.words)
}

// norwegianStopWords covers articles, pronouns, prepositions, conjunctions
// and auxiliaries common in Norwegian bokmål instructions.
var norwegianStopWords = []string{
	"og", "i", "å", "det", "som", "på", "er", "av", "til", "for", "med",
	"den", "at", "en", "et", "de", "skal", "har", "kan", "var", "om",
	"ikke", "bare", "være", "eller", "man", "fra", "ved", "da", "når",
	"må", "ble", "inn", "ut", "over", "etter", "også", "hvis", "alle",
	"dette", "denne", "disse", "hva", "noen", "noe", "hvilke", "hvor",
	"sin", "sitt", "sine", "jeg", "du", "vi", "meg", "deg", "seg",
	"hvordan", "hvem", "hvorfor", "gjør", "får", "blir", "vår", "våre",
	"dere", "han", "hun", "mot", "under", "mellom",
}

// NorwegianStopWords returns the default Norwegian stop-word set.
// Each call returns a fresh value.
func NorwegianStopWords() StopWords {
	return NewStopWords(norwegianStopWords...)
}
