package normalize

import "strings"

// irregularLemmas covers common irregular forms a pure suffix strategy
// gets wrong. It is intentionally small: the lemmatiser is off by
// default and scoped to the common cases, not a full WordNet morphy
// port.
var irregularLemmas = map[string]string{
	"children": "child",
	"people":   "person",
	"men":      "man",
	"women":    "woman",
	"feet":     "foot",
	"teeth":    "tooth",
	"mice":     "mouse",
	"geese":    "goose",
	"was":      "be",
	"were":     "be",
	"is":       "be",
	"are":      "be",
	"been":     "be",
	"has":      "have",
	"had":      "have",
	"did":      "do",
	"does":     "do",
}

// lemmatize reduces word to a dictionary-free approximation of its
// WordNet lemma: irregular forms are looked up directly, otherwise a
// small set of suffix rules peels off the most common
// inflectional endings in order from most to least specific.
func lemmatize(word string) string {
	if lemma, ok := irregularLemmas[word]; ok {
		return lemma
	}

	switch {
	case strings.HasSuffix(word, "ies") && len(word) > 4:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(word, "ves") && len(word) > 4:
		return word[:len(word)-3] + "f"
	case strings.HasSuffix(word, "ses") && len(word) > 4:
		return word[:len(word)-2]
	case strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") && len(word) > 3:
		return word[:len(word)-1]
	case strings.HasSuffix(word, "ing") && len(word) > 5:
		return word[:len(word)-3]
	case strings.HasSuffix(word, "ed") && len(word) > 4:
		return word[:len(word)-2]
	default:
		return word
	}
}
