// Package normalize implements the text normalisation pipeline shared by
// document indexing and query preprocessing: tag stripping, word
// splitting, case folding, stop-word removal, stemming, lemmatisation
// and a minimum-length filter. Each stage is independently toggleable
// and stages run in the fixed order listed above.
package normalize

import (
	"regexp"

	"github.com/blevesearch/go-porterstemmer"
	"golang.org/x/text/cases"
)

// Config controls which normalisation stages run and their parameters.
// The zero value disables every stage; construct with DefaultConfig
// for the standard pipeline and override individual fields.
type Config struct {
	CaseFolding             bool `yaml:"case_folding"`
	RemoveStopWords         bool `yaml:"remove_stop_words"`
	Stemmer                 bool `yaml:"stemmer"`
	Lemmatiser              bool `yaml:"lemmatiser"`
	MinLength               int  `yaml:"min_length"`
	StripHTMLTags           bool `yaml:"strip_html_tags"`
	StripHTMLEntities       bool `yaml:"strip_html_entities"`
	StripSquareBracketTags  bool `yaml:"strip_square_bracket_tags"`
}

// DefaultConfig returns the spec-mandated defaults: every boolean stage
// enabled except the lemmatiser, and a minimum surviving term length
// of two characters.
func DefaultConfig() Config {
	return Config{
		CaseFolding:            true,
		RemoveStopWords:        true,
		Stemmer:                true,
		Lemmatiser:             false,
		MinLength:              2,
		StripHTMLTags:          true,
		StripHTMLEntities:      true,
		StripSquareBracketTags: true,
	}
}

var (
	htmlTagPattern           = regexp.MustCompile(`<.*?>`)
	htmlEntityPattern        = regexp.MustCompile(`&[a-zA-Z][-.a-zA-Z0-9]*[^a-zA-Z0-9]`)
	squareBracketTagPattern  = regexp.MustCompile(`\[.*?\]`)
	splitWordsPattern        = regexp.MustCompile(`\s|\.|:|\?|\(|\)|\[|\]|\{|\}|<|>|'|!|"|-|,|;|\$|\*|%|#`)
	caseFolder               = cases.Fold()
)

// Normalizer runs the configured pipeline over raw text regions,
// producing an ordered sequence of terms.
type Normalizer struct {
	cfg Config
}

// New creates a Normalizer for the given configuration.
func New(cfg Config) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// Normalize runs the full pipeline over text and returns the surviving
// terms in their original relative order.
func (n *Normalizer) Normalize(text string) []string {
	words := n.splitWords(text)

	if n.cfg.CaseFolding {
		for i, w := range words {
			words[i] = caseFolder.String(w)
		}
	}

	if n.cfg.RemoveStopWords {
		words = filterInPlace(words, func(w string) bool { return !isStopWord(w) })
	}

	if n.cfg.Stemmer {
		for i, w := range words {
			words[i] = porterstemmer.StemString(w)
		}
	}

	if n.cfg.Lemmatiser {
		for i, w := range words {
			words[i] = lemmatize(w)
		}
	}

	if n.cfg.MinLength > 0 {
		minLen := n.cfg.MinLength
		words = filterInPlace(words, func(w string) bool { return len(w) >= minLen })
	}

	return words
}

// NormalizeOne runs the pipeline over a single already-split word,
// preserving stage order. It is used for idempotency checks and for
// normalising already-tokenised query terms.
func (n *Normalizer) NormalizeOne(word string) string {
	out := n.Normalize(word)
	if len(out) == 0 {
		return ""
	}
	return out[0]
}

// splitWords strips configured tag classes, then splits on the fixed
// separator character class, dropping empty tokens.
func (n *Normalizer) splitWords(text string) []string {
	if n.cfg.StripHTMLTags {
		text = htmlTagPattern.ReplaceAllString(text, "")
	}
	if n.cfg.StripHTMLEntities {
		text = htmlEntityPattern.ReplaceAllString(text, "")
	}
	if n.cfg.StripSquareBracketTags {
		text = squareBracketTagPattern.ReplaceAllString(text, "")
	}

	raw := splitWordsPattern.Split(text, -1)
	words := make([]string, 0, len(raw))
	for _, w := range raw {
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// filterInPlace keeps only words for which keep returns true, reusing
// the backing array.
func filterInPlace(words []string, keep func(string) bool) []string {
	out := words[:0]
	for _, w := range words {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}
