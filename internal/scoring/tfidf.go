package scoring

import (
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/docstats"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/index"
)

// TFIDF scores documents by the plain sum of TF·IDF weights over the
// query terms they share with the document.
type TFIDF struct{}

// Score implements Scorer.
func (TFIDF) Score(reader *index.Reader, stats *docstats.Stats, queryTerms []string) ([]ScoredDocument, error) {
	entries, err := matchingEntries(reader, queryTerms)
	if err != nil {
		return nil, err
	}

	n := reader.NumDocs()
	scores := make(map[string]float64)
	var docOrder []string

	for _, e := range entries {
		for _, p := range e.Postings {
			w := weight(p.TF, e.DF, n)
			if _, ok := scores[p.DocID]; !ok {
				docOrder = append(docOrder, p.DocID)
			}
			scores[p.DocID] += w
		}
	}

	return sortResults(scores, docOrder), nil
}
