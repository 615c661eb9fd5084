package scoring

import (
	"math"

	"github.com/mdietrichstein/advanced-ir-search-engine/internal/docstats"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/index"
)

// CosineTFIDF scores documents by the cosine similarity between the
// query and document TF·IDF weight vectors, restricted to query
// terms. The document-norm sum deliberately only ranges over query
// terms rather than the document's full vocabulary — an approximation
// of the full cosine that is part of the scoring contract.
type CosineTFIDF struct{}

// Score implements Scorer.
func (CosineTFIDF) Score(reader *index.Reader, stats *docstats.Stats, queryTerms []string) ([]ScoredDocument, error) {
	entries, err := matchingEntries(reader, queryTerms)
	if err != nil {
		return nil, err
	}

	n := reader.NumDocs()

	dot := make(map[string]float64)
	docNormSq := make(map[string]float64)
	var docOrder []string
	var queryNormSq float64

	for _, e := range entries {
		tfq := queryTermFreq(queryTerms, e.Term)
		wq := weight(tfq, e.DF, n)
		queryNormSq += wq * wq

		for _, p := range e.Postings {
			wd := weight(p.TF, e.DF, n)
			if _, ok := dot[p.DocID]; !ok {
				docOrder = append(docOrder, p.DocID)
			}
			dot[p.DocID] += wq * wd
			docNormSq[p.DocID] += wd * wd
		}
	}

	queryNorm := math.Sqrt(queryNormSq)

	scores := make(map[string]float64, len(dot))
	for _, docID := range docOrder {
		denom := queryNorm * math.Sqrt(docNormSq[docID])
		if denom == 0 {
			scores[docID] = 0
			continue
		}
		scores[docID] = dot[docID] / denom
	}

	return sortResults(scores, docOrder), nil
}
