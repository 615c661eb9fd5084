package scoring

import (
	"math"

	"github.com/mdietrichstein/advanced-ir-search-engine/internal/docstats"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/index"
)

// Default Okapi BM25 / BM25-VA parameters, per the scoring contract.
const (
	DefaultK1 = 1.2
	DefaultB  = 0.75
	DefaultK3 = 8.0
)

// BM25 implements Okapi BM25 with the query-weighting factor
// ((k3+1)·tfq)/(k3+tfq), which saturates towards k3+1 as a term is
// repeated in the query.
type BM25 struct {
	K1, B, K3 float64
}

// NewBM25 constructs a BM25 scorer with explicit parameters.
func NewBM25(k1, b, k3 float64) BM25 {
	return BM25{K1: k1, B: b, K3: k3}
}

// Score implements Scorer.
func (s BM25) Score(reader *index.Reader, stats *docstats.Stats, queryTerms []string) ([]ScoredDocument, error) {
	entries, err := matchingEntries(reader, queryTerms)
	if err != nil {
		return nil, err
	}

	n := reader.NumDocs()
	avgDL := stats.AverageLength()

	scores := make(map[string]float64)
	var docOrder []string

	for _, e := range entries {
		tfq := queryTermFreq(queryTerms, e.Term)
		idf := math.Log((float64(n)-float64(e.DF)+0.5)/(float64(e.DF)+0.5))
		queryFactor := ((s.K3 + 1) * float64(tfq)) / (s.K3 + float64(tfq))

		for _, p := range e.Postings {
			dl, err := stats.LengthOf(p.DocID)
			if err != nil {
				return nil, err
			}

			bd := (1 - s.B) + s.B*float64(dl)/avgDL
			k := s.K1 * bd
			docFactor := ((s.K1 + 1) * float64(p.TF)) / (k + float64(p.TF))

			if _, ok := scores[p.DocID]; !ok {
				docOrder = append(docOrder, p.DocID)
			}
			scores[p.DocID] += queryFactor * docFactor * idf
		}
	}

	return sortResults(scores, docOrder), nil
}
