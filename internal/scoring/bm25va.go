package scoring

import (
	"math"

	"github.com/mdietrichstein/advanced-ir-search-engine/internal/docstats"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/index"
)

// BM25VA implements the verbosity-adjusted BM25 variant: instead of a
// single length-normalization factor B(d), it blends a per-document
// term-count ratio against the corpus-average ratio, penalizing
// documents whose high length comes from few repeated terms
// differently than documents with genuinely broad vocabulary.
type BM25VA struct {
	K1, K3 float64
}

// NewBM25VA constructs a BM25-VA scorer with explicit parameters.
func NewBM25VA(k1, k3 float64) BM25VA {
	return BM25VA{K1: k1, K3: k3}
}

// Score implements Scorer.
func (s BM25VA) Score(reader *index.Reader, stats *docstats.Stats, queryTerms []string) ([]ScoredDocument, error) {
	entries, err := matchingEntries(reader, queryTerms)
	if err != nil {
		return nil, err
	}

	n := reader.NumDocs()
	avgDL := stats.AverageLength()
	mavgTF := meanLengthToTermsRatio(stats)

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
			nt, err := stats.TermsOf(p.DocID)
			if err != nil {
				return nil, err
			}

			bVA := (1/(mavgTF*mavgTF))*(float64(dl)/float64(nt)) +
				(1-1/mavgTF)*(float64(dl)/avgDL)
			k := s.K1 * bVA
			docFactor := ((s.K1 + 1) * float64(p.TF)) / (k + float64(p.TF))

			if _, ok := scores[p.DocID]; !ok {
				docOrder = append(docOrder, p.DocID)
			}
			scores[p.DocID] += queryFactor * docFactor * idf
		}
	}

	return sortResults(scores, docOrder), nil
}

// meanLengthToTermsRatio computes mavg_tf = mean_d(dl[d]/nt[d]) over
// every document in stats.
func meanLengthToTermsRatio(stats *docstats.Stats) float64 {
	if len(stats.Length) == 0 {
		return 0
	}
	var total float64
	for docID, dl := range stats.Length {
		nt := stats.Terms[docID]
		if nt == 0 {
			continue
		}
		total += float64(dl) / float64(nt)
	}
	return total / float64(len(stats.Length))
}
