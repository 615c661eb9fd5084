// Package scoring implements the ranking functions run against a
// built index: TF·IDF (sum), cosine TF·IDF, Okapi BM25, and a
// verbosity-adjusted BM25 variant. Every scorer shares the same
// entry point so callers can select one by name at query time instead
// of hard-coding a single ranking function.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/mdietrichstein/advanced-ir-search-engine/internal/docstats"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/index"
)

// ScoredDocument is one ranked result: a document id and its score
// under whichever scorer produced it.
type ScoredDocument struct {
	DocID string
	Score float64
}

// Scorer ranks documents against a set of query terms. Implementations
// only consider documents touched by at least one query term.
type Scorer interface {
	// Score returns documents matching any term in queryTerms, ranked
	// by score descending with ties broken by first-seen order.
	Score(reader *index.Reader, stats *docstats.Stats, queryTerms []string) ([]ScoredDocument, error)
}

// ByName returns the Scorer registered under name. Valid names are
// "tfidf", "cosine_tfidf", "bm25", and "bm25va".
func ByName(name string) (Scorer, error) {
	switch name {
	case "tfidf":
		return TFIDF{}, nil
	case "cosine_tfidf":
		return CosineTFIDF{}, nil
	case "bm25":
		return NewBM25(DefaultK1, DefaultB, DefaultK3), nil
	case "bm25va":
		return NewBM25VA(DefaultK1, DefaultK3), nil
	default:
		return nil, fmt.Errorf("scoring: unknown scorer %q", name)
	}
}

// matchingEntries scans reader once, keeping only the entries whose
// term is a query term. This is the single required pass over the
// full index per query; every scorer below operates on its output.
func matchingEntries(reader *index.Reader, queryTerms []string) ([]index.Entry, error) {
	wanted := make(map[string]bool, len(queryTerms))
	for _, t := range queryTerms {
		wanted[t] = true
	}

	var entries []index.Entry
	err := reader.Each(func(e index.Entry) error {
		if wanted[e.Term] {
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// queryTermFreq returns the term frequency of term within queryTerms.
func queryTermFreq(queryTerms []string, term string) int {
	count := 0
	for _, t := range queryTerms {
		if t == term {
			count++
		}
	}
	return count
}

// weight is the shared TF·IDF weighting term used by both the sum and
// cosine scorers: w(tf, df) = log(1+tf) * log(N/df).
func weight(tf, df, n int) float64 {
	return math.Log(1+float64(tf)) * math.Log(float64(n)/float64(df))
}

// sortResults orders scored documents by score descending, breaking
// ties by the order docOrder first saw each id in.
func sortResults(scores map[string]float64, docOrder []string) []ScoredDocument {
	seen := make(map[string]bool, len(docOrder))
	ordered := make([]string, 0, len(docOrder))
	for _, id := range docOrder {
		if !seen[id] {
			seen[id] = true
			ordered = append(ordered, id)
		}
	}

	results := make([]ScoredDocument, len(ordered))
	for i, id := range ordered {
		results[i] = ScoredDocument{DocID: id, Score: scores[id]}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
