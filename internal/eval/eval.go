// Package eval drives a scorer over a set of topics and formats the
// results as a TREC run file: for each topic, its top-K scored
// documents in rank order.
package eval

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mdietrichstein/advanced-ir-search-engine/internal/docstats"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/index"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/normalize"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/scoring"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/topics"
)

// RunLine is one ranked result for one topic, the in-memory form of a
// TREC run file line.
type RunLine struct {
	TopicID string
	DocID   string
	Rank    int
	Score   float64
	RunName string
}

// Format renders the line in TREC run-file format:
// <topic_id> Q0 <doc_id> <rank> <score> <run_name>
func (l RunLine) Format() string {
	return fmt.Sprintf("%s Q0 %s %d %.6f %s", l.TopicID, l.DocID, l.Rank, l.Score, l.RunName)
}

// Run scores every topic in topicList with scorer, keeping each
// topic's top K results, and writes the resulting run lines to w in
// topic order. Each topic gets its own fresh pass over the index
// file at indexPath — a Reader is forward-only and a scorer's single
// required pass is per query, not per index load.
func Run(w io.Writer, indexPath string, stats *docstats.Stats, normalizer *normalize.Normalizer, scorer scoring.Scorer, topicList []topics.Topic, runName string, topK int) error {
	bw := bufio.NewWriter(w)

	for _, top := range topicList {
		queryTerms := normalizer.Normalize(top.QueryText())

		reader, closeFn, err := index.OpenFile(indexPath)
		if err != nil {
			return fmt.Errorf("eval: open index for topic %s: %w", top.ID, err)
		}

		results, err := scorer.Score(reader, stats, queryTerms)
		closeFn()
		if err != nil {
			return fmt.Errorf("eval: scoring topic %s: %w", top.ID, err)
		}

		if topK > 0 && len(results) > topK {
			results = results[:topK]
		}

		for i, res := range results {
			line := RunLine{
				TopicID: top.ID,
				DocID:   res.DocID,
				Rank:    i + 1,
				Score:   res.Score,
				RunName: runName,
			}
			if _, err := fmt.Fprintln(bw, line.Format()); err != nil {
				return fmt.Errorf("eval: write run line: %w", err)
			}
		}
	}

	return bw.Flush()
}

// RunToFile is a convenience wrapper around Run that writes the run
// file at outPath.
func RunToFile(outPath, indexPath string, stats *docstats.Stats, normalizer *normalize.Normalizer, scorer scoring.Scorer, topicList []topics.Topic, runName string, topK int) error {
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("eval: create %s: %w", outPath, err)
	}
	defer f.Close()

	return Run(f, indexPath, stats, normalizer, scorer, topicList, runName, topK)
}
