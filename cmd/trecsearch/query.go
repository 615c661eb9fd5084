package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/mdietrichstein/advanced-ir-search-engine/internal/docstats"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/eval"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/normalize"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/topics"
)

func buildQueryCmd(loadConfig configLoader) *cobra.Command {
	var indexPath, statsPath, topicsPath, scorerName, runName, outPath string
	var topK int

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Evaluate a topic set against an index and write a TREC run file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			if indexPath == "" || statsPath == "" || topicsPath == "" || outPath == "" {
				return argErrorf("--index, --stats, --topics and --out are required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			scorer, err := scorerFor(scorerName, cfg)
			if err != nil {
				return err
			}

			stats, err := docstats.Load(statsPath)
			if err != nil {
				return err
			}

			topicList, err := topics.ReadFile(topicsPath)
			if err != nil {
				return err
			}

			start := time.Now()
			err = eval.RunToFile(outPath, indexPath, stats, normalize.New(cfg.Normalizer), scorer, topicList, runName, topK)
			if err != nil {
				return err
			}

			slog.Info("query run complete", slog.Int("topics", len(topicList)), slog.String("scorer", scorerName), slog.Duration("elapsed", time.Since(start)))
			return nil
		},
	}

	cmd.Flags().StringVar(&indexPath, "index", "", "Index file path")
	cmd.Flags().StringVar(&statsPath, "stats", "", "Document stats file path")
	cmd.Flags().StringVar(&topicsPath, "topics", "", "Topic file path")
	cmd.Flags().StringVar(&scorerName, "scorer", "bm25", "Scorer: tfidf, cosine_tfidf, bm25, or bm25va")
	cmd.Flags().StringVar(&runName, "run-name", "trecsearch", "Run identifier written into the run file")
	cmd.Flags().StringVar(&outPath, "out", "", "Output run file path")
	cmd.Flags().IntVar(&topK, "top", 60, "Number of ranked documents kept per topic")

	return cmd
}
