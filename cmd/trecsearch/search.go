package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdietrichstein/advanced-ir-search-engine/internal/config"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/docstats"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/index"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/normalize"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/scoring"
)

func buildSearchCmd(loadConfig configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run a single free-text query against an index",
	}

	for _, name := range []string{"tfidf", "cosine_tfidf", "bm25", "bm25va"} {
		cmd.AddCommand(buildSearchScorerCmd(loadConfig, name))
	}

	return cmd
}

func buildSearchScorerCmd(loadConfig configLoader, scorerName string) *cobra.Command {
	var indexPath, statsPath, query string
	var topK int

	cmd := &cobra.Command{
		Use:   scorerName,
		Short: fmt.Sprintf("Rank documents with the %s scorer", scorerName),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			if indexPath == "" || statsPath == "" || query == "" {
				return argErrorf("--index, --stats and --query are required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			stats, err := docstats.Load(statsPath)
			if err != nil {
				return err
			}

			reader, closeFn, err := index.OpenFile(indexPath)
			if err != nil {
				return err
			}
			defer closeFn()

			scorer, err := scorerFor(scorerName, cfg)
			if err != nil {
				return err
			}

			queryTerms := normalize.New(cfg.Normalizer).Normalize(query)
			results, err := scorer.Score(reader, stats, queryTerms)
			if err != nil {
				return err
			}

			if topK > 0 && len(results) > topK {
				results = results[:topK]
			}

			for i, res := range results {
				fmt.Printf("%d. %s\t%.6f\n", i+1, res.DocID, res.Score)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&indexPath, "index", "", "Index file path")
	cmd.Flags().StringVar(&statsPath, "stats", "", "Document stats file path")
	cmd.Flags().StringVar(&query, "query", "", "Free-text query")
	cmd.Flags().IntVar(&topK, "top", 50, "Number of results to return")

	return cmd
}

func scorerFor(name string, cfg config.Config) (scoring.Scorer, error) {
	switch name {
	case "tfidf":
		return scoring.TFIDF{}, nil
	case "cosine_tfidf":
		return scoring.CosineTFIDF{}, nil
	case "bm25":
		return scoring.NewBM25(cfg.K1, cfg.B, cfg.K3), nil
	case "bm25va":
		return scoring.NewBM25VA(cfg.K1, cfg.K3), nil
	default:
		return nil, argErrorf("unknown scorer %q", name)
	}
}
