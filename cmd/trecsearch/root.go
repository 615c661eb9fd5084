package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mdietrichstein/advanced-ir-search-engine/internal/config"
)

func buildRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:   "trecsearch",
		Short: "Build and query disk-resident inverted indexes over TREC collections",
		Long: `trecsearch builds inverted indexes over TREC-style SGML document
collections using SPIMI or map/reduce, and ranks documents against
free-text or topic-file queries using TF-IDF, cosine TF-IDF, BM25, or
BM25-VA.`,
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config YAML (default: ~/.trecsearch/config.yaml)")

	// Flag-parsing failures are bad arguments too, so main exits 2.
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &argError{err: err}
	})

	loadConfig := func() (config.Config, error) {
		if cfgPath != "" {
			return config.LoadFrom(cfgPath)
		}
		return config.Load()
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	root.AddCommand(buildIndexCmd(loadConfig))
	root.AddCommand(buildSearchCmd(loadConfig))
	root.AddCommand(buildQueryCmd(loadConfig))

	return root
}
