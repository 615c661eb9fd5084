package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/mdietrichstein/advanced-ir-search-engine/internal/config"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/mapreduce"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/normalize"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/spimi"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/tokenstream"
)

type configLoader func() (config.Config, error)

func buildIndexCmd(loadConfig configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build an inverted index from a document collection",
	}

	cmd.AddCommand(buildIndexSimpleCmd(loadConfig))
	cmd.AddCommand(buildIndexSpimiCmd(loadConfig))
	cmd.AddCommand(buildIndexMapReduceCmd(loadConfig))

	return cmd
}

// tmpDir returns the TRECSEARCH_TMPDIR override, or "" to let the
// standard library fall back to the OS default temp directory.
func tmpDir() string {
	return os.Getenv("TRECSEARCH_TMPDIR")
}

func resolveDocs(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, argErrorf("invalid --docs glob %q: %v", pattern, err)
	}
	if len(matches) == 0 {
		return nil, argErrorf("--docs glob %q matched no files", pattern)
	}
	return matches, nil
}

func buildIndexSimpleCmd(loadConfig configLoader) *cobra.Command {
	var docsGlob, outPath, statsPath string

	cmd := &cobra.Command{
		Use:   "simple",
		Short: "Build an index with a single unbounded in-memory pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			if docsGlob == "" || outPath == "" || statsPath == "" {
				return argErrorf("--docs, --out and --stats are required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			docs, err := resolveDocs(docsGlob)
			if err != nil {
				return err
			}

			start := time.Now()
			stream, err := tokenstream.Open(docs, normalize.New(cfg.Normalizer))
			if err != nil {
				return err
			}

			// "simple" is SPIMI with an effectively unbounded block:
			// the whole collection is inverted in a single in-memory
			// pass, and the merge step only copies that one block.
			numDocs, err := spimi.BuildIndex(stream, outPath, statsPath, spimi.Options{MaxTokensPerBlock: 1 << 62, TempDir: tmpDir()})
			if err != nil {
				return err
			}

			slog.Info("index built", slog.String("strategy", "simple"), slog.Int("documents", numDocs), slog.Duration("elapsed", time.Since(start)))
			return nil
		},
	}

	cmd.Flags().StringVar(&docsGlob, "docs", "", "Glob pattern for SGML document files")
	cmd.Flags().StringVar(&outPath, "out", "", "Output index file path")
	cmd.Flags().StringVar(&statsPath, "stats", "", "Output document stats file path")

	return cmd
}

func buildIndexSpimiCmd(loadConfig configLoader) *cobra.Command {
	var docsGlob, outPath, statsPath string
	var maxTokensPerBlock int

	cmd := &cobra.Command{
		Use:   "spimi",
		Short: "Build an index with bounded-memory SPIMI blocks and an external merge",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			if docsGlob == "" || outPath == "" || statsPath == "" {
				return argErrorf("--docs, --out and --stats are required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			docs, err := resolveDocs(docsGlob)
			if err != nil {
				return err
			}

			start := time.Now()
			stream, err := tokenstream.Open(docs, normalize.New(cfg.Normalizer))
			if err != nil {
				return err
			}

			numDocs, err := spimi.BuildIndex(stream, outPath, statsPath, spimi.Options{MaxTokensPerBlock: maxTokensPerBlock, TempDir: tmpDir()})
			if err != nil {
				return err
			}

			slog.Info("index built", slog.String("strategy", "spimi"), slog.Int("documents", numDocs), slog.Duration("elapsed", time.Since(start)))
			return nil
		},
	}

	cmd.Flags().StringVar(&docsGlob, "docs", "", "Glob pattern for SGML document files")
	cmd.Flags().StringVar(&outPath, "out", "", "Output index file path")
	cmd.Flags().StringVar(&statsPath, "stats", "", "Output document stats file path")
	cmd.Flags().IntVar(&maxTokensPerBlock, "max-tokens-per-block", spimi.DefaultMaxTokensPerBlock, "Token budget per in-memory SPIMI block")

	return cmd
}

func buildIndexMapReduceCmd(loadConfig configLoader) *cobra.Command {
	var docsGlob, outPath, statsPath string
	var workers int
	var blocksizeMB int64

	cmd := &cobra.Command{
		Use:   "map_reduce",
		Short: "Build an index with a parallel map/reduce worker pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			if docsGlob == "" || outPath == "" || statsPath == "" {
				return argErrorf("--docs, --out and --stats are required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			docs, err := resolveDocs(docsGlob)
			if err != nil {
				return err
			}

			start := time.Now()
			numDocs, err := mapreduce.BuildIndex(context.Background(), docs, normalize.New(cfg.Normalizer), outPath, statsPath, mapreduce.Options{
				MaxWorkers:     workers,
				ChunkSizeBytes: blocksizeMB * 1024 * 1024,
				TempDir:        tmpDir(),
			})
			if err != nil {
				return err
			}

			slog.Info("index built", slog.String("strategy", "map_reduce"), slog.Int("documents", numDocs), slog.Duration("elapsed", time.Since(start)))
			return nil
		},
	}

	cmd.Flags().StringVar(&docsGlob, "docs", "", "Glob pattern for SGML document files")
	cmd.Flags().StringVar(&outPath, "out", "", "Output index file path")
	cmd.Flags().StringVar(&statsPath, "stats", "", "Output document stats file path")
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "Number of concurrent map/reduce workers")
	cmd.Flags().Int64Var(&blocksizeMB, "blocksize-mb", 16, "Cumulative input size, in MiB, assigned to each map worker")

	return cmd
}
