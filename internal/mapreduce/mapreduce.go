// Package mapreduce builds the same on-disk index as package spimi,
// using a different strategy: documents are split across worker
// goroutines (the map phase), each worker partitions the terms it
// sees into one of ten fixed alphabetic buckets, and a reduce phase
// sorts and inverts each bucket independently before the buckets are
// concatenated into the final index. Because the buckets are disjoint
// term ranges in alphabetic order, concatenating them in order
// produces a term-sorted index without a final merge step.
package mapreduce

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/mdietrichstein/advanced-ir-search-engine/internal/docreader"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/docstats"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/index"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/normalize"
)

// partitions are the fixed alphabetic buckets terms are routed into.
// A term falls into the first bucket whose second character is >=
// the term's first character, or the last bucket otherwise.
var partitions = []string{"aa", "bc", "de", "fh", "ij", "km", "nq", "rs", "tu", "vz"}

func partitionIndex(term string) int {
	if term == "" {
		return 0
	}
	c := term[0]
	for i, p := range partitions {
		if i == len(partitions)-1 || c <= p[1] {
			return i
		}
	}
	return len(partitions) - 1
}

// DefaultChunkSizeBytes is the default cumulative input file size
// assigned to each map worker when Options.ChunkSizeBytes is zero.
const DefaultChunkSizeBytes = 16 * 1024 * 1024

// Options configures map/reduce index construction.
type Options struct {
	// MaxWorkers bounds how many map (and, separately, reduce) tasks
	// run concurrently. Zero means runtime.NumCPU.
	MaxWorkers int
	// ChunkSizeBytes is the cumulative size of source files assigned
	// to each map worker.
	ChunkSizeBytes int64
	// TempDir is the directory partition segment files are written
	// to. Empty means the OS default temp directory.
	TempDir string
}

// BuildIndex reads documents from filePaths across a pool of worker
// goroutines, builds an index at outPath, and persists document stats
// at statsPath. It returns the number of documents indexed.
func BuildIndex(ctx context.Context, filePaths []string, normalizer *normalize.Normalizer, outPath, statsPath string, opts Options) (int, error) {
	chunkSize := opts.ChunkSizeBytes
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSizeBytes
	}

	chunks, err := splitBySize(filePaths, chunkSize)
	if err != nil {
		return 0, err
	}

	segmentDir, err := os.MkdirTemp(opts.TempDir, "mapreduce-segments-*")
	if err != nil {
		return 0, fmt.Errorf("mapreduce: create segment dir: %w", err)
	}
	defer os.RemoveAll(segmentDir)

	partitionFiles, numDocs, err := runMapPhase(ctx, chunks, normalizer, segmentDir, opts.MaxWorkers)
	if err != nil {
		return 0, err
	}

	partitionStats, err := runReducePhase(ctx, partitionFiles, segmentDir, opts.MaxWorkers)
	if err != nil {
		return 0, err
	}

	if err := assemble(outPath, numDocs, segmentDir); err != nil {
		return 0, err
	}

	merged := docstats.Merge(partitionStats...)
	if err := merged.Save(statsPath); err != nil {
		return 0, err
	}

	return numDocs, nil
}

// splitBySize groups filePaths into chunks whose cumulative file size
// does not exceed chunkSize, mirroring how the original collection
// reader bounds per-worker input volume.
func splitBySize(filePaths []string, chunkSize int64) ([][]string, error) {
	var chunks [][]string
	var current []string
	var currentSize int64

	for _, p := range filePaths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("mapreduce: stat %s: %w", p, err)
		}

		if currentSize > 0 && currentSize+info.Size() > chunkSize {
			chunks = append(chunks, current)
			current = nil
			currentSize = 0
		}
		current = append(current, p)
		currentSize += info.Size()
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks, nil
}

// runMapPhase processes each chunk concurrently, routing every term
// it sees into one of the ten partition segment files and returning,
// per partition, the list of segment files that contributed to it.
func runMapPhase(ctx context.Context, chunks [][]string, normalizer *normalize.Normalizer, segmentDir string, maxWorkers int) ([][]string, int, error) {
	g, ctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, workerLimit(maxWorkers))

	var mu sync.Mutex
	partitionFiles := make([][]string, len(partitions))
	var totalDocs int64

	for chunkIdx, chunk := range chunks {
		chunkIdx, chunk := chunkIdx, chunk
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			paths, docCount, err := mapChunk(chunk, normalizer, segmentDir, chunkIdx)
			if err != nil {
				return err
			}

			atomic.AddInt64(&totalDocs, int64(docCount))

			mu.Lock()
			for i, p := range paths {
				if p != "" {
					partitionFiles[i] = append(partitionFiles[i], p)
				}
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return partitionFiles, int(totalDocs), nil
}

// mapChunk reads every document in chunk, normalizes its text, and
// buckets each resulting term into one of the ten partitions. Each
// non-empty partition bucket is flushed to its own segment file
// tagged with chunkIdx so reduce can later find every chunk's
// contribution.
func mapChunk(chunk []string, normalizer *normalize.Normalizer, segmentDir string, chunkIdx int) ([]string, int, error) {
	docs, err := docreader.ReadFiles(chunk)
	if err != nil {
		return nil, 0, err
	}

	buckets := make([][]string, len(partitions))
	for _, doc := range docs {
		for _, term := range normalizer.Normalize(doc.Text) {
			idx := partitionIndex(term)
			buckets[idx] = append(buckets[idx], term+" "+doc.ID)
		}
	}

	paths := make([]string, len(partitions))
	for i, lines := range buckets {
		if len(lines) == 0 {
			continue
		}
		segPath := fmt.Sprintf("%s/%s.%d.seg", segmentDir, partitions[i], chunkIdx)
		if err := writeSegment(segPath, lines); err != nil {
			return nil, 0, err
		}
		paths[i] = segPath
	}

	return paths, len(docs), nil
}

func writeSegment(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mapreduce: create segment %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			return fmt.Errorf("mapreduce: write segment %s: %w", path, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fmt.Errorf("mapreduce: write segment %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("mapreduce: flush segment %s: %w", path, err)
	}
	return nil
}

// runReducePhase inverts each partition's segment files independently
// and concurrently, writing one result file per partition plus the
// document stats observed while inverting it.
func runReducePhase(ctx context.Context, partitionFiles [][]string, segmentDir string, maxWorkers int) ([]*docstats.Stats, error) {
	g, ctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, workerLimit(maxWorkers))

	results := make([]*docstats.Stats, len(partitions))

	for i := range partitions {
		i := i
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			stats, err := reducePartition(partitionFiles[i], segmentDir, partitions[i])
			if err != nil {
				return err
			}
			results[i] = stats
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// reducePartition merges and sorts every segment file belonging to
// one partition, groups consecutive lines by term, and writes the
// partition's inverted postings to its result file.
func reducePartition(segmentFiles []string, segmentDir, partition string) (*docstats.Stats, error) {
	stats := docstats.New()

	resultPath := fmt.Sprintf("%s/result.%s", segmentDir, partition)
	if len(segmentFiles) == 0 {
		f, err := os.Create(resultPath)
		if err != nil {
			return nil, fmt.Errorf("mapreduce: create result %s: %w", resultPath, err)
		}
		f.Close()
		return stats, nil
	}

	var lines []string
	for _, path := range segmentFiles {
		segLines, err := readLines(path)
		if err != nil {
			return nil, err
		}
		lines = append(lines, segLines...)
	}
	sort.Strings(lines)

	f, err := os.Create(resultPath)
	if err != nil {
		return nil, fmt.Errorf("mapreduce: create result %s: %w", resultPath, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	var currentTerm string
	var docIDs []string

	flush := func() error {
		if currentTerm == "" {
			return nil
		}
		postings := toPostings(docIDs)
		for _, p := range postings {
			terms, _ := stats.TermsOf(p.DocID)
			length, _ := stats.LengthOf(p.DocID)
			stats.Observe(p.DocID, terms+1, length+p.TF)
		}
		line := index.FormatLine(index.Entry{Term: currentTerm, DF: len(postings), Postings: postings})
		if _, err := w.WriteString(line); err != nil {
			return err
		}
		return w.WriteByte('\n')
	}

	for _, line := range lines {
		term, docID, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		if term != currentTerm {
			if err := flush(); err != nil {
				return nil, fmt.Errorf("mapreduce: write result %s: %w", resultPath, err)
			}
			currentTerm = term
			docIDs = nil
		}
		docIDs = append(docIDs, docID)
	}
	if err := flush(); err != nil {
		return nil, fmt.Errorf("mapreduce: write result %s: %w", resultPath, err)
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("mapreduce: flush result %s: %w", resultPath, err)
	}

	return stats, nil
}

func toPostings(docIDs []string) []index.Posting {
	counts := make(map[string]int, len(docIDs))
	var order []string
	for _, id := range docIDs {
		if _, seen := counts[id]; !seen {
			order = append(order, id)
		}
		counts[id]++
	}
	sort.Strings(order)

	postings := make([]index.Posting, 0, len(order))
	for _, id := range order {
		postings = append(postings, index.Posting{DocID: id, TF: counts[id]})
	}
	return postings
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mapreduce: open segment %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("mapreduce: read segment %s: %w", path, err)
	}
	return lines, nil
}

// assemble concatenates the partitions' result files, in partition
// order, into the final index file with its numDocs header. Partition
// order already matches term order, so no further merge is needed.
func assemble(outPath string, numDocs int, segmentDir string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("mapreduce: create %s: %w", outPath, err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	if _, err := fmt.Fprintf(w, "%d\n", numDocs); err != nil {
		return fmt.Errorf("mapreduce: write header: %w", err)
	}

	for _, partition := range partitions {
		resultPath := fmt.Sprintf("%s/result.%s", segmentDir, partition)
		if err := appendFile(w, resultPath); err != nil {
			return err
		}
	}

	return w.Flush()
}

func appendFile(w *bufio.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("mapreduce: open result %s: %w", path, err)
	}
	defer f.Close()

	if _, err := w.ReadFrom(f); err != nil {
		return fmt.Errorf("mapreduce: append result %s: %w", path, err)
	}
	return nil
}

func workerLimit(maxWorkers int) int {
	if maxWorkers > 0 {
		return maxWorkers
	}
	return runtime.NumCPU()
}
