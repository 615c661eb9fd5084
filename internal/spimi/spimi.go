// Package spimi implements Single-Pass In-Memory Indexing: the token
// stream is consumed in bounded-size chunks, each chunk inverted
// entirely in memory and flushed to a sorted temporary block file,
// and the resulting blocks are merged with a single external k-way
// merge pass into the final index. Memory use is bounded by
// MaxTokensPerBlock regardless of collection size.
package spimi

import (
	"bufio"
	"container/heap"
	"fmt"
	"os"
	"sort"

	"github.com/mdietrichstein/advanced-ir-search-engine/internal/docstats"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/index"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/tokenstream"
)

// DefaultMaxTokensPerBlock is used when Options.MaxTokensPerBlock is
// left at zero.
const DefaultMaxTokensPerBlock = 10_000_000

// Options configures index construction.
type Options struct {
	// MaxTokensPerBlock bounds the number of (doc, term) tokens held
	// in memory per SPIMI block before it is flushed to disk.
	MaxTokensPerBlock int
	// TempDir is the directory block files are written to. Empty
	// means the OS default temp directory.
	TempDir string
}

// BuildIndex drains stream, building an index at outPath and
// persisting document stats at statsPath. It returns the number of
// documents indexed.
func BuildIndex(stream *tokenstream.Stream, outPath, statsPath string, opts Options) (int, error) {
	maxTokens := opts.MaxTokensPerBlock
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokensPerBlock
	}

	// Block files are removed only after a successful merge; on failure
	// they are left in place for inspection.
	var blockPaths []string

	numDocs := 0
	for {
		path, tokensWritten, exhausted, err := invertBlock(stream, maxTokens, opts.TempDir)
		if err != nil {
			return 0, err
		}
		if tokensWritten > 0 {
			blockPaths = append(blockPaths, path)
		}
		numDocs = stream.DocCount()
		if exhausted {
			break
		}
	}

	stats := docstats.New()
	if err := mergeBlocks(blockPaths, outPath, numDocs, stats); err != nil {
		os.Remove(outPath)
		return 0, err
	}
	for _, p := range blockPaths {
		os.Remove(p)
	}
	if err := stats.Save(statsPath); err != nil {
		return 0, err
	}

	return numDocs, nil
}

// invertBlock reads up to maxTokens tokens from stream, inverts them
// in memory, and writes the result as a sorted block file. It returns
// the block's temp file path (empty if the block was empty), how many
// tokens it consumed, and whether the stream is now exhausted.
func invertBlock(stream *tokenstream.Stream, maxTokens int, tmpDir string) (path string, tokensWritten int, exhausted bool, err error) {
	dictionary := make(map[string][]string)

	processed := 0
	for processed < maxTokens {
		tok, ok := stream.Next()
		if !ok {
			exhausted = true
			break
		}
		dictionary[tok.Term] = append(dictionary[tok.Term], tok.DocID)
		processed++
	}

	if len(dictionary) == 0 {
		return "", 0, exhausted, nil
	}

	f, err := os.CreateTemp(tmpDir, "spimi-block-*.blk")
	if err != nil {
		return "", 0, false, fmt.Errorf("spimi: create block file: %w", err)
	}
	defer f.Close()

	terms := make([]string, 0, len(dictionary))
	for term := range dictionary {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	w := bufio.NewWriter(f)
	for _, term := range terms {
		postings := bagOfWords(dictionary[term])
		line := index.FormatLine(index.Entry{Term: term, DF: len(postings), Postings: postings})
		if _, err := w.WriteString(line); err != nil {
			return "", 0, false, fmt.Errorf("spimi: write block: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return "", 0, false, fmt.Errorf("spimi: write block: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return "", 0, false, fmt.Errorf("spimi: flush block: %w", err)
	}

	return f.Name(), processed, exhausted, nil
}

// bagOfWords collapses a list of document ids (one per occurrence)
// into term-frequency postings, sorted by document id so merge input
// is stably ordered.
func bagOfWords(docIDs []string) []index.Posting {
	counts := make(map[string]int, len(docIDs))
	order := make([]string, 0, len(docIDs))
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

// blockCursor tracks one open block file's current (unconsumed) entry.
type blockCursor struct {
	reader  *bufio.Scanner
	file    *os.File
	current index.Entry
	done    bool
}

func openCursor(path string) (*blockCursor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("spimi: open block %s: %w", path, err)
	}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	c := &blockCursor{reader: sc, file: f}
	if err := c.advance(); err != nil {
		f.Close()
		return nil, err
	}
	return c, nil
}

func (c *blockCursor) advance() error {
	if !c.reader.Scan() {
		if err := c.reader.Err(); err != nil {
			return fmt.Errorf("spimi: read block: %w", err)
		}
		c.done = true
		return nil
	}
	e, err := index.ParseLine(c.reader.Text())
	if err != nil {
		return err
	}
	c.current = e
	return nil
}

func (c *blockCursor) close() error {
	return c.file.Close()
}

// cursorHeap orders open block cursors by their current term,
// grounded in the min-heap block-merge pattern used for posting-list
// merges.
type cursorHeap []*blockCursor

func (h cursorHeap) Len() int            { return len(h) }
func (h cursorHeap) Less(i, j int) bool  { return h[i].current.Term < h[j].current.Term }
func (h cursorHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *cursorHeap) Push(x interface{}) { *h = append(*h, x.(*blockCursor)) }
func (h *cursorHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// mergeBlocks performs the external k-way merge of blockPaths into a
// single sorted index file at outPath, accumulating document stats
// into stats as entries are flushed.
func mergeBlocks(blockPaths []string, outPath string, numDocs int, stats *docstats.Stats) error {
	w, closeFn, err := index.CreateFile(outPath, numDocs)
	if err != nil {
		return err
	}
	defer closeFn()

	h := &cursorHeap{}
	heap.Init(h)

	var cursors []*blockCursor
	for _, path := range blockPaths {
		c, err := openCursor(path)
		if err != nil {
			return err
		}
		cursors = append(cursors, c)
		if !c.done {
			heap.Push(h, c)
		}
	}
	defer func() {
		for _, c := range cursors {
			c.close()
		}
	}()

	for h.Len() > 0 {
		smallestTerm := (*h)[0].current.Term

		merged := make(map[string]int)
		var order []string

		for h.Len() > 0 && (*h)[0].current.Term == smallestTerm {
			c := heap.Pop(h).(*blockCursor)
			for _, p := range c.current.Postings {
				if _, seen := merged[p.DocID]; !seen {
					order = append(order, p.DocID)
				}
				merged[p.DocID] += p.TF
			}
			if err := c.advance(); err != nil {
				return err
			}
			if !c.done {
				heap.Push(h, c)
			}
		}

		sort.Strings(order)
		postings := make([]index.Posting, 0, len(order))
		for _, docID := range order {
			tf := merged[docID]
			postings = append(postings, index.Posting{DocID: docID, TF: tf})
			terms, _ := stats.TermsOf(docID)
			length, _ := stats.LengthOf(docID)
			stats.Observe(docID, terms+1, length+tf)
		}

		if err := w.WriteEntry(index.Entry{Term: smallestTerm, DF: len(postings), Postings: postings}); err != nil {
			return err
		}
	}

	return nil
}
