// Package index reads and writes the on-disk inverted index format:
// a flat, line-oriented text file where each line holds one term's
// complete posting list. The format is intentionally simple so that
// an index file can be built incrementally (SPIMI blocks, map/reduce
// partitions) and merged with an external, streaming merge instead of
// loading the whole structure into memory.
//
// Line format:
//
//	<term>\t<document frequency>\t<doc_id>|<tf>,<doc_id>|<tf>,...
//
// Postings within a line are sorted by doc_id. The file as a whole is
// sorted by term.
package index

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrMalformedLine is returned by Reader.Next when an index line
// cannot be parsed into a term and its posting list.
var ErrMalformedLine = errors.New("index: malformed line")

// Posting is one document's contribution to a term's posting list.
type Posting struct {
	DocID string
	TF    int
}

// Entry is a single term and its complete posting list, as stored on
// one line of an index file.
type Entry struct {
	Term     string
	DF       int
	Postings []Posting
}

// FormatLine renders e in the on-disk line format, without a trailing
// newline.
func FormatLine(e Entry) string {
	var b strings.Builder
	b.WriteString(e.Term)
	b.WriteByte('\t')
	b.WriteString(strconv.Itoa(e.DF))
	b.WriteByte('\t')
	for i, p := range e.Postings {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.DocID)
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(p.TF))
	}
	return b.String()
}

// ParseLine parses a single on-disk index line into an Entry.
func ParseLine(line string) (Entry, error) {
	fields := strings.SplitN(line, "\t", 3)
	if len(fields) != 3 {
		return Entry{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}

	df, err := strconv.Atoi(fields[1])
	if err != nil {
		return Entry{}, fmt.Errorf("%w: bad df in %q: %v", ErrMalformedLine, line, err)
	}

	postingStrs := strings.Split(fields[2], ",")
	postings := make([]Posting, 0, len(postingStrs))
	for _, ps := range postingStrs {
		docID, tfStr, ok := strings.Cut(ps, "|")
		if !ok {
			return Entry{}, fmt.Errorf("%w: bad posting %q in %q", ErrMalformedLine, ps, line)
		}
		tf, err := strconv.Atoi(tfStr)
		if err != nil {
			return Entry{}, fmt.Errorf("%w: bad tf in %q: %v", ErrMalformedLine, ps, err)
		}
		postings = append(postings, Posting{DocID: docID, TF: tf})
	}

	return Entry{Term: fields[0], DF: df, Postings: postings}, nil
}

// Writer writes an index file: a header line with the collection's
// document count, followed by one line per term entry. Entries must
// be supplied in term-sorted order; Writer does not sort.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps w, writing the header line immediately.
func NewWriter(w io.Writer, numDocs int) (*Writer, error) {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d\n", numDocs); err != nil {
		return nil, fmt.Errorf("index: write header: %w", err)
	}
	return &Writer{w: bw}, nil
}

// CreateFile creates (or truncates) path and returns a Writer over it
// along with a close function that flushes and closes the underlying
// file.
func CreateFile(path string, numDocs int) (*Writer, func() error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("index: create %s: %w", path, err)
	}
	w, err := NewWriter(f, numDocs)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return w, func() error {
		if err := w.Flush(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}, nil
}

// WriteEntry appends one term entry.
func (w *Writer) WriteEntry(e Entry) error {
	if _, err := w.w.WriteString(FormatLine(e)); err != nil {
		return fmt.Errorf("index: write entry %q: %w", e.Term, err)
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("index: write entry %q: %w", e.Term, err)
	}
	return nil
}

// Flush flushes any buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Reader reads an index file forward-only, one term entry at a time.
type Reader struct {
	sc      *bufio.Scanner
	numDocs int
}

// OpenFile opens the index file at path and reads its header line.
func OpenFile(path string) (*Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("index: open %s: %w", path, err)
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return r, f.Close, nil
}

// NewReader wraps r, reading the header line immediately.
func NewReader(r io.Reader) (*Reader, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("index: read header: %w", err)
		}
		return nil, fmt.Errorf("index: read header: %w", io.ErrUnexpectedEOF)
	}

	numDocs, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil {
		return nil, fmt.Errorf("index: parse header %q: %w", sc.Text(), err)
	}

	return &Reader{sc: sc, numDocs: numDocs}, nil
}

// NumDocs returns the collection size recorded in the header.
func (r *Reader) NumDocs() int {
	return r.numDocs
}

// Next reads the next term entry. ok is false once the file is
// exhausted; callers must check err even when ok is false.
func (r *Reader) Next() (entry Entry, ok bool, err error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return Entry{}, false, fmt.Errorf("index: scan: %w", err)
		}
		return Entry{}, false, nil
	}

	e, err := ParseLine(r.sc.Text())
	if err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

// Each drains the reader, invoking fn for every entry in order.
func (r *Reader) Each(fn func(Entry) error) error {
	for {
		e, ok, err := r.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(e); err != nil {
			return err
		}
	}
}

// Lookup scans the index file at path for term and returns its entry.
// It is a linear scan; callers doing many lookups should load the
// index into memory instead (see LoadAll).
func Lookup(path, term string) (Entry, bool, error) {
	r, closeFn, err := OpenFile(path)
	if err != nil {
		return Entry{}, false, err
	}
	defer closeFn()

	for {
		e, ok, err := r.Next()
		if err != nil {
			return Entry{}, false, err
		}
		if !ok {
			return Entry{}, false, nil
		}
		if e.Term == term {
			return e, true, nil
		}
	}
}

// LoadAll reads the full index file at path into memory, keyed by
// term. It is intended for query-time loading of indices that are
// small enough to fit, not for building an index.
func LoadAll(path string) (numDocs int, entries map[string]Entry, err error) {
	r, closeFn, err := OpenFile(path)
	if err != nil {
		return 0, nil, err
	}
	defer closeFn()

	entries = make(map[string]Entry)
	err = r.Each(func(e Entry) error {
		entries[e.Term] = e
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return r.NumDocs(), entries, nil
}
