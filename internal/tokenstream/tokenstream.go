// Package tokenstream composes docreader and normalize into the
// (doc_id, term) pull stream that SPIMI indexing consumes: it builds
// its postings by draining a Stream in order, and the Stream never
// holds more than one document's terms in memory at once. The
// map/reduce builder reads and normalizes its documents directly
// instead of going through a Stream.
package tokenstream

import (
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/docreader"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/normalize"
)

// Token is a single (document, term) occurrence produced while
// scanning a collection. DocCount is the number of documents the
// stream has read so far, including this token's document and any
// earlier documents that produced no terms — it is the running total
// a caller needs to record N once the stream is exhausted.
type Token struct {
	DocID    string
	Term     string
	DocCount int
}

// Stream pulls tokens out of a sequence of SGML collection files one
// document at a time.
type Stream struct {
	normalizer *normalize.Normalizer
	docs       []docreader.Document
	docIdx     int
	pending    []string
	pendingPos int
	docCount   int
}

// New creates a Stream over the already-loaded documents, normalizing
// each document's text with normalizer as it is reached.
func New(docs []docreader.Document, normalizer *normalize.Normalizer) *Stream {
	return &Stream{normalizer: normalizer, docs: docs}
}

// Open loads every document in paths and returns a Stream over them.
func Open(paths []string, normalizer *normalize.Normalizer) (*Stream, error) {
	docs, err := docreader.ReadFiles(paths)
	if err != nil {
		return nil, err
	}
	return New(docs, normalizer), nil
}

// Next returns the next token in the stream, or ok=false once every
// document has been fully consumed.
func (s *Stream) Next() (Token, bool) {
	for {
		if s.pendingPos < len(s.pending) {
			term := s.pending[s.pendingPos]
			s.pendingPos++
			return Token{
				DocID:    s.docs[s.docIdx-1].ID,
				Term:     term,
				DocCount: s.docCount,
			}, true
		}

		if s.docIdx >= len(s.docs) {
			return Token{}, false
		}

		doc := s.docs[s.docIdx]
		s.docIdx++
		s.docCount++
		s.pending = s.normalizer.Normalize(doc.Text)
		s.pendingPos = 0
	}
}

// DocCount returns the number of documents consumed by the stream so
// far.
func (s *Stream) DocCount() int {
	return s.docCount
}

// Each drains the stream, invoking fn for every token in order. It
// stops and returns fn's error immediately if fn returns one.
func (s *Stream) Each(fn func(Token) error) error {
	for {
		tok, ok := s.Next()
		if !ok {
			return nil
		}
		if err := fn(tok); err != nil {
			return err
		}
	}
}
