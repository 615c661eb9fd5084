// Package docreader parses TREC-style SGML document collections: flat
// text files containing zero or more <DOC>...</DOC> records, each
// carrying a <DOCNO> identifier and a <TEXT> body. Collections are
// Latin-1 encoded, matching the TREC disk distributions this format
// originates from.
package docreader

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Document is a single parsed record: its collection-assigned
// identifier and the raw (still-tagged) text of its <TEXT> element.
type Document struct {
	ID   string
	Text string
}

var (
	docPattern   = regexp.MustCompile(`(?s)<DOC>(.*?)</DOC>`)
	docnoPattern = regexp.MustCompile(`(?s)<DOCNO>(.*?)</DOCNO>`)
	textPattern  = regexp.MustCompile(`(?s)<TEXT>(.*?)</TEXT>`)
)

// ReadFile loads every document with a <TEXT> element out of the SGML
// file at path. The file is decoded as Latin-1 (ISO-8859-1) before
// parsing, matching the encoding of the TREC disk collections.
// Documents lacking a <TEXT> element are skipped, mirroring the
// original collection reader. If any record lacks a <DOCNO>, the whole
// file is dropped: a warning is logged and no documents are returned.
func ReadFile(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("docreader: open %s: %w", path, err)
	}
	defer f.Close()

	raw, err := io.ReadAll(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("docreader: decode %s: %w", path, err)
	}

	content := string(raw)
	for _, m := range docPattern.FindAllStringSubmatch(content, -1) {
		if !docnoPattern.MatchString(m[1]) {
			slog.Warn("docreader: skipping file with a <DOC> record lacking <DOCNO>", slog.String("path", path))
			return nil, nil
		}
	}

	return parse(content), nil
}

// parse extracts documents from already-decoded SGML content.
func parse(content string) []Document {
	var docs []Document

	for _, m := range docPattern.FindAllStringSubmatch(content, -1) {
		body := m[1]

		textMatch := textPattern.FindStringSubmatch(body)
		if textMatch == nil {
			continue
		}

		docnoMatch := docnoPattern.FindStringSubmatch(body)
		if docnoMatch == nil {
			continue
		}

		docs = append(docs, Document{
			ID:   strings.TrimSpace(docnoMatch[1]),
			Text: strings.TrimSpace(textMatch[1]),
		})
	}

	return docs
}

// ReadFiles loads and concatenates the documents of every file in
// paths, in order. An error reading any single file aborts the whole
// read.
func ReadFiles(paths []string) ([]Document, error) {
	var all []Document
	for _, p := range paths {
		docs, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		all = append(all, docs...)
	}
	return all, nil
}
