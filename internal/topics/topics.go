// Package topics parses TREC topic files: repeated <top>...</top>
// blocks, each describing one information need with a <num>, a
// <title>, a <desc> and a <narr> field.
package topics

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMissingNum is returned for a <top> block with no <num> tag.
var ErrMissingNum = errors.New("topics: block missing <num>")

// Topic is a single parsed information need.
type Topic struct {
	ID          string
	Title       string
	Description string
	Narrative   string
}

// QueryText returns the text used for scoring: the title and
// description concatenated, per the topic-file contract (the
// narrative is descriptive only and is not scored).
func (t Topic) QueryText() string {
	return strings.TrimSpace(t.Title + " " + t.Description)
}

var tagPrefixes = []string{"<num>", "<title>", "<desc>", "<narr>"}

func recognizedTag(line string) (tag string, rest string, ok bool) {
	trimmed := strings.TrimSpace(line)
	for _, prefix := range tagPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return prefix, strings.TrimSpace(trimmed[len(prefix):]), true
		}
	}
	return "", "", false
}

// ReadFile parses the topic file at path.
func ReadFile(path string) ([]Topic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("topics: open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse parses topic blocks from r.
func Parse(r io.Reader) ([]Topic, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	var topics []Topic
	var current *Topic
	var activeTag string

	flush := func() error {
		if current == nil {
			return nil
		}
		if current.ID == "" {
			return fmt.Errorf("%w: %v", ErrMissingNum, *current)
		}
		current.Title = strings.TrimSpace(current.Title)
		current.Description = strings.TrimSpace(current.Description)
		current.Narrative = strings.TrimSpace(current.Narrative)
		topics = append(topics, *current)
		current = nil
		return nil
	}

	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "<top>"):
			if err := flush(); err != nil {
				return nil, err
			}
			current = &Topic{}
			activeTag = ""
			continue
		case strings.HasPrefix(trimmed, "</top>"):
			if err := flush(); err != nil {
				return nil, err
			}
			activeTag = ""
			continue
		}

		if current == nil {
			continue
		}

		if tag, rest, ok := recognizedTag(line); ok {
			activeTag = tag
			switch tag {
			case "<num>":
				current.ID = extractNumber(rest)
			case "<title>":
				current.Title = rest
			case "<desc>":
				current.Description = rest
			case "<narr>":
				current.Narrative = rest
			}
			continue
		}

		switch activeTag {
		case "<title>":
			current.Title += " " + trimmed
		case "<desc>":
			current.Description += " " + trimmed
		case "<narr>":
			current.Narrative += " " + trimmed
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("topics: scan: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return topics, nil
}

// extractNumber strips a "Number: " label if present, e.g. turning
// "Number: 051" into "051".
func extractNumber(s string) string {
	if idx := strings.Index(s, ":"); idx != -1 {
		return strings.TrimSpace(s[idx+1:])
	}
	return strings.TrimSpace(s)
}
