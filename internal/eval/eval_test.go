package eval

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mdietrichstein/advanced-ir-search-engine/internal/docstats"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/index"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/normalize"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/scoring"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/topics"
)

func writeTestIndex(t *testing.T) (string, *docstats.Stats) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "index.txt")

	w, closeFn, err := index.CreateFile(path, 2)
	if err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	entries := []index.Entry{
		{Term: "dog", DF: 1, Postings: []index.Posting{{DocID: "D2", TF: 1}}},
		{Term: "fox", DF: 2, Postings: []index.Posting{{DocID: "D1", TF: 2}, {DocID: "D2", TF: 1}}},
	}
	for _, e := range entries {
		if err := w.WriteEntry(e); err != nil {
			t.Fatalf("WriteEntry: %v", err)
		}
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	stats := docstats.New()
	stats.Observe("D1", 1, 2)
	stats.Observe("D2", 2, 2)

	return path, stats
}

func TestRunProducesOneLineBlockPerTopic(t *testing.T) {
	indexPath, stats := writeTestIndex(t)
	cfg := normalize.DefaultConfig()
	cfg.Stemmer = false
	normalizer := normalize.New(cfg)

	topicList := []topics.Topic{
		{ID: "001", Title: "fox", Description: ""},
		{ID: "002", Title: "dog", Description: ""},
	}

	var buf strings.Builder
	err := Run(&buf, indexPath, stats, normalizer, scoring.TFIDF{}, topicList, "myrun", 10)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) == 0 {
		t.Fatal("expected at least one run line")
	}

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 6 {
			t.Fatalf("malformed run line %q: %d fields", line, len(fields))
		}
		if fields[1] != "Q0" {
			t.Errorf("field 2 = %q, want Q0", fields[1])
		}
		if fields[5] != "myrun" {
			t.Errorf("run name = %q, want myrun", fields[5])
		}
	}

	if !strings.HasPrefix(lines[0], "001 ") {
		t.Errorf("first line topic = %q, want prefix '001 '", lines[0])
	}
	if last := lines[len(lines)-1]; !strings.HasPrefix(last, "002 ") {
		t.Errorf("last line topic = %q, want prefix '002 '", last)
	}
}

func TestRunRespectsTopK(t *testing.T) {
	indexPath, stats := writeTestIndex(t)
	cfg := normalize.DefaultConfig()
	cfg.Stemmer = false
	normalizer := normalize.New(cfg)

	topicList := []topics.Topic{{ID: "001", Title: "fox dog", Description: ""}}

	var buf strings.Builder
	if err := Run(&buf, indexPath, stats, normalizer, scoring.TFIDF{}, topicList, "myrun", 1); err != nil {
		t.Fatalf("Run: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 (topK=1)", len(lines))
	}
}

func TestRunToFileWritesFile(t *testing.T) {
	indexPath, stats := writeTestIndex(t)
	cfg := normalize.DefaultConfig()
	cfg.Stemmer = false
	normalizer := normalize.New(cfg)

	outPath := filepath.Join(t.TempDir(), "run.txt")
	topicList := []topics.Topic{{ID: "001", Title: "fox", Description: ""}}

	if err := RunToFile(outPath, indexPath, stats, normalizer, scoring.TFIDF{}, topicList, "myrun", 5); err != nil {
		t.Fatalf("RunToFile: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty run file")
	}
}
