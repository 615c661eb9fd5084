package spimi

import (
	"path/filepath"
	"testing"

	"github.com/mdietrichstein/advanced-ir-search-engine/internal/docreader"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/index"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/normalize"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/tokenstream"
)

func sampleDocs() []docreader.Document {
	return []docreader.Document{
		{ID: "D1", Text: "the fox jumps over the fox"},
		{ID: "D2", Text: "a quick fox runs"},
		{ID: "D3", Text: "dogs and foxes"},
	}
}

func buildSampleIndex(t *testing.T, maxTokensPerBlock int) (string, string, int) {
	t.Helper()
	dir := t.TempDir()
	outPath := filepath.Join(dir, "index.txt")
	statsPath := filepath.Join(dir, "stats.json")

	cfg := normalize.DefaultConfig()
	cfg.Stemmer = false
	n := normalize.New(cfg)
	stream := tokenstream.New(sampleDocs(), n)

	numDocs, err := BuildIndex(stream, outPath, statsPath, Options{MaxTokensPerBlock: maxTokensPerBlock, TempDir: dir})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	return outPath, statsPath, numDocs
}

func TestBuildIndexSingleBlock(t *testing.T) {
	outPath, _, numDocs := buildSampleIndex(t, 1_000_000)

	if numDocs != 3 {
		t.Fatalf("numDocs = %d, want 3", numDocs)
	}

	_, entries, err := index.LoadAll(outPath)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	fox, ok := entries["fox"]
	if !ok {
		t.Fatal("expected entry for 'fox'")
	}
	if fox.DF != 2 {
		t.Errorf("fox.DF = %d, want 2 (appears in D1 and D2)", fox.DF)
	}

	var d1TF int
	for _, p := range fox.Postings {
		if p.DocID == "D1" {
			d1TF = p.TF
		}
	}
	if d1TF != 2 {
		t.Errorf("fox TF in D1 = %d, want 2", d1TF)
	}
}

func TestBuildIndexMultipleBlocksMatchesSingleBlock(t *testing.T) {
	singlePath, _, _ := buildSampleIndex(t, 1_000_000)
	multiPath, _, _ := buildSampleIndex(t, 2)

	_, singleEntries, err := index.LoadAll(singlePath)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	_, multiEntries, err := index.LoadAll(multiPath)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	if len(singleEntries) != len(multiEntries) {
		t.Fatalf("entry count mismatch: single=%d multi=%d", len(singleEntries), len(multiEntries))
	}

	for term, single := range singleEntries {
		multi, ok := multiEntries[term]
		if !ok {
			t.Fatalf("term %q missing from multi-block index", term)
		}
		if single.DF != multi.DF {
			t.Errorf("term %q: DF mismatch single=%d multi=%d", term, single.DF, multi.DF)
		}
	}
}
