package mapreduce

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mdietrichstein/advanced-ir-search-engine/internal/index"
	"github.com/mdietrichstein/advanced-ir-search-engine/internal/normalize"
)

func TestPartitionIndexCoversFullAlphabet(t *testing.T) {
	for c := byte('a'); c <= 'z'; c++ {
		idx := partitionIndex(string(c))
		if idx < 0 || idx >= len(partitions) {
			t.Fatalf("partitionIndex(%q) = %d out of range", string(c), idx)
		}
	}
}

const docA = `<DOC>
<DOCNO> D1 </DOCNO>
<TEXT>the fox jumps over the fox</TEXT>
</DOC>
`

const docB = `<DOC>
<DOCNO> D2 </DOCNO>
<TEXT>a quick fox runs near dogs</TEXT>
</DOC>
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestBuildIndexProducesSortedTermOrder(t *testing.T) {
	dir := t.TempDir()
	p1 := writeFile(t, dir, "a.sgml", docA)
	p2 := writeFile(t, dir, "b.sgml", docB)

	outPath := filepath.Join(dir, "index.txt")
	statsPath := filepath.Join(dir, "stats.json")

	cfg := normalize.DefaultConfig()
	cfg.Stemmer = false
	n := normalize.New(cfg)

	numDocs, err := BuildIndex(context.Background(), []string{p1, p2}, n, outPath, statsPath, Options{TempDir: dir})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if numDocs != 2 {
		t.Fatalf("numDocs = %d, want 2", numDocs)
	}

	r, closeFn, err := index.OpenFile(outPath)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer closeFn()

	var terms []string
	err = r.Each(func(e index.Entry) error {
		terms = append(terms, e.Term)
		return nil
	})
	if err != nil {
		t.Fatalf("Each: %v", err)
	}

	for i := 1; i < len(terms); i++ {
		if terms[i-1] >= terms[i] {
			t.Errorf("terms out of order: %q before %q", terms[i-1], terms[i])
		}
	}

	found := false
	for _, term := range terms {
		if term == "fox" {
			found = true
		}
	}
	if !found {
		t.Error("expected 'fox' in assembled index")
	}
}

func TestBuildIndexFoxTermFrequency(t *testing.T) {
	dir := t.TempDir()
	p1 := writeFile(t, dir, "a.sgml", docA)

	outPath := filepath.Join(dir, "index.txt")
	statsPath := filepath.Join(dir, "stats.json")

	cfg := normalize.DefaultConfig()
	cfg.Stemmer = false
	n := normalize.New(cfg)

	if _, err := BuildIndex(context.Background(), []string{p1}, n, outPath, statsPath, Options{TempDir: dir}); err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}

	e, ok, err := index.Lookup(outPath, "fox")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !ok {
		t.Fatal("expected 'fox' entry")
	}
	if len(e.Postings) != 1 || e.Postings[0].TF != 2 {
		t.Errorf("fox postings = %+v, want single posting with TF=2", e.Postings)
	}
}
