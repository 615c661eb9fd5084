package docreader

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleSGML = `<DOC>
<DOCNO> AP880212-0001 </DOCNO>
<TEXT>
Some caf\xe9 text with <b>markup</b>.
</TEXT>
</DOC>
<DOC>
<DOCNO> AP880212-0002 </DOCNO>
<FOO>no text element</FOO>
</DOC>
<DOC>
<DOCNO> AP880212-0003 </DOCNO>
<TEXT>Second document body.</TEXT>
</DOC>
`

func writeSampleFile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.sgml")
	if err := os.WriteFile(path, []byte(sampleSGML), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestReadFileSkipsDocumentsWithoutText(t *testing.T) {
	path := writeSampleFile(t)

	docs, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if docs[0].ID != "AP880212-0001" {
		t.Errorf("docs[0].ID = %q, want AP880212-0001", docs[0].ID)
	}
	if docs[1].ID != "AP880212-0003" {
		t.Errorf("docs[1].ID = %q, want AP880212-0003", docs[1].ID)
	}
	if docs[1].Text != "Second document body." {
		t.Errorf("docs[1].Text = %q, want %q", docs[1].Text, "Second document body.")
	}
}

func TestReadFileMissingFile(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "does-not-exist.sgml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadFilesConcatenatesInOrder(t *testing.T) {
	a := writeSampleFile(t)
	b := writeSampleFile(t)

	docs, err := ReadFiles([]string{a, b})
	if err != nil {
		t.Fatalf("ReadFiles: %v", err)
	}
	if len(docs) != 4 {
		t.Fatalf("got %d documents, want 4", len(docs))
	}
}

func TestParseRetainsMarkupInText(t *testing.T) {
	docs := parse(`<DOC><DOCNO>D1</DOCNO><TEXT>hello <i>world</i></TEXT></DOC>`)
	if len(docs) != 1 {
		t.Fatalf("got %d documents, want 1", len(docs))
	}
	if docs[0].Text != "hello <i>world</i>" {
		t.Errorf("Text = %q, want markup preserved for the normalize stage to strip", docs[0].Text)
	}
}
