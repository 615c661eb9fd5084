package normalize

import (
	"reflect"
	"testing"
)

func TestNormalizeDefaultPipeline(t *testing.T) {
	n := New(DefaultConfig())

	got := n.Normalize("Gorbachev's policy of glasnost")
	want := []string{"gorbachev", "polici", "glasnost"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %v, want %v", got, want)
	}
}

func TestNormalizeStripsTagsAndEntities(t *testing.T) {
	n := New(DefaultConfig())

	got := n.Normalize("<b>hello</b> &amp; [noise] world")
	want := []string{"hello", "world"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %v, want %v", got, want)
	}
}

func TestNormalizeMinLengthDropsShortTerms(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RemoveStopWords = false
	cfg.Stemmer = false
	n := New(cfg)

	got := n.Normalize("a an ox cat")
	want := []string{"an", "ox", "cat"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %v, want %v", got, want)
	}
}

func TestNormalizeDisabledStagesPreserveOrder(t *testing.T) {
	cfg := Config{
		CaseFolding:     false,
		RemoveStopWords: false,
		Stemmer:         false,
		Lemmatiser:      false,
		MinLength:       0,
	}
	n := New(cfg)

	got := n.Normalize("The Quick Fox")
	want := []string{"The", "Quick", "Fox"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %v, want %v", got, want)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := New(DefaultConfig())

	words := []string{"Running", "Databases", "glasnost", "THE", "a"}
	for _, w := range words {
		once := n.NormalizeOne(w)
		twice := n.NormalizeOne(once)
		if once != twice {
			t.Errorf("preprocess not idempotent for %q: once=%q twice=%q", w, once, twice)
		}
	}
}

func TestLemmatiserRunsAfterStemmerWhenBothEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lemmatiser = true
	n := New(cfg)

	// Should not panic and should produce non-empty terms for ordinary input.
	got := n.Normalize("databases are running")
	if len(got) == 0 {
		t.Fatalf("expected non-empty normalized output")
	}

	// Stemming first turns "running" into "run"; lemmatising first would
	// give "runn", which the stemmer leaves unchanged.
	if last := got[len(got)-1]; last != "run" {
		t.Errorf("last term = %q, want %q (stemmer before lemmatiser)", last, "run")
	}
}
