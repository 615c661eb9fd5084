package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	want := Default()
	if cfg != want {
		t.Errorf("LoadFrom on missing file = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadFromOverridesOnlySpecifiedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := "k1: 2.0\nnormalizer:\n  stemmer: false\n"
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.K1 != 2.0 {
		t.Errorf("K1 = %v, want 2.0", cfg.K1)
	}
	if cfg.Normalizer.Stemmer {
		t.Error("Normalizer.Stemmer should be overridden to false")
	}
	if cfg.B != Default().B {
		t.Errorf("B = %v, want unchanged default %v", cfg.B, Default().B)
	}
	if !cfg.Normalizer.CaseFolding {
		t.Error("Normalizer.CaseFolding should retain default true")
	}
}

func TestDefaultPathUsesHomeDir(t *testing.T) {
	path := DefaultPath()
	if path == "" {
		t.Fatal("DefaultPath() returned empty string")
	}
	if home, err := os.UserHomeDir(); err == nil {
		if want := filepath.Join(home, ".trecsearch", "config.yaml"); path != want {
			t.Errorf("DefaultPath() = %q, want %q", path, want)
		}
	}
}
