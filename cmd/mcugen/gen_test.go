package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckDir(t *testing.T) {
	base := t.TempDir()
	empty := filepath.Join(base, "empty")
	full := filepath.Join(base, "full")
	if err := os.MkdirAll(empty, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(full, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(full, "x"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if d := checkDir(empty, true); d != nil {
		t.Fatalf("empty dir rejected: %v", d)
	}
	if d := checkDir(full, true); d == nil {
		t.Fatalf("non-empty output dir must be rejected")
	}
	if d := checkDir(full, false); d != nil {
		t.Fatalf("non-empty root rejected: %v", d)
	}
	if d := checkDir(empty, false); d == nil {
		t.Fatalf("empty root must be rejected")
	}
	if d := checkDir(filepath.Join(base, "missing"), true); d == nil {
		t.Fatalf("missing dir must be rejected")
	}
}

func TestCheckArgsMissing(t *testing.T) {
	if d := checkArgs("", "o", "k", "u", "keil"); d == nil {
		t.Fatalf("missing input must be rejected")
	}
	if d := checkArgs("i", "o", "k", "u", ""); d == nil {
		t.Fatalf("missing format must be rejected")
	}
}

func TestToolConfigDiscovery(t *testing.T) {
	base := t.TempDir()
	nested := filepath.Join(base, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "[defaults]\nrme = \"/opt/rme\"\nrvm = \"/opt/rvm\"\nformat = \"makefile\"\n"
	if err := os.WriteFile(filepath.Join(base, "mcugen.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, found, err := loadToolConfig(nested)
	if err != nil || !found {
		t.Fatalf("discovery failed: %v %v", found, err)
	}
	if cfg.Defaults.RME != "/opt/rme" || cfg.Defaults.Format != "makefile" {
		t.Fatalf("defaults mismatch: %+v", cfg.Defaults)
	}
}

func TestToolConfigAbsent(t *testing.T) {
	// An isolated directory tree has no mcugen.toml below the root; the
	// walk may still find one above the temp dir, so only check the error.
	if _, _, err := loadToolConfig(t.TempDir()); err != nil {
		t.Fatalf("absent config must not be an error: %v", err)
	}
}
