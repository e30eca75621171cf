package xmltree

import "testing"

func TestParseTree(t *testing.T) {
	data := []byte(`<Project><Name>Test</Name><Memory><Start>0x0</Start></Memory><Memory><Start>0x100</Start></Memory></Project>`)
	root, err := Parse(data, "Project")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := root.Child("Name").Text; got != "Test" {
		t.Fatalf("Name = %q", got)
	}
	var mems int
	for _, c := range root.Children {
		if c.Tag == "Memory" {
			mems++
		}
	}
	if mems != 2 {
		t.Fatalf("expected 2 Memory children, got %d", mems)
	}
}

func TestParseWrongRoot(t *testing.T) {
	if _, err := Parse([]byte(`<Chip></Chip>`), "Project"); err == nil {
		t.Fatalf("expected root mismatch error")
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse([]byte(`<Project><Name>`), "Project"); err == nil {
		t.Fatalf("expected malformed document error")
	}
}

func TestTextTrimmed(t *testing.T) {
	root, err := Parse([]byte("<Project><Name>\n  Spaced  \n</Name></Project>"), "Project")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := root.Child("Name").Text; got != "Spaced" {
		t.Fatalf("text not trimmed: %q", got)
	}
}
