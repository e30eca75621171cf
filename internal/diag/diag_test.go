package diag

import (
	"strings"
	"testing"
)

func TestCodeID(t *testing.T) {
	cases := []struct {
		code Code
		want string
	}{
		{CmdUsage, "CMD1001"},
		{XMLSectionMissing, "XML2003"},
		{SemDanglingPort, "SEM3010"},
		{PlaceNoFit, "MEM4003"},
		{EmitSourceMissing, "OUT5001"},
	}
	for _, tc := range cases {
		if got := tc.code.ID(); got != tc.want {
			t.Fatalf("ID(%d) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestDiagnosticError(t *testing.T) {
	d := SectionMissing("Project.RME.General.Code_Size")
	msg := d.Error()
	if !strings.Contains(msg, "Project.RME.General.Code_Size") || !strings.Contains(msg, "section missing") {
		t.Fatalf("Error() = %q", msg)
	}
	if d.Severity != SevError {
		t.Fatalf("severity = %v", d.Severity)
	}
}

func TestValueMalformed(t *testing.T) {
	d := ValueMalformed("Chip.Cores", "a valid unsigned integer")
	if d.Code != XMLValueMalformed {
		t.Fatalf("code = %v", d.Code)
	}
	if !strings.Contains(d.Message, "is not a valid unsigned integer") {
		t.Fatalf("message = %q", d.Message)
	}
}

func TestRenderPlain(t *testing.T) {
	var b strings.Builder
	Render(&b, Errorf(SemDupProcess, "Project.Process.A", "process name %q duplicated", "A"), false)
	out := b.String()
	for _, want := range []string{"ERROR", "SEM3002", "Project.Process.A", "duplicated"} {
		if !strings.Contains(out, want) {
			t.Fatalf("render misses %q: %q", want, out)
		}
	}
}
