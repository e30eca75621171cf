package place

import (
	"mcugen/internal/diag"
	"mcugen/internal/model"
)

// AlignFunc is the architecture-specific segment alignment rule, injected
// by the backend. It must either reject the segment or fill in Align (and,
// for Auto segments, the rounded Size).
type AlignFunc func(seg *model.MemSegment) *diag.Diagnostic

// Align applies the architecture rule to every process-declared segment.
// Chip segments are the arena, not the contents, and are left untouched.
func Align(proj *model.Project, fn AlignFunc) *diag.Diagnostic {
	for _, proc := range proj.Procs {
		for _, seg := range proc.Segments() {
			if d := fn(seg); d != nil {
				d.Path = "Project.Process." + proc.Name + ".Memory"
				return d
			}
		}
	}
	return nil
}
