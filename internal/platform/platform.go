// Package platform isolates the architecture-specific halves of the
// generator behind a small backend interface. Adding another architecture
// (RISC-V, MIPS, Tricore) means implementing Backend in a sibling package
// and registering it; nothing else in the pipeline changes.
package platform

import (
	"sort"
	"strings"

	"mcugen/internal/diag"
	"mcugen/internal/model"
	"mcugen/internal/pgtbl"
)

// Backend is the per-architecture contract: a segment alignment rule and
// a page table synthesizer, plus the constants the emitters need.
type Backend interface {
	// Name is the platform tag matched against the project XML.
	Name() string
	// WordBits is the machine word width of the target.
	WordBits() uint
	// VectorCapBase is where the kernel's own vector capability pool
	// starts; the boot script only delegates from there.
	VectorCapBase() uint64
	// AlignSegment applies the architecture alignment rule to one
	// process-declared segment.
	AlignSegment(seg *model.MemSegment) *diag.Diagnostic
	// PageTable covers the process's placed segments with a region tree.
	PageTable(proc *model.Process) (*pgtbl.Node, *diag.Diagnostic)
}

var registry = map[string]Backend{}

// Register installs a backend under its lower-cased name.
func Register(b Backend) {
	registry[strings.ToLower(b.Name())] = b
}

// Lookup resolves the project's platform tag.
func Lookup(name string) (Backend, *diag.Diagnostic) {
	if b, ok := registry[strings.ToLower(name)]; ok {
		return b, nil
	}
	return nil, diag.Errorf(diag.SemPlatformMismatch, "Project.Platform",
		"platform %q is not supported (have: %s)", name, strings.Join(names(), ", "))
}

func names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
