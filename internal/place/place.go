// Package place assigns concrete addresses to every process memory
// segment. Fixed addresses are honoured first (RME, then RVM directly
// after it, then user-designated trunks); whatever declared Auto is then
// fitted smallest-first into the remaining holes, so larger contiguous
// holes survive for the more constrained allocations that come later.
package place

import (
	"sort"

	"mcugen/internal/diag"
	"mcugen/internal/model"
)

// arena is the occupancy view over the chip's segments of one kind,
// sorted ascending by start address.
type arena struct {
	segs []*model.MemSegment
	bits []bitmap
}

func newArena(segs []*model.MemSegment) *arena {
	sorted := make([]*model.MemSegment, len(segs))
	copy(sorted, segs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	a := &arena{segs: sorted, bits: make([]bitmap, len(sorted))}
	for i, seg := range sorted {
		a.bits[i] = newBitmap(seg.Size)
	}
	return a
}

// populate marks [start, start+size) inside whichever chip segment
// contains it. The range must lie fully inside one chip segment and must
// not overlap anything already marked.
func (a *arena) populate(start, size uint64) bool {
	for i, seg := range a.segs {
		if start < seg.Start || start > seg.End()-1 {
			continue
		}
		if start+size > seg.End() {
			return false
		}
		rel := (start - seg.Start) / 4
		if !a.bits[i].clear(rel, size/4) {
			return false
		}
		a.bits[i].mark(rel, size/4)
		return true
	}
	return false
}

// fit finds the lowest aligned hole for an auto segment, marks it and
// records the address.
func (a *arena) fit(mem *model.MemSegment) bool {
	for i, seg := range a.segs {
		if mem.Size > seg.Size {
			continue
		}
		start := (seg.Start + mem.Align - 1) / mem.Align * mem.Align
		for try := start; try+mem.Size <= seg.End(); try += mem.Align {
			rel := (try - seg.Start) / 4
			if a.bits[i].clear(rel, mem.Size/4) {
				a.bits[i].mark(rel, mem.Size/4)
				mem.Start = try
				return true
			}
		}
	}
	return false
}

// Fill places all project segments of one memory kind.
func Fill(proj *model.Project, chip *model.Chip, kind model.MemKind) *diag.Diagnostic {
	a := newArena(chip.Mem(kind))

	// RME's section first, RVM's immediately after it.
	var rmeStart, rmeSize, rvmSize uint64
	switch kind {
	case model.MemCode:
		rmeStart, rmeSize, rvmSize = proj.RME.CodeStart, proj.RME.CodeSize, proj.RVM.CodeSize
	case model.MemData:
		rmeStart, rmeSize, rvmSize = proj.RME.DataStart, proj.RME.DataSize, proj.RVM.DataSize
	}
	if !a.populate(rmeStart, rmeSize) {
		return diag.Errorf(diag.PlaceBadAddress, "Project.RME", "invalid %s address designated", kind)
	}
	if !a.populate(rmeStart+rmeSize, rvmSize) {
		return diag.Errorf(diag.PlaceBadAddress, "Project.RVM", "invalid %s address designated", kind)
	}

	// User-designated trunks next; overlap or out-of-range is fatal.
	var auto []*model.MemSegment
	for _, proc := range proj.Procs {
		for _, mem := range segsOf(proc, kind) {
			if mem.Start == model.Auto {
				auto = append(auto, mem)
				continue
			}
			if !a.populate(mem.Start, mem.Size) {
				return diag.Errorf(diag.PlaceBadAddress, "Project.Process."+proc.Name+".Memory",
					"invalid address designated for %s", mem)
			}
		}
	}

	// Auto trunks smallest-first; ties keep declaration order.
	sort.SliceStable(auto, func(i, j int) bool { return auto[i].Size < auto[j].Size })
	for _, mem := range auto {
		if !a.fit(mem) {
			return diag.Errorf(diag.PlaceNoFit, "Project",
				"no %s memory fits %s", kind, mem)
		}
	}
	return nil
}

func segsOf(proc *model.Process, kind model.MemKind) []*model.MemSegment {
	switch kind {
	case model.MemCode:
		return proc.Code
	case model.MemData:
		return proc.Data
	default:
		return proc.Device
	}
}
