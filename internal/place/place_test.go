package place

import (
	"testing"

	"mcugen/internal/model"
)

func projWith(kindSegs ...*model.MemSegment) (*model.Project, *model.Chip) {
	proc := &model.Process{Name: "A"}
	for _, seg := range kindSegs {
		switch seg.Kind {
		case model.MemCode:
			proc.Code = append(proc.Code, seg)
		case model.MemData:
			proc.Data = append(proc.Data, seg)
		}
	}
	proj := &model.Project{
		RME: model.RMEConfig{
			CodeStart: 0x08000000, CodeSize: 0x8000,
			DataStart: 0x20000000, DataSize: 0x200,
		},
		RVM:   model.RVMConfig{CodeSize: 0x8000, DataSize: 0x200},
		Procs: []*model.Process{proc},
	}
	chip := &model.Chip{
		Code: []*model.MemSegment{{Start: 0x08000000, Size: 0x20000, Kind: model.MemCode}},
		Data: []*model.MemSegment{{Start: 0x20000000, Size: 0x8000, Kind: model.MemData}},
	}
	return proj, chip
}

func TestFitAfterKernelSections(t *testing.T) {
	code := &model.MemSegment{Start: model.Auto, Size: 0x1000, Kind: model.MemCode, Align: 0x200}
	proj, chip := projWith(code)
	if d := Fill(proj, chip, model.MemCode); d != nil {
		t.Fatalf("Fill: %v", d)
	}
	if code.Start != 0x08010000 {
		t.Fatalf("auto code placed at %#x, want 0x08010000", code.Start)
	}
	if code.Start%code.Align != 0 {
		t.Fatalf("placement not aligned")
	}
}

func TestDataAfterKernelAreas(t *testing.T) {
	data := &model.MemSegment{Start: model.Auto, Size: 0x400, Kind: model.MemData, Align: 0x80}
	proj, chip := projWith(data)
	if d := Fill(proj, chip, model.MemData); d != nil {
		t.Fatalf("Fill: %v", d)
	}
	if data.Start != 0x20000400 {
		t.Fatalf("auto data placed at %#x, want 0x20000400", data.Start)
	}
}

func TestSmallestFirstOrdering(t *testing.T) {
	big := &model.MemSegment{Start: model.Auto, Size: 0x4000, Kind: model.MemCode, Align: 0x800}
	small := &model.MemSegment{Start: model.Auto, Size: 0x800, Kind: model.MemCode, Align: 0x100}
	proj, chip := projWith(big, small)
	if d := Fill(proj, chip, model.MemCode); d != nil {
		t.Fatalf("Fill: %v", d)
	}
	// The small segment is fitted first and takes the lowest hole.
	if small.Start >= big.Start {
		t.Fatalf("small=%#x big=%#x: smallest-first violated", small.Start, big.Start)
	}
}

func TestFixedOverlapFails(t *testing.T) {
	fixed := &model.MemSegment{Start: 0x08004000, Size: 0x1000, Kind: model.MemCode, Align: 0x20}
	proj, chip := projWith(fixed)
	// 0x08004000 lies inside RME's code section.
	if d := Fill(proj, chip, model.MemCode); d == nil {
		t.Fatalf("overlap with RME section must fail")
	}
}

func TestNoFit(t *testing.T) {
	// Chip data leaves 0x8000-0x400 of holes; ask for more than remains.
	big := &model.MemSegment{Start: model.Auto, Size: 0x10000, Kind: model.MemData, Align: 0x1000}
	proj, chip := projWith(big)
	if d := Fill(proj, chip, model.MemData); d == nil {
		t.Fatalf("oversized auto segment must fail placement")
	}
}

func TestExactFill(t *testing.T) {
	// An auto segment whose size equals the whole remaining chip segment.
	chipExtra := &model.MemSegment{Start: 0x08100000, Size: 0x8000, Kind: model.MemCode}
	seg := &model.MemSegment{Start: model.Auto, Size: 0x8000, Kind: model.MemCode, Align: 0x1000}
	proj, chip := projWith(seg)
	chip.Code = append(chip.Code, chipExtra)
	// Fill the first chip segment completely with a fixed trunk.
	fixed := &model.MemSegment{Start: 0x08010000, Size: 0x10000, Kind: model.MemCode, Align: 0x20}
	proj.Procs[0].Code = append(proj.Procs[0].Code, fixed)
	if d := Fill(proj, chip, model.MemCode); d != nil {
		t.Fatalf("Fill: %v", d)
	}
	if seg.Start != 0x08100000 {
		t.Fatalf("exact-fill segment placed at %#x", seg.Start)
	}
}

func TestDisjointAfterPlacement(t *testing.T) {
	segs := []*model.MemSegment{
		{Start: model.Auto, Size: 0x1000, Kind: model.MemCode, Align: 0x200},
		{Start: model.Auto, Size: 0x1000, Kind: model.MemCode, Align: 0x200},
		{Start: model.Auto, Size: 0x2000, Kind: model.MemCode, Align: 0x400},
	}
	proj, chip := projWith(segs...)
	if d := Fill(proj, chip, model.MemCode); d != nil {
		t.Fatalf("Fill: %v", d)
	}
	for i, a := range segs {
		for _, b := range segs[i+1:] {
			if a.Start < b.End() && b.Start < a.End() {
				t.Fatalf("segments overlap: %s / %s", a, b)
			}
		}
	}
}
