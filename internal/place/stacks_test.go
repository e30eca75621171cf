package place

import (
	"testing"

	"mcugen/internal/model"
)

func TestStacksMixedAutoAndConcrete(t *testing.T) {
	proc := &model.Process{
		Name: "A",
		Data: []*model.MemSegment{{Start: 0x20000400, Size: 0x800, Kind: model.MemData}},
		Threads: []*model.Thread{
			{Name: "Auto1", StackBase: model.Auto, StackSize: 0x200},
			{Name: "Fixed", StackBase: 0x20000500, StackSize: 0x100},
			{Name: "Auto2", StackBase: model.Auto, StackSize: 0x100},
		},
	}
	proj := &model.Project{Procs: []*model.Process{proc}}
	if d := Stacks(proj); d != nil {
		t.Fatalf("Stacks: %v", d)
	}
	// Auto stacks fill downward from the segment top; the designated one
	// is untouched.
	if got := proc.Threads[0].StackBase; got != 0x20000A00 {
		t.Fatalf("first auto stack at %#x, want 0x20000A00", got)
	}
	if got := proc.Threads[1].StackBase; got != 0x20000500 {
		t.Fatalf("designated stack moved to %#x", got)
	}
	if got := proc.Threads[2].StackBase; got != 0x20000900 {
		t.Fatalf("second auto stack at %#x, want 0x20000900", got)
	}
}

func TestStacksOverflowFails(t *testing.T) {
	proc := &model.Process{
		Name:    "A",
		Data:    []*model.MemSegment{{Start: 0x20000000, Size: 0x200, Kind: model.MemData}},
		Threads: []*model.Thread{{Name: "Big", StackBase: model.Auto, StackSize: 0x400}},
	}
	proj := &model.Project{Procs: []*model.Process{proc}}
	if d := Stacks(proj); d == nil {
		t.Fatalf("oversized stack must fail")
	}
}
