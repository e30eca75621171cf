package pgtbl

import (
	"testing"

	"mcugen/internal/model"
)

const (
	rx  = model.MemRead | model.MemExecute
	rw  = model.MemRead | model.MemWrite
	rws = model.MemRead | model.MemWrite | model.MemStatic
)

// covered walks the tree and reports the attribute the tree grants at
// every byte of [start, start+size), or false if any byte is unmapped or
// mapped with a different attribute.
func covered(n *Node, start, size uint64, want model.MemAttr) bool {
	for addr := start; addr < start+size; addr += 4 {
		if !grants(n, addr, want) {
			return false
		}
	}
	return true
}

func grants(n *Node, addr uint64, want model.MemAttr) bool {
	if n == nil || addr < n.Base || addr >= n.Base+1<<n.TotalOrder() {
		return false
	}
	idx := (addr - n.Base) >> n.SizeOrder
	sub := n.Subs[idx]
	if sub.Mapped && sub.Attr == want {
		return true
	}
	return grants(sub.Child, addr, want)
}

func TestDirectMap(t *testing.T) {
	// One 4 KiB trunk, self-aligned: one region, eight subregions, all of
	// one attribute.
	node, d := Synthesize([]Seg{{Start: 0x08010000, Size: 0x1000, Attr: rx}}, 32)
	if d != nil {
		t.Fatalf("Synthesize: %v", d)
	}
	if node.NumOrder != 3 || node.TotalOrder() != 12 {
		t.Fatalf("expected direct 4KiB map, got size=%d num=%d", node.SizeOrder, node.NumOrder)
	}
	if !covered(node, 0x08010000, 0x1000, rx) {
		t.Fatalf("trunk not fully covered")
	}
}

func TestStraddlePicksCoarserSplit(t *testing.T) {
	// Two 1 KiB trunks of differing attributes at 0x08010000 and
	// 0x08010C00: the 512-byte split would straddle, so the synthesizer
	// must settle on four 1 KiB subregions.
	segs := []Seg{
		{Start: 0x08010000, Size: 0x400, Attr: rx},
		{Start: 0x08010C00, Size: 0x400, Attr: rw},
	}
	node, d := Synthesize(segs, 32)
	if d != nil {
		t.Fatalf("Synthesize: %v", d)
	}
	if node.NumOrder != 2 {
		t.Fatalf("num_order = %d, want 2", node.NumOrder)
	}
	if node.SizeOrder != 10 {
		t.Fatalf("size_order = %d, want 10", node.SizeOrder)
	}
	if !covered(node, 0x08010000, 0x400, rx) || !covered(node, 0x08010C00, 0x400, rw) {
		t.Fatalf("trunks not covered with their own attributes")
	}
	if node.Subs[1].Mapped || node.Subs[2].Mapped {
		t.Fatalf("uncovered subregions must stay disabled")
	}
}

func TestRecursionOnPartialCover(t *testing.T) {
	// A trunk that covers only part of one subregion forces a child table.
	segs := []Seg{
		{Start: 0x20000000, Size: 0x1000, Attr: rws},
		{Start: 0x20001100, Size: 0x100, Attr: rw},
	}
	node, d := Synthesize(segs, 32)
	if d != nil {
		t.Fatalf("Synthesize: %v", d)
	}
	if !covered(node, 0x20000000, 0x1000, rws) {
		t.Fatalf("large trunk not covered")
	}
	if !covered(node, 0x20001100, 0x100, rw) {
		t.Fatalf("small trunk not covered")
	}
	if node.Tables() < 2 {
		t.Fatalf("expected a child table, got %d", node.Tables())
	}
}

func TestBoxCapRespected(t *testing.T) {
	// Trunks 2 GiB apart need a 2^32 box, above the 2^31 cap.
	segs := []Seg{
		{Start: 0x08000000, Size: 0x1000, Attr: rx},
		{Start: 0x88000000, Size: 0x1000, Attr: rx},
	}
	if _, d := Synthesize(segs, 31); d == nil {
		t.Fatalf("expected box-too-large failure")
	}
}

func TestFirstWinsAttribute(t *testing.T) {
	// Two trunks cover the same subregion with different attributes: the
	// first declared wins the mapping, the second is pushed down into a
	// child table of the same slot.
	segs := []Seg{
		{Start: 0x20000000, Size: 0x400, Attr: rws},
		{Start: 0x20000000, Size: 0x400, Attr: rw},
	}
	node, d := Synthesize(segs, 32)
	if d != nil {
		// Giving up is the documented outcome for unsplittable conflicts.
		return
	}
	if !covered(node, 0x20000000, 0x400, rws) {
		t.Fatalf("first-declared attribute must win the mapping")
	}
}

func TestMinimumRegionOrder(t *testing.T) {
	// Even a tiny trunk gets at least a 2^8 box.
	node, d := Synthesize([]Seg{{Start: 0x20000000, Size: 0x20, Attr: rw}}, 32)
	if d != nil {
		t.Fatalf("Synthesize: %v", d)
	}
	if node.TotalOrder() < 8 {
		t.Fatalf("total order %d below the MPU minimum", node.TotalOrder())
	}
	if !covered(node, 0x20000000, 0x20, rw) {
		t.Fatalf("trunk not covered")
	}
}
