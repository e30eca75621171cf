// Package pgtbl synthesizes the per-process MPU region tree. The ARMv7-M
// MPU only accepts power-of-two regions aligned to their own size, split
// into up to eight equal subregions that can be disabled individually; the
// synthesizer covers an arbitrary set of placed segments with a tree of
// such regions, recursing wherever a subregion cannot be mapped whole.
package pgtbl

import (
	"mcugen/internal/diag"
	"mcugen/internal/model"
)

// Seg is one placed memory range to cover. Placement has already made
// every Start concrete.
type Seg struct {
	Start uint64
	Size  uint64
	Attr  model.MemAttr
}

func (s Seg) end() uint64 { return s.Start + s.Size }

// Sub is one subregion slot of a node. A slot is disabled, mapped with a
// single attribute set, or refined by a child table. A mapped slot may
// still carry a child when differently-attributed trunks overlap the
// first-adopted mapping; the child holds only the leftovers.
type Sub struct {
	Mapped bool
	Attr   model.MemAttr
	Child  *Node
}

// Node is one page table: 2^NumOrder subregions of 2^SizeOrder bytes each,
// based at Base (aligned to the total size).
type Node struct {
	Base      uint64
	SizeOrder uint
	NumOrder  uint
	Subs      []Sub
}

// TotalOrder is log2 of the bytes the node spans.
func (n *Node) TotalOrder() uint { return n.SizeOrder + n.NumOrder }

// Tables counts the page table objects in the tree, this node included.
func (n *Node) Tables() uint64 {
	var count uint64 = 1
	for _, sub := range n.Subs {
		if sub.Child != nil {
			count += sub.Child.Tables()
		}
	}
	return count
}

// Synthesize covers segs with a region tree whose top spans at most
// 2^maxTotalOrder bytes. The input must be non-empty.
func Synthesize(segs []Seg, maxTotalOrder uint) (*Node, *diag.Diagnostic) {
	if len(segs) == 0 {
		return nil, diag.Errorf(diag.PlaceBoxTooLarge, "", "no segments to map")
	}

	// Tight bounding box, then the smallest self-aligned power-of-two box
	// containing it. MPU regions cannot go below 2^8 with subregions.
	lo, hi := segs[0].Start, segs[0].end()
	for _, s := range segs[1:] {
		if s.Start < lo {
			lo = s.Start
		}
		if s.end() > hi {
			hi = s.end()
		}
	}
	total := uint(8)
	for {
		if total > maxTotalOrder {
			return nil, diag.Errorf(diag.PlaceBoxTooLarge, "",
				"region [0x%X,0x%X) needs order %d, cap is %d", lo, hi, total, maxTotalOrder)
		}
		if hi <= lo>>total<<total+1<<total {
			break
		}
		total++
	}
	base := lo >> total << total

	// Directly mappable: one shared attribute and every trunk cut on
	// eighth-of-region boundaries.
	if directlyMappable(segs, total) {
		return mapDirect(segs, base, total), nil
	}

	// Prefer the coarsest split under which no trunk straddles a subregion
	// boundary; fall back to halves to guarantee progress.
	num := uint(1)
	for cand := uint(3); cand >= 1; cand-- {
		if !anyStraddle(segs, base, total-cand) {
			num = cand
			break
		}
	}

	size := total - num
	node := &Node{Base: base, SizeOrder: size, NumOrder: num, Subs: make([]Sub, 1<<num)}
	for i := range node.Subs {
		subLo := base + uint64(i)<<size
		subHi := subLo + 1<<size
		var inter []Seg
		for _, s := range segs {
			if s.Start < subHi && subLo < s.end() {
				inter = append(inter, s)
			}
		}
		if len(inter) == 0 {
			continue
		}
		if d := fillSub(&node.Subs[i], inter, subLo, subHi, size); d != nil {
			return nil, d
		}
	}
	return node, nil
}

// fillSub maps one subregion or recurses into a finer table.
func fillSub(sub *Sub, inter []Seg, subLo, subHi uint64, sizeOrder uint) *diag.Diagnostic {
	// First trunk that covers the whole slot wins the mapping.
	var cover *Seg
	for i := range inter {
		if inter[i].Start <= subLo && subHi <= inter[i].end() {
			cover = &inter[i]
			break
		}
	}
	if cover != nil {
		sub.Mapped = true
		sub.Attr = cover.Attr
		// Trunks with a different attribute set cannot share the mapping;
		// push their clipped remains one level down.
		var rest []Seg
		for _, s := range inter {
			if s.Attr != cover.Attr {
				rest = append(rest, clip(s, subLo, subHi))
			}
		}
		if len(rest) == 0 {
			return nil
		}
		child, d := Synthesize(rest, sizeOrder)
		if d != nil {
			return d
		}
		sub.Child = child
		return nil
	}
	clipped := make([]Seg, len(inter))
	for i, s := range inter {
		clipped[i] = clip(s, subLo, subHi)
	}
	child, d := Synthesize(clipped, sizeOrder)
	if d != nil {
		return d
	}
	sub.Child = child
	return nil
}

func clip(s Seg, lo, hi uint64) Seg {
	start := max(s.Start, lo)
	end := min(s.end(), hi)
	return Seg{Start: start, Size: end - start, Attr: s.Attr}
}

func directlyMappable(segs []Seg, total uint) bool {
	sub := uint64(1) << (total - 3)
	attr := segs[0].Attr
	for _, s := range segs {
		if s.Attr != attr || s.Start%sub != 0 || s.Size%sub != 0 {
			return false
		}
	}
	return true
}

func mapDirect(segs []Seg, base uint64, total uint) *Node {
	node := &Node{Base: base, SizeOrder: total - 3, NumOrder: 3, Subs: make([]Sub, 8)}
	for i := range node.Subs {
		subLo := base + uint64(i)<<(total-3)
		subHi := subLo + 1<<(total-3)
		for _, s := range segs {
			if s.Start <= subLo && subHi <= s.end() {
				node.Subs[i] = Sub{Mapped: true, Attr: s.Attr}
				break
			}
		}
	}
	return node
}

// anyStraddle reports whether any trunk crosses a boundary of the
// 2^sizeOrder grid strictly inside the trunk.
func anyStraddle(segs []Seg, base uint64, sizeOrder uint) bool {
	step := uint64(1) << sizeOrder
	for _, s := range segs {
		boundary := (s.Start-base)/step*step + base + step
		if boundary < s.end() {
			return true
		}
	}
	return false
}
