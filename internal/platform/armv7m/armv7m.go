// Package armv7m is the ARMv7-M (Cortex-M3/M4/M7) backend. The MPU there
// takes power-of-two regions of at least 32 bytes, aligned to their own
// size, each divisible into eight subregions.
package armv7m

import (
	"mcugen/internal/diag"
	"mcugen/internal/model"
	"mcugen/internal/pgtbl"
	"mcugen/internal/platform"
)

// Backend implements platform.Backend for the A7M platform tag.
type Backend struct{}

func init() {
	platform.Register(Backend{})
}

func (Backend) Name() string { return "A7M" }

func (Backend) WordBits() uint { return 32 }

// The kernel hands vector endpoints out of its own capability space; the
// boot table of user objects starts elsewhere, so the pool base is zero.
func (Backend) VectorCapBase() uint64 { return 0 }

// AlignSegment enforces 32-byte alignment on designated trunks; automatic
// trunks get the subregion granularity of the smallest power-of-two region
// that holds them, and their size is rounded down to that granularity.
func (Backend) AlignSegment(seg *model.MemSegment) *diag.Diagnostic {
	if seg.Start != model.Auto {
		if seg.Start%32 != 0 || seg.Size%32 != 0 {
			return diag.Errorf(diag.PlaceBadAlign, "",
				"segment %s is not 32-byte aligned in start and size", seg)
		}
		seg.Align = 32
		return nil
	}
	pow := uint64(32)
	for pow < seg.Size {
		pow <<= 1
	}
	seg.Align = pow / 8
	seg.Size = seg.Size / seg.Align * seg.Align
	return nil
}

// PageTable covers every placed trunk of the process, devices included,
// with a region tree capped at the full 32-bit address space.
func (Backend) PageTable(proc *model.Process) (*pgtbl.Node, *diag.Diagnostic) {
	segs := make([]pgtbl.Seg, 0, len(proc.Code)+len(proc.Data)+len(proc.Device))
	for _, mem := range proc.Segments() {
		segs = append(segs, pgtbl.Seg{Start: mem.Start, Size: mem.Size, Attr: mem.Attr})
	}
	node, d := pgtbl.Synthesize(segs, 32)
	if d != nil {
		d.Path = "Project.Process." + proc.Name + ".Memory"
		return nil, d
	}
	return node, nil
}
