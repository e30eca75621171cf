package emit

import (
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"mcugen/internal/diag"
)

// Current schema version - increment when the payload format changes.
const layoutSchemaVersion uint16 = 1

// LayoutPayload is the machine-readable record of one generation run,
// written for downstream tooling. Field order is fixed so reruns are
// byte-identical.
type LayoutPayload struct {
	Schema  uint16
	Project string
	Plat    string
	Chip    string

	Segments []LayoutSegment
	Caps     []LayoutCap
	Vects    []LayoutCap
}

// LayoutSegment is one placed memory trunk.
type LayoutSegment struct {
	Proc  string // empty for RME/RVM kernel areas
	Kind  string
	Attr  string
	Start uint64
	Size  uint64
}

// LayoutCap is one entry of the global capability table.
type LayoutCap struct {
	Kind  string
	Proc  string
	Name  string
	ID    uint64
	Macro string
}

func (e *Emitter) layoutPayload() LayoutPayload {
	payload := LayoutPayload{
		Schema:  layoutSchemaVersion,
		Project: e.Proj.Name,
		Plat:    e.Proj.Plat,
		Chip:    e.Proj.ChipClass,
	}
	rme := e.Proj.RME
	rvm := e.Proj.RVM
	payload.Segments = append(payload.Segments,
		LayoutSegment{Kind: "Code", Start: rme.CodeStart, Size: rme.CodeSize},
		LayoutSegment{Kind: "Data", Start: rme.DataStart, Size: rme.DataSize},
		LayoutSegment{Kind: "Code", Start: rme.CodeStart + rme.CodeSize, Size: rvm.CodeSize},
		LayoutSegment{Kind: "Data", Start: rme.DataStart + rme.DataSize, Size: rvm.DataSize},
	)
	for _, proc := range e.Proj.Procs {
		for _, seg := range proc.Segments() {
			payload.Segments = append(payload.Segments, LayoutSegment{
				Proc: proc.Name, Kind: seg.Kind.String(), Attr: seg.Attr.String(),
				Start: seg.Start, Size: seg.Size,
			})
		}
	}
	for id, slot := range e.Caps.Slots {
		entry := LayoutCap{Kind: slot.Kind.String(), Proc: slot.Proc.Name, ID: uint64(id), Macro: slotMacro(slot)}
		switch {
		case slot.Thd != nil:
			entry.Name = slot.Thd.Name
		case slot.Inv != nil:
			entry.Name = slot.Inv.Name
		case slot.Recv != nil:
			entry.Name = slot.Recv.Name
		default:
			entry.Name = slot.Proc.Name
		}
		payload.Caps = append(payload.Caps, entry)
	}
	for _, slot := range e.Caps.Vects {
		payload.Vects = append(payload.Vects, LayoutCap{
			Kind: "Vect", Proc: slot.Proc.Name, Name: slot.Vect.Name,
			ID: slot.Vect.Cap.GlobalID, Macro: slot.Vect.Cap.GlobalMacro,
		})
	}
	return payload
}

// layoutReport serialises the payload into the Documents tree.
func (e *Emitter) layoutReport() *diag.Diagnostic {
	data, err := msgpack.Marshal(e.layoutPayload())
	if err != nil {
		return diag.Errorf(diag.EmitIO, "", "cannot encode layout report: %v", err)
	}
	return e.write(filepath.Join(rmeTree, "Documents", "layout.rvl"), data)
}
