// Package caps mints the capability identifiers of every kernel object.
// Local IDs are dense per process, in the fixed order threads, invocations,
// ports, receive endpoints, send endpoints, vector endpoints. Global linear
// IDs index RVM's top-level boot table and exist only for first-class
// objects; ports and sends inherit the global ID of whatever they resolve
// to.
package caps

import (
	"fmt"
	"strings"

	"mcugen/internal/diag"
	"mcugen/internal/model"
)

// Kind tags a slot of the global boot table.
type Kind uint8

const (
	KindCaptbl Kind = iota
	KindProc
	KindThd
	KindInv
	KindRecv
)

func (k Kind) String() string {
	switch k {
	case KindCaptbl:
		return "Captbl"
	case KindProc:
		return "Proc"
	case KindThd:
		return "Thd"
	case KindInv:
		return "Inv"
	case KindRecv:
		return "Recv"
	}
	return "Unknown"
}

// Slot is one entry of the global boot table: the owning process plus the
// payload of the slot's kind.
type Slot struct {
	Kind Kind
	Proc *model.Process
	Thd  *model.Thread
	Inv  *model.Invocation
	Recv *model.Receive
}

// VectSlot is one kernel-created vector endpoint pending delegation.
type VectSlot struct {
	Proc *model.Process
	Vect *model.Vector
}

// Table is the allocation result the boot-script emitter iterates.
type Table struct {
	Slots []Slot
	// Vectors are a separate pool created by the kernel itself; their IDs
	// start at the architecture-supplied base.
	VectBase uint64
	Vects    []VectSlot
}

// Frontier is the count of minted global IDs.
func (t *Table) Frontier() uint64 {
	return uint64(len(t.Slots))
}

// Alloc assigns local then global IDs and back-resolves every symbolic
// reference. vectBase is the architecture's vector capability base.
func Alloc(proj *model.Project, vectBase uint64) (*Table, *diag.Diagnostic) {
	allocLocal(proj)
	table := allocGlobal(proj, vectBase)
	if d := resolve(proj); d != nil {
		return nil, d
	}
	return table, nil
}

func macro(parts ...string) string {
	return strings.ToUpper(strings.Join(parts, "_"))
}

func allocLocal(proj *model.Project) {
	for _, proc := range proj.Procs {
		var next uint64
		take := func() uint64 {
			id := next
			next++
			return id
		}
		for _, thd := range proc.Threads {
			thd.Cap.LocalID = take()
			thd.Cap.LocalMacro = macro(proc.Name, "THD", thd.Name)
		}
		for _, inv := range proc.Invs {
			inv.Cap.LocalID = take()
			inv.Cap.LocalMacro = macro(proc.Name, "INV", inv.Name)
		}
		for _, port := range proc.Ports {
			port.Cap.LocalID = take()
			port.Cap.LocalMacro = macro(proc.Name, "PORT", port.ProcName, port.Name)
		}
		for _, recv := range proc.Recvs {
			recv.Cap.LocalID = take()
			recv.Cap.LocalMacro = macro(proc.Name, "RECV", recv.Name)
		}
		for _, send := range proc.Sends {
			send.Cap.LocalID = take()
			send.Cap.LocalMacro = macro(proc.Name, "SEND", send.ProcName, send.Name)
		}
		for _, vect := range proc.Vects {
			vect.Cap.LocalID = take()
			vect.Cap.LocalMacro = macro(proc.Name, "VECT", vect.Name)
		}
		proc.CaptblFront = next
	}
}

// allocGlobal mints the single contiguous range the RVM boot script walks:
// capability tables, then processes, then threads, invocations and receive
// endpoints across all processes in project order.
func allocGlobal(proj *model.Project, vectBase uint64) *Table {
	table := &Table{VectBase: vectBase}
	var next uint64
	push := func(s Slot) uint64 {
		table.Slots = append(table.Slots, s)
		id := next
		next++
		return id
	}
	for _, proc := range proj.Procs {
		proc.Captbl.GlobalID = push(Slot{Kind: KindCaptbl, Proc: proc})
		proc.Captbl.GlobalMacro = macro("RVM_BOOT_CAPTBL", proc.Name)
	}
	for _, proc := range proj.Procs {
		proc.Proc.GlobalID = push(Slot{Kind: KindProc, Proc: proc})
		proc.Proc.GlobalMacro = macro("RVM_BOOT_PROC", proc.Name)
	}
	for _, proc := range proj.Procs {
		for _, thd := range proc.Threads {
			thd.Cap.GlobalID = push(Slot{Kind: KindThd, Proc: proc, Thd: thd})
			thd.Cap.GlobalMacro = macro("RVM_BOOT_THD", proc.Name, thd.Name)
		}
	}
	for _, proc := range proj.Procs {
		for _, inv := range proc.Invs {
			inv.Cap.GlobalID = push(Slot{Kind: KindInv, Proc: proc, Inv: inv})
			inv.Cap.GlobalMacro = macro("RVM_BOOT_INV", proc.Name, inv.Name)
		}
	}
	for _, proc := range proj.Procs {
		for _, recv := range proc.Recvs {
			recv.Cap.GlobalID = push(Slot{Kind: KindRecv, Proc: proc, Recv: recv})
			recv.Cap.GlobalMacro = macro("RVM_BOOT_RECV", proc.Name, recv.Name)
		}
	}
	for _, proc := range proj.Procs {
		for _, vect := range proc.Vects {
			vect.Cap.GlobalID = vectBase + uint64(len(table.Vects))
			vect.Cap.GlobalMacro = macro("RVM_BOOT_VECT", vect.Name)
			table.Vects = append(table.Vects, VectSlot{Proc: proc, Vect: vect})
		}
	}
	return table
}

// resolve copies the global ID of the referenced object into every port
// and send endpoint.
func resolve(proj *model.Project) *diag.Diagnostic {
	for _, proc := range proj.Procs {
		for _, port := range proc.Ports {
			path := fmt.Sprintf("Project.Process.%s.Port.%s", proc.Name, port.Name)
			target := proj.FindProc(port.ProcName)
			if target == nil {
				return diag.Errorf(diag.SemDanglingPort, path, "no process named %q", port.ProcName)
			}
			inv := target.FindInv(port.Name)
			if inv == nil {
				return diag.Errorf(diag.SemDanglingPort, path,
					"no invocation %q in process %s", port.Name, target.Name)
			}
			port.Cap.GlobalID = inv.Cap.GlobalID
			port.Cap.GlobalMacro = inv.Cap.GlobalMacro
		}
		for _, send := range proc.Sends {
			path := fmt.Sprintf("Project.Process.%s.Send.%s", proc.Name, send.Name)
			target := proj.FindProc(send.ProcName)
			if target == nil {
				return diag.Errorf(diag.SemDanglingSend, path, "no process named %q", send.ProcName)
			}
			recv := target.FindRecv(send.Name)
			if recv == nil {
				return diag.Errorf(diag.SemDanglingSend, path,
					"no receive endpoint %q in process %s", send.Name, target.Name)
			}
			send.Cap.GlobalID = recv.Cap.GlobalID
			send.Cap.GlobalMacro = recv.Cap.GlobalMacro
		}
	}
	return nil
}
