package emit

import (
	"fmt"
	"path/filepath"
	"strings"

	"mcugen/internal/caps"
	"mcugen/internal/diag"
	"mcugen/internal/model"
	"mcugen/internal/pgtbl"
)

// bootScripts writes the generated boot-time sources: the kernel-side
// vector glue and the RVM-side kernel object creation and delegation
// sequence. Creation order follows the global ID order exactly — later
// objects reference earlier ones by their minted IDs.
func (e *Emitter) bootScripts() *diag.Diagnostic {
	if d := e.write(filepath.Join(rmeTree, "Project", "Source", "rme_boot.h"), []byte(e.rmeBootHeader())); d != nil {
		return d
	}
	if d := e.write(filepath.Join(rmeTree, "Project", "Source", "rme_boot.c"), []byte(e.rmeBootSource())); d != nil {
		return d
	}
	if d := e.write(filepath.Join(rvmTree, "Project", "Source", "rvm_boot.h"), []byte(e.rvmBootHeader())); d != nil {
		return d
	}
	return e.write(filepath.Join(rvmTree, "Project", "Source", "rvm_boot.c"), []byte(e.rvmBootSource()))
}

func fileBanner(b *strings.Builder, name, desc string) {
	b.WriteString("/******************************************************************************\n")
	fmt.Fprintf(b, "Filename    : %s\n", name)
	b.WriteString("Author      : The project generator.\n")
	b.WriteString("Licence     : LGPL v3+; see COPYING for details.\n")
	fmt.Fprintf(b, "Description : %s\n", desc)
	b.WriteString("******************************************************************************/\n\n")
}

func (e *Emitter) rmeBootHeader() string {
	var b strings.Builder
	fileBanner(&b, "rme_boot.h", "The boot-time kernel configuration and vector header.")
	b.WriteString("/* Defines *******************************************************************/\n")
	b.WriteString("/* Kernel configuration */\n")
	rme := e.Proj.RME
	fmt.Fprintf(&b, "#define %-48s (0x%X)\n", "RME_KMEM_EXTRA", rme.ExtraKmem)
	fmt.Fprintf(&b, "#define %-48s (%d)\n", "RME_KMEM_SLOT_ORDER", rme.KmemOrder)
	fmt.Fprintf(&b, "#define %-48s (%d)\n", "RME_KERN_PRIOS", rme.KernPrios)
	b.WriteString("\n/* Platform attributes, forwarded verbatim */\n")
	for _, pair := range rme.Plat {
		fmt.Fprintf(&b, "#define %-48s (%s)\n", "RME_"+strings.ToUpper(e.Proj.Plat)+"_"+strings.ToUpper(pair.Tag), pair.Val)
	}
	for _, pair := range rme.Chip {
		fmt.Fprintf(&b, "#define %-48s (%s)\n", "RME_CHIP_"+strings.ToUpper(pair.Tag), pair.Val)
	}
	b.WriteString("\n/* Interrupt vectors bound to endpoints */\n")
	for _, slot := range e.Caps.Vects {
		fmt.Fprintf(&b, "#define %-48s (%d)\n", "RME_BOOT_VECT_"+strings.ToUpper(slot.Vect.Name), slot.Vect.Number)
	}
	fmt.Fprintf(&b, "#define %-48s (%d)\n", "RME_BOOT_VECT_NUM", len(e.Caps.Vects))
	b.WriteString("/* End Defines ***************************************************************/\n")
	return b.String()
}

func (e *Emitter) rmeBootSource() string {
	var b strings.Builder
	fileBanner(&b, "rme_boot.c", "The boot-time interrupt vector handlers.")
	b.WriteString("#include \"rme_boot.h\"\n\n")
	b.WriteString("/* Begin Function:RME_Boot_Vect_Handler ***************************************\n")
	b.WriteString("Description : Dispatch an interrupt to the endpoint the vector was bound to.\n")
	b.WriteString("******************************************************************************/\n")
	b.WriteString("rme_ptr_t RME_Boot_Vect_Handler(rme_ptr_t Vect_Num)\n{\n")
	b.WriteString("    switch(Vect_Num)\n    {\n")
	for _, slot := range e.Caps.Vects {
		fmt.Fprintf(&b, "        case RME_BOOT_VECT_%s:\n", strings.ToUpper(slot.Vect.Name))
		fmt.Fprintf(&b, "            return RME_Vect_Send(%d);\n", slot.Vect.Cap.GlobalID)
	}
	b.WriteString("        default:\n            break;\n    }\n")
	b.WriteString("    return 0;\n}\n")
	b.WriteString("/* End Function:RME_Boot_Vect_Handler ****************************************/\n")
	return b.String()
}

// pgtblNodes walks the region tree in preorder so node N0 is always the
// top table.
func pgtblNodes(node *pgtbl.Node) []*pgtbl.Node {
	if node == nil {
		return nil
	}
	out := []*pgtbl.Node{node}
	for _, sub := range node.Subs {
		out = append(out, pgtblNodes(sub.Child)...)
	}
	return out
}

func (e *Emitter) rvmBootHeader() string {
	var b strings.Builder
	fileBanner(&b, "rvm_boot.h", "The boot-time kernel object header.")
	b.WriteString("/* Defines *******************************************************************/\n")
	b.WriteString("/* Global linear capability IDs, in creation order */\n")
	for id, slot := range e.Caps.Slots {
		fmt.Fprintf(&b, "#define %-48s (%d)\n", slotMacro(slot), id)
	}
	fmt.Fprintf(&b, "#define %-48s (%d)\n", "RVM_BOOT_CAP_FRONTIER", e.Caps.Frontier())
	fmt.Fprintf(&b, "#define %-48s (%d)\n", "RVM_BOOT_CAPTBL_SIZE", e.Caps.Frontier()+e.Proj.RVM.ExtraCaptbl)
	fmt.Fprintf(&b, "#define %-48s (RVM_RECOVERY_%s)\n", "RVM_BOOT_RECOVERY", strings.ToUpper(e.Proj.RVM.Recovery.String()))
	b.WriteString("\n/* Kernel-created vector endpoints, delegation only */\n")
	for _, slot := range e.Caps.Vects {
		fmt.Fprintf(&b, "#define %-48s (%d)\n", slot.Vect.Cap.GlobalMacro, slot.Vect.Cap.GlobalID)
	}
	b.WriteString("\n/* Page tables, per process, preorder */\n")
	for _, proc := range e.Proj.Procs {
		for i := range pgtblNodes(e.PgTbls[proc]) {
			fmt.Fprintf(&b, "#define %-48s (%d)\n", pgtblMacro(proc, i), i)
		}
	}
	b.WriteString("\n/* Local capability table frontiers */\n")
	for _, proc := range e.Proj.Procs {
		fmt.Fprintf(&b, "#define %-48s (%d)\n",
			"RVM_CAPTBL_SIZE_"+strings.ToUpper(proc.Name), proc.CaptblFront+proc.ExtraCaptbl)
	}
	b.WriteString("/* End Defines ***************************************************************/\n")
	return b.String()
}

func slotMacro(slot caps.Slot) string {
	switch slot.Kind {
	case caps.KindCaptbl:
		return slot.Proc.Captbl.GlobalMacro
	case caps.KindProc:
		return slot.Proc.Proc.GlobalMacro
	case caps.KindThd:
		return slot.Thd.Cap.GlobalMacro
	case caps.KindInv:
		return slot.Inv.Cap.GlobalMacro
	default:
		return slot.Recv.Cap.GlobalMacro
	}
}

func pgtblMacro(proc *model.Process, index int) string {
	return fmt.Sprintf("RVM_BOOT_PGTBL_%s_N%d", strings.ToUpper(proc.Name), index)
}

func attrFlags(attr model.MemAttr) string {
	letters := []struct {
		bit  model.MemAttr
		flag string
	}{
		{model.MemRead, "RVM_PGTBL_READ"},
		{model.MemWrite, "RVM_PGTBL_WRITE"},
		{model.MemExecute, "RVM_PGTBL_EXECUTE"},
		{model.MemBufferable, "RVM_PGTBL_BUFFERABLE"},
		{model.MemCacheable, "RVM_PGTBL_CACHEABLE"},
		{model.MemStatic, "RVM_PGTBL_STATIC"},
	}
	var out []string
	for _, l := range letters {
		if attr&l.bit != 0 {
			out = append(out, l.flag)
		}
	}
	return strings.Join(out, "|")
}

func (e *Emitter) rvmBootSource() string {
	var b strings.Builder
	fileBanner(&b, "rvm_boot.c", "The boot-time kernel object creation and delegation script.")
	b.WriteString("#include \"rvm_boot.h\"\n\n")

	// Creation, strictly in global ID order: capability tables, processes,
	// threads, invocations, receive endpoints.
	b.WriteString("/* Begin Function:RVM_Boot_Crt ************************************************\n")
	b.WriteString("Description : Create all user kernel objects in global capability ID order.\n")
	b.WriteString("******************************************************************************/\n")
	b.WriteString("void RVM_Boot_Crt(void)\n{\n")
	for _, slot := range e.Caps.Slots {
		switch slot.Kind {
		case caps.KindCaptbl:
			fmt.Fprintf(&b, "    RVM_ASSERT(RVM_Captbl_Crt(%s, RVM_CAPTBL_SIZE_%s)==0);\n",
				slot.Proc.Captbl.GlobalMacro, strings.ToUpper(slot.Proc.Name))
		case caps.KindProc:
			fmt.Fprintf(&b, "    RVM_ASSERT(RVM_Proc_Crt(%s, %s, %s)==0);\n",
				slot.Proc.Proc.GlobalMacro, slot.Proc.Captbl.GlobalMacro, pgtblMacro(slot.Proc, 0))
		case caps.KindThd:
			fmt.Fprintf(&b, "    RVM_ASSERT(RVM_Thd_Crt(%s, %s, %d, %s, 0x%X, 0x%X)==0);\n",
				slot.Thd.Cap.GlobalMacro, slot.Proc.Proc.GlobalMacro, slot.Thd.Priority,
				slot.Thd.Entry, slot.Thd.StackBase, slot.Thd.StackSize)
		case caps.KindInv:
			fmt.Fprintf(&b, "    RVM_ASSERT(RVM_Inv_Crt(%s, %s, %s, 0x%X, 0x%X)==0);\n",
				slot.Inv.Cap.GlobalMacro, slot.Proc.Proc.GlobalMacro,
				slot.Inv.Entry, slot.Inv.StackBase, slot.Inv.StackSize)
		case caps.KindRecv:
			fmt.Fprintf(&b, "    RVM_ASSERT(RVM_Sig_Crt(%s)==0);\n", slot.Recv.Cap.GlobalMacro)
		}
	}
	b.WriteString("}\n")
	b.WriteString("/* End Function:RVM_Boot_Crt *************************************************/\n\n")

	// Page tables come up with the processes; one creation call per node,
	// then the mapped subregions, then the construction of child tables.
	b.WriteString("/* Begin Function:RVM_Boot_Pgtbl_Crt ******************************************\n")
	b.WriteString("Description : Create and populate the per-process page table trees.\n")
	b.WriteString("******************************************************************************/\n")
	b.WriteString("void RVM_Boot_Pgtbl_Crt(void)\n{\n")
	for _, proc := range e.Proj.Procs {
		nodes := pgtblNodes(e.PgTbls[proc])
		index := map[*pgtbl.Node]int{}
		for i, n := range nodes {
			index[n] = i
		}
		fmt.Fprintf(&b, "    /* Process %s */\n", proc.Name)
		for i, n := range nodes {
			fmt.Fprintf(&b, "    RVM_ASSERT(RVM_Pgtbl_Crt(%s, 0x%X, %d, %d)==0);\n",
				pgtblMacro(proc, i), n.Base, n.SizeOrder, n.NumOrder)
		}
		for i, n := range nodes {
			for s, sub := range n.Subs {
				if sub.Mapped {
					fmt.Fprintf(&b, "    RVM_ASSERT(RVM_Pgtbl_Add(%s, %d, %s)==0);\n",
						pgtblMacro(proc, i), s, attrFlags(sub.Attr))
				}
				if sub.Child != nil {
					fmt.Fprintf(&b, "    RVM_ASSERT(RVM_Pgtbl_Con(%s, %d, %s)==0);\n",
						pgtblMacro(proc, i), s, pgtblMacro(proc, index[sub.Child]))
				}
			}
		}
	}
	b.WriteString("}\n")
	b.WriteString("/* End Function:RVM_Boot_Pgtbl_Crt *******************************************/\n\n")

	// Delegation: every port, send and vector endpoint gets its slot in
	// the owner's capability table.
	b.WriteString("/* Begin Function:RVM_Boot_Delegate *******************************************\n")
	b.WriteString("Description : Delegate ports, send endpoints and vector endpoints.\n")
	b.WriteString("******************************************************************************/\n")
	b.WriteString("void RVM_Boot_Delegate(void)\n{\n")
	for _, proc := range e.Proj.Procs {
		captbl := proc.Captbl.GlobalMacro
		for _, thd := range proc.Threads {
			fmt.Fprintf(&b, "    RVM_ASSERT(RVM_Captbl_Add(%s, %d, %s)==0);\n", captbl, thd.Cap.LocalID, thd.Cap.GlobalMacro)
		}
		for _, inv := range proc.Invs {
			fmt.Fprintf(&b, "    RVM_ASSERT(RVM_Captbl_Add(%s, %d, %s)==0);\n", captbl, inv.Cap.LocalID, inv.Cap.GlobalMacro)
		}
		for _, port := range proc.Ports {
			fmt.Fprintf(&b, "    RVM_ASSERT(RVM_Captbl_Add(%s, %d, %s)==0);\n", captbl, port.Cap.LocalID, port.Cap.GlobalMacro)
		}
		for _, recv := range proc.Recvs {
			fmt.Fprintf(&b, "    RVM_ASSERT(RVM_Captbl_Add(%s, %d, %s)==0);\n", captbl, recv.Cap.LocalID, recv.Cap.GlobalMacro)
		}
		for _, send := range proc.Sends {
			fmt.Fprintf(&b, "    RVM_ASSERT(RVM_Captbl_Add(%s, %d, %s)==0);\n", captbl, send.Cap.LocalID, send.Cap.GlobalMacro)
		}
		for _, vect := range proc.Vects {
			fmt.Fprintf(&b, "    RVM_ASSERT(RVM_Captbl_Add(%s, %d, %s)==0);\n", captbl, vect.Cap.LocalID, vect.Cap.GlobalMacro)
		}
	}
	b.WriteString("}\n")
	b.WriteString("/* End Function:RVM_Boot_Delegate ********************************************/\n")
	return b.String()
}
