package ingest

import (
	"fmt"

	"mcugen/internal/diag"
	"mcugen/internal/model"
	"mcugen/internal/xmltree"
)

// ParseProject ingests the project description document.
func ParseProject(data []byte) (*model.Project, *diag.Diagnostic) {
	root, err := xmltree.Parse(data, "Project")
	if err != nil {
		return nil, diag.Errorf(diag.XMLMalformed, "Project", "%v", err)
	}
	c := cursor{node: root, path: "Project"}

	proj := &model.Project{}
	var d *diag.Diagnostic
	if proj.Name, d = c.text("Name"); d != nil {
		return nil, d
	}
	if proj.Plat, d = c.text("Platform"); d != nil {
		return nil, d
	}
	if proj.ChipClass, d = c.text("Chip_Class"); d != nil {
		return nil, d
	}
	if proj.ChipFull, d = c.text("Chip_Full"); d != nil {
		return nil, d
	}

	rme, d := c.section("RME")
	if d != nil {
		return nil, d
	}
	if d = parseRME(&proj.RME, rme); d != nil {
		return nil, d
	}

	rvm, d := c.section("RVM")
	if d != nil {
		return nil, d
	}
	if d = parseRVM(&proj.RVM, rvm); d != nil {
		return nil, d
	}

	procs, d := c.section("Process")
	if d != nil {
		return nil, d
	}
	for i, trunk := range procs.node.Children {
		pc := cursor{node: trunk, path: fmt.Sprintf("%s.Process[%d]", c.path, i)}
		proc, d := parseProcess(pc)
		if d != nil {
			return nil, d
		}
		proj.Procs = append(proj.Procs, proc)
	}
	return proj, nil
}

func parseRME(rme *model.RMEConfig, c cursor) *diag.Diagnostic {
	var d *diag.Diagnostic
	if rme.Comp, d = c.compiler(); d != nil {
		return d
	}
	gen, d := c.section("General")
	if d != nil {
		return d
	}
	if rme.CodeStart, d = gen.hex("Code_Start", false); d != nil {
		return d
	}
	if rme.CodeSize, d = gen.hex("Code_Size", false); d != nil {
		return d
	}
	if rme.DataStart, d = gen.hex("Data_Start", false); d != nil {
		return d
	}
	if rme.DataSize, d = gen.hex("Data_Size", false); d != nil {
		return d
	}
	if rme.ExtraKmem, d = gen.hex("Extra_Kmem", false); d != nil {
		return d
	}
	if rme.KmemOrder, d = gen.uint("Kmem_Order"); d != nil {
		return d
	}
	if rme.KernPrios, d = gen.uint("Kern_Prios"); d != nil {
		return d
	}
	plat, d := c.section("Platform")
	if d != nil {
		return d
	}
	rme.Plat = plat.raw()
	chip, d := c.section("Chip")
	if d != nil {
		return d
	}
	rme.Chip = chip.raw()
	return nil
}

func parseRVM(rvm *model.RVMConfig, c cursor) *diag.Diagnostic {
	var d *diag.Diagnostic
	if rvm.Comp, d = c.compiler(); d != nil {
		return d
	}
	gen, d := c.section("General")
	if d != nil {
		return d
	}
	if rvm.CodeSize, d = gen.hex("Code_Size", false); d != nil {
		return d
	}
	if rvm.DataSize, d = gen.hex("Data_Size", false); d != nil {
		return d
	}
	if rvm.ExtraCaptbl, d = gen.uint("Extra_Captbl"); d != nil {
		return d
	}
	s, d := gen.text("Recovery")
	if d != nil {
		return d
	}
	if rvm.Recovery, d = parseRecovery(gen.at("Recovery"), s); d != nil {
		return d
	}
	// The VMM section must be present, but its contents are not interpreted.
	if _, d = c.section("VMM"); d != nil {
		return d
	}
	return nil
}

func parseProcess(c cursor) (*model.Process, *diag.Diagnostic) {
	proc := &model.Process{}

	gen, d := c.section("General")
	if d != nil {
		return nil, d
	}
	if proc.Name, d = gen.text("Name"); d != nil {
		return nil, d
	}
	// Re-anchor the breadcrumb on the process name once it is known.
	c = cursor{node: c.node, path: "Project.Process." + proc.Name}
	gen = cursor{node: gen.node, path: c.at("General")}
	if proc.ExtraCaptbl, d = gen.uint("Extra_Captbl"); d != nil {
		return nil, d
	}
	if proc.Comp, d = c.compiler(); d != nil {
		return nil, d
	}

	mem, d := c.section("Memory")
	if d != nil {
		return nil, d
	}
	if d = parseProcMem(proc, mem); d != nil {
		return nil, d
	}
	if d = parseThreads(proc, c); d != nil {
		return nil, d
	}
	if d = parseInvs(proc, c); d != nil {
		return nil, d
	}
	if d = parsePorts(proc, c); d != nil {
		return nil, d
	}
	if d = parseRecvs(proc, c); d != nil {
		return nil, d
	}
	if d = parseSends(proc, c); d != nil {
		return nil, d
	}
	if d = parseVects(proc, c); d != nil {
		return nil, d
	}
	return proc, nil
}

func parseProcMem(proc *model.Process, c cursor) *diag.Diagnostic {
	for i, trunk := range c.node.Children {
		tc := cursor{node: trunk, path: fmt.Sprintf("%s[%d]", c.path, i)}
		seg := &model.MemSegment{}
		var d *diag.Diagnostic
		if seg.Start, d = tc.hex("Start", true); d != nil {
			return d
		}
		if seg.Size, d = tc.hex("Size", false); d != nil {
			return d
		}
		if seg.Size == 0 {
			return diag.Errorf(diag.XMLSizeZero, tc.at("Size"), "cannot be zero")
		}
		if seg.Start != model.Auto && seg.Start+seg.Size > 1<<32 {
			return diag.Errorf(diag.XMLSizeOutOfBound, tc.at("Size"), "is out of bound")
		}
		s, d := tc.text("Type")
		if d != nil {
			return d
		}
		if seg.Kind, d = parseMemKind(tc.at("Type"), s); d != nil {
			return d
		}
		if s, d = tc.text("Attribute"); d != nil {
			return d
		}
		if seg.Attr, d = parseAttr(tc.at("Attribute"), s); d != nil {
			return d
		}
		switch seg.Kind {
		case model.MemCode:
			proc.Code = append(proc.Code, seg)
		case model.MemData:
			proc.Data = append(proc.Data, seg)
		default:
			proc.Device = append(proc.Device, seg)
		}
	}
	return nil
}

func parseThreads(proc *model.Process, c cursor) *diag.Diagnostic {
	sec, d := c.section("Thread")
	if d != nil {
		return d
	}
	for i, trunk := range sec.node.Children {
		tc := cursor{node: trunk, path: fmt.Sprintf("%s[%d]", sec.path, i)}
		thd := &model.Thread{}
		if thd.Name, d = tc.text("Name"); d != nil {
			return d
		}
		if thd.Entry, d = tc.text("Entry"); d != nil {
			return d
		}
		if thd.StackBase, d = tc.hex("Stack_Addr", true); d != nil {
			return d
		}
		if thd.StackSize, d = tc.hex("Stack_Size", false); d != nil {
			return d
		}
		if thd.Param, d = tc.text("Parameter"); d != nil {
			return d
		}
		if thd.Priority, d = tc.uint("Priority"); d != nil {
			return d
		}
		proc.Threads = append(proc.Threads, thd)
	}
	return nil
}

func parseInvs(proc *model.Process, c cursor) *diag.Diagnostic {
	sec, d := c.section("Invocation")
	if d != nil {
		return d
	}
	for i, trunk := range sec.node.Children {
		tc := cursor{node: trunk, path: fmt.Sprintf("%s[%d]", sec.path, i)}
		inv := &model.Invocation{}
		if inv.Name, d = tc.text("Name"); d != nil {
			return d
		}
		if inv.Entry, d = tc.text("Entry"); d != nil {
			return d
		}
		if inv.StackBase, d = tc.hex("Stack_Addr", true); d != nil {
			return d
		}
		if inv.StackSize, d = tc.hex("Stack_Size", false); d != nil {
			return d
		}
		proc.Invs = append(proc.Invs, inv)
	}
	return nil
}

func parsePorts(proc *model.Process, c cursor) *diag.Diagnostic {
	sec, d := c.section("Port")
	if d != nil {
		return d
	}
	for i, trunk := range sec.node.Children {
		tc := cursor{node: trunk, path: fmt.Sprintf("%s[%d]", sec.path, i)}
		port := &model.Port{}
		if port.Name, d = tc.text("Name"); d != nil {
			return d
		}
		if port.ProcName, d = tc.text("Proc_Name"); d != nil {
			return d
		}
		proc.Ports = append(proc.Ports, port)
	}
	return nil
}

func parseRecvs(proc *model.Process, c cursor) *diag.Diagnostic {
	sec, d := c.section("Receive")
	if d != nil {
		return d
	}
	for i, trunk := range sec.node.Children {
		tc := cursor{node: trunk, path: fmt.Sprintf("%s[%d]", sec.path, i)}
		recv := &model.Receive{}
		if recv.Name, d = tc.text("Name"); d != nil {
			return d
		}
		proc.Recvs = append(proc.Recvs, recv)
	}
	return nil
}

func parseSends(proc *model.Process, c cursor) *diag.Diagnostic {
	sec, d := c.section("Send")
	if d != nil {
		return d
	}
	for i, trunk := range sec.node.Children {
		tc := cursor{node: trunk, path: fmt.Sprintf("%s[%d]", sec.path, i)}
		send := &model.Send{}
		if send.Name, d = tc.text("Name"); d != nil {
			return d
		}
		if send.ProcName, d = tc.text("Proc_Name"); d != nil {
			return d
		}
		proc.Sends = append(proc.Sends, send)
	}
	return nil
}

func parseVects(proc *model.Process, c cursor) *diag.Diagnostic {
	sec, d := c.section("Vector")
	if d != nil {
		return d
	}
	for i, trunk := range sec.node.Children {
		tc := cursor{node: trunk, path: fmt.Sprintf("%s[%d]", sec.path, i)}
		vect := &model.Vector{Number: model.Invalid}
		if vect.Name, d = tc.text("Name"); d != nil {
			return d
		}
		proc.Vects = append(proc.Vects, vect)
	}
	return nil
}
