// Package validate checks name validity, uniqueness and structural rules
// over the ingested model. Cross-reference liveness (ports and sends) is
// checked later, after global capability IDs are minted.
package validate

import (
	"strings"

	"mcugen/internal/diag"
	"mcugen/internal/model"
)

// Check validates the whole project against the chip description.
func Check(proj *model.Project, chip *model.Chip) *diag.Diagnostic {
	if !strings.EqualFold(proj.Plat, chip.Plat) {
		return diag.Errorf(diag.SemPlatformMismatch, "Project.Platform",
			"project platform %s conflicts with chip platform %s", proj.Plat, chip.Plat)
	}
	if d := checkNames(proj); d != nil {
		return d
	}
	if d := checkVectors(proj, chip); d != nil {
		return d
	}
	for _, proc := range proj.Procs {
		if d := checkMemory(proc, chip); d != nil {
			return d
		}
	}
	return nil
}

// validIdent applies the identifier rule [A-Za-z_][A-Za-z0-9_]*.
func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// key folds a name for the case-insensitive uniqueness comparisons.
func key(parts ...string) string {
	return strings.ToLower(strings.Join(parts, "\x00"))
}

func checkNames(proj *model.Project) *diag.Diagnostic {
	procSeen := map[string]bool{}
	for _, proc := range proj.Procs {
		path := "Project.Process." + proc.Name
		if !validIdent(proc.Name) {
			return diag.Errorf(diag.SemBadIdent, path, "process name %q is not a valid identifier", proc.Name)
		}
		if procSeen[key(proc.Name)] {
			return diag.Errorf(diag.SemDupProcess, path, "process name %q duplicated", proc.Name)
		}
		procSeen[key(proc.Name)] = true

		if d := checkObjects(proc, path, proj.RME.KernPrios); d != nil {
			return d
		}
	}
	return nil
}

func checkObjects(proc *model.Process, path string, kernPrios uint64) *diag.Diagnostic {
	seen := map[string]bool{}
	dup := func(code diag.Code, section string, k string, name string) *diag.Diagnostic {
		if seen[k] {
			return diag.Errorf(code, path+"."+section+"."+name, "%s name %q duplicated", section, name)
		}
		seen[k] = true
		return nil
	}

	for _, thd := range proc.Threads {
		if !validIdent(thd.Name) {
			return diag.Errorf(diag.SemBadIdent, path+".Thread."+thd.Name, "thread name %q is not a valid identifier", thd.Name)
		}
		if d := dup(diag.SemDupObject, "Thread", key("thd", thd.Name), thd.Name); d != nil {
			return d
		}
		if kernPrios != 0 && thd.Priority >= kernPrios {
			return diag.Errorf(diag.SemBadPriority, path+".Thread."+thd.Name,
				"priority %d is outside the kernel's %d priority levels", thd.Priority, kernPrios)
		}
	}

	clear(seen)
	for _, inv := range proc.Invs {
		if !validIdent(inv.Name) {
			return diag.Errorf(diag.SemBadIdent, path+".Invocation."+inv.Name, "invocation name %q is not a valid identifier", inv.Name)
		}
		if d := dup(diag.SemDupObject, "Invocation", key("inv", inv.Name), inv.Name); d != nil {
			return d
		}
	}

	clear(seen)
	for _, port := range proc.Ports {
		if !validIdent(port.Name) || !validIdent(port.ProcName) {
			return diag.Errorf(diag.SemBadIdent, path+".Port."+port.Name, "port %q target %q is not a valid identifier pair", port.Name, port.ProcName)
		}
		if strings.EqualFold(port.ProcName, proc.Name) {
			return diag.Errorf(diag.SemSelfPort, path+".Port."+port.Name, "port cannot target its own process")
		}
		if d := dup(diag.SemDupObject, "Port", key("port", port.ProcName, port.Name), port.Name); d != nil {
			return d
		}
	}

	clear(seen)
	for _, recv := range proc.Recvs {
		if !validIdent(recv.Name) {
			return diag.Errorf(diag.SemBadIdent, path+".Receive."+recv.Name, "receive endpoint name %q is not a valid identifier", recv.Name)
		}
		if d := dup(diag.SemDupObject, "Receive", key("recv", recv.Name), recv.Name); d != nil {
			return d
		}
	}

	clear(seen)
	for _, send := range proc.Sends {
		if !validIdent(send.Name) || !validIdent(send.ProcName) {
			return diag.Errorf(diag.SemBadIdent, path+".Send."+send.Name, "send %q target %q is not a valid identifier pair", send.Name, send.ProcName)
		}
		if d := dup(diag.SemDupObject, "Send", key("send", send.ProcName, send.Name), send.Name); d != nil {
			return d
		}
	}
	return nil
}

// checkVectors enforces the shared handler-dispatch namespace: vector names
// are globally unique, including against every receive endpoint, and must
// name an interrupt the chip actually has. Resolution fills in the number.
func checkVectors(proj *model.Project, chip *model.Chip) *diag.Diagnostic {
	global := map[string]string{}
	for _, proc := range proj.Procs {
		for _, recv := range proc.Recvs {
			global[key(recv.Name)] = proc.Name
		}
	}
	vectSeen := map[string]bool{}
	for _, proc := range proj.Procs {
		for _, vect := range proc.Vects {
			path := "Project.Process." + proc.Name + ".Vector." + vect.Name
			if !validIdent(vect.Name) {
				return diag.Errorf(diag.SemBadIdent, path, "vector name %q is not a valid identifier", vect.Name)
			}
			if owner, clash := global[key(vect.Name)]; clash {
				return diag.Errorf(diag.SemVectorClash, path,
					"vector name %q clashes with a receive endpoint in process %s", vect.Name, owner)
			}
			if vectSeen[key(vect.Name)] {
				return diag.Errorf(diag.SemVectorClash, path, "vector name %q duplicated", vect.Name)
			}
			vectSeen[key(vect.Name)] = true

			cv, ok := chip.FindVector(vect.Name)
			if !ok {
				return diag.Errorf(diag.SemUnknownVector, path, "chip has no interrupt vector named %q", vect.Name)
			}
			vect.Number = cv.Number
		}
	}
	return nil
}

func checkMemory(proc *model.Process, chip *model.Chip) *diag.Diagnostic {
	path := "Project.Process." + proc.Name
	if len(proc.Code) == 0 {
		return diag.Errorf(diag.SemNoCodeSegment, path+".Memory", "process has no code segment")
	}
	if len(proc.Data) == 0 {
		return diag.Errorf(diag.SemNoDataSegment, path+".Memory", "process has no data segment")
	}
	// The kernel assumes the boot image of a process does not move.
	if !proc.Code[0].Attr.Has(model.MemStatic) {
		return diag.Errorf(diag.SemPrimaryNotStatic, path+".Memory",
			"the primary code segment must be static")
	}
	for _, dev := range proc.Device {
		if dev.Start == model.Auto {
			return diag.Errorf(diag.SemDeviceAuto, path+".Memory",
				"device memory cannot have auto placement")
		}
		contained := false
		for _, cd := range chip.Device {
			if cd.Contains(dev) {
				contained = true
				break
			}
		}
		if !contained {
			return diag.Errorf(diag.SemDeviceOutOfRange, path+".Memory",
				"device segment %s is out of the chip device range", dev)
		}
	}
	return nil
}
