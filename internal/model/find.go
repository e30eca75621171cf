package model

import "strings"

// Name comparisons are case-insensitive throughout: two objects whose names
// differ only in case would collide in the generated macro namespace.

// FindProc resolves a process by name.
func (p *Project) FindProc(name string) *Process {
	for _, proc := range p.Procs {
		if strings.EqualFold(proc.Name, name) {
			return proc
		}
	}
	return nil
}

// FindInv resolves an invocation inside the process by name.
func (p *Process) FindInv(name string) *Invocation {
	for _, inv := range p.Invs {
		if strings.EqualFold(inv.Name, name) {
			return inv
		}
	}
	return nil
}

// FindRecv resolves a receive endpoint inside the process by name. Send
// endpoints never match: a send must target a receive, not another send.
func (p *Process) FindRecv(name string) *Receive {
	for _, recv := range p.Recvs {
		if strings.EqualFold(recv.Name, name) {
			return recv
		}
	}
	return nil
}
