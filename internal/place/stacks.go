package place

import (
	"mcugen/internal/diag"
	"mcugen/internal/model"
)

// Stacks assigns every Auto thread and invocation stack from the top of
// the owning process's primary data segment, growing downward. Designated
// stack addresses are left alone. Runs after data placement, so the
// segment addresses are concrete.
func Stacks(proj *model.Project) *diag.Diagnostic {
	for _, proc := range proj.Procs {
		data := proc.Data[0]
		frontier := data.End()
		assign := func(base *uint64, size uint64, what, name string) *diag.Diagnostic {
			if *base != model.Auto {
				return nil
			}
			if size > frontier-data.Start {
				return diag.Errorf(diag.PlaceNoFit, "Project.Process."+proc.Name,
					"no room in the primary data segment for the %s %s stack", what, name)
			}
			frontier -= size
			*base = frontier
			return nil
		}
		for _, thd := range proc.Threads {
			if d := assign(&thd.StackBase, thd.StackSize, "thread", thd.Name); d != nil {
				return d
			}
		}
		for _, inv := range proc.Invs {
			if d := assign(&inv.StackBase, inv.StackSize, "invocation", inv.Name); d != nil {
				return d
			}
		}
	}
	return nil
}
