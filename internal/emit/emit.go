// Package emit writes the generated project tree: the copied kernel and
// runtime sources, linker scripts, boot-time capability scripts, project
// files for the chosen toolchain, and the machine-readable layout report.
//
// Everything emitted is a pure function of the placed model, so two runs
// over identical inputs produce byte-identical trees.
package emit

import (
	"fmt"
	"os"
	"path/filepath"

	"mcugen/internal/caps"
	"mcugen/internal/diag"
	"mcugen/internal/model"
	"mcugen/internal/pgtbl"
)

// Format selects the emitted project flavour.
type Format string

const (
	FormatKeil     Format = "keil"
	FormatEclipse  Format = "eclipse"
	FormatMakefile Format = "makefile"
)

// ParseFormat validates the -f argument.
func ParseFormat(s string) (Format, *diag.Diagnostic) {
	switch Format(s) {
	case FormatKeil, FormatEclipse, FormatMakefile:
		return Format(s), nil
	}
	return "", diag.Errorf(diag.CmdBadFormat, "", "format %q is not one of keil, eclipse, makefile", s)
}

// Emitter owns one emission run.
type Emitter struct {
	Proj    *model.Project
	Chip    *model.Chip
	Caps    *caps.Table
	PgTbls  map[*model.Process]*pgtbl.Node
	RMEPath string
	RVMPath string
	Output  string
	Format  Format
}

// Directory names of the two fixed subtrees.
const (
	rmeTree = "M7M1_MuEukaron"
	rvmTree = "M7M2_MuAmmonite"
)

// Run emits the whole tree.
func (e *Emitter) Run() *diag.Diagnostic {
	if d := e.skeleton(); d != nil {
		return d
	}
	if d := e.copyStatic(); d != nil {
		return d
	}
	if d := e.includeHeaders(); d != nil {
		return d
	}
	if d := e.linkerScripts(); d != nil {
		return d
	}
	if d := e.bootScripts(); d != nil {
		return d
	}
	if d := e.projectFiles(); d != nil {
		return d
	}
	if d := e.stubs(); d != nil {
		return d
	}
	return e.layoutReport()
}

// skeleton creates the prescribed directory tree. Any create failure is
// fatal.
func (e *Emitter) skeleton() *diag.Diagnostic {
	dirs := []string{
		filepath.Join(rmeTree, "Documents"),
		filepath.Join(rmeTree, "MEukaron", "Include", "Kernel"),
		filepath.Join(rmeTree, "MEukaron", "Include", "Platform", e.Proj.Plat, "Chips", e.Proj.ChipClass),
		filepath.Join(rmeTree, "MEukaron", "Kernel"),
		filepath.Join(rmeTree, "MEukaron", "Platform", e.Proj.Plat),
		filepath.Join(rmeTree, "Project", "Source"),
		filepath.Join(rvmTree, "Documents"),
		filepath.Join(rvmTree, "MAmmonite", "Include", "Init"),
		filepath.Join(rvmTree, "MAmmonite", "Include", "Platform", e.Proj.Plat),
		filepath.Join(rvmTree, "MAmmonite", "Init"),
		filepath.Join(rvmTree, "MAmmonite", "Platform", e.Proj.Plat),
		filepath.Join(rvmTree, "Project", "Source"),
	}
	for _, proc := range e.Proj.Procs {
		base := "Proc_" + proc.Name
		dirs = append(dirs,
			filepath.Join(base, "Include"),
			filepath.Join(base, "Source"),
			filepath.Join(base, "Project"))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(filepath.Join(e.Output, dir), 0o755); err != nil {
			return diag.Errorf(diag.EmitIO, "", "cannot create %s: %v", dir, err)
		}
	}
	return nil
}

// write creates one output file under the output root.
func (e *Emitter) write(rel string, content []byte) *diag.Diagnostic {
	path := filepath.Join(e.Output, rel)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return diag.Errorf(diag.EmitIO, "", "cannot write %s: %v", rel, err)
	}
	return nil
}

// imageName is the base name shared by the linker script and project file
// of one built image.
func (e *Emitter) imageName(suffix string) string {
	return fmt.Sprintf("%s_%s", e.Proj.Name, suffix)
}
