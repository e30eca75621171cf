package emit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"mcugen/internal/diag"
)

// copySpec is one static file carried verbatim from a source root.
type copySpec struct {
	root string // RME or RVM root
	src  string // relative to root
	dst  string // relative to output
}

// copyStatic carries the kernel and runtime sources into the output tree.
// A missing source file fails the run; the roots are never written to.
func (e *Emitter) copyStatic() *diag.Diagnostic {
	plat := e.Proj.Plat
	class := e.Proj.ChipClass
	chipXML := fmt.Sprintf("rme_platform_%s.xml", class)
	chipHdr := fmt.Sprintf("rme_platform_%s.h", class)

	specs := []copySpec{
		// Kernel image sources.
		{e.RMEPath, filepath.Join("MEukaron", "Kernel", "rme_kernel.c"),
			filepath.Join(rmeTree, "MEukaron", "Kernel", "rme_kernel.c")},
		{e.RMEPath, filepath.Join("MEukaron", "Include", "Kernel", "rme_kernel.h"),
			filepath.Join(rmeTree, "MEukaron", "Include", "Kernel", "rme_kernel.h")},
		{e.RMEPath, filepath.Join("MEukaron", "Platform", plat, platFile("rme_platform_%s.c", plat)),
			filepath.Join(rmeTree, "MEukaron", "Platform", plat, platFile("rme_platform_%s.c", plat))},
		{e.RMEPath, filepath.Join("MEukaron", "Include", "Platform", plat, platFile("rme_platform_%s.h", plat)),
			filepath.Join(rmeTree, "MEukaron", "Include", "Platform", plat, platFile("rme_platform_%s.h", plat))},
		{e.RMEPath, filepath.Join("MEukaron", "Include", "Platform", plat, "Chips", class, chipHdr),
			filepath.Join(rmeTree, "MEukaron", "Include", "Platform", plat, "Chips", class, chipHdr)},
		{e.RMEPath, filepath.Join("MEukaron", "Include", "Platform", plat, "Chips", class, chipXML),
			filepath.Join(rmeTree, "MEukaron", "Include", "Platform", plat, "Chips", class, chipXML)},
		// User-level runtime sources.
		{e.RVMPath, filepath.Join("MAmmonite", "Init", "rvm_init.c"),
			filepath.Join(rvmTree, "MAmmonite", "Init", "rvm_init.c")},
		{e.RVMPath, filepath.Join("MAmmonite", "Include", "Init", "rvm_init.h"),
			filepath.Join(rvmTree, "MAmmonite", "Include", "Init", "rvm_init.h")},
		{e.RVMPath, filepath.Join("MAmmonite", "Platform", plat, platFile("rvm_platform_%s.c", plat)),
			filepath.Join(rvmTree, "MAmmonite", "Platform", plat, platFile("rvm_platform_%s.c", plat))},
		{e.RVMPath, filepath.Join("MAmmonite", "Include", "Platform", plat, platFile("rvm_platform_%s.h", plat)),
			filepath.Join(rvmTree, "MAmmonite", "Include", "Platform", plat, platFile("rvm_platform_%s.h", plat))},
	}
	for _, spec := range specs {
		if d := copyFile(filepath.Join(e.Output, spec.dst), filepath.Join(spec.root, spec.src)); d != nil {
			return d
		}
	}
	return nil
}

func platFile(pattern, plat string) string {
	return fmt.Sprintf(pattern, plat)
}

func copyFile(dst, src string) *diag.Diagnostic {
	in, err := os.Open(src)
	if err != nil {
		return diag.Errorf(diag.EmitSourceMissing, "", "source file %s is missing: %v", src, err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return diag.Errorf(diag.EmitIO, "", "cannot create %s: %v", dst, err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return diag.Errorf(diag.EmitIO, "", "cannot copy %s: %v", dst, err)
	}
	return nil
}
