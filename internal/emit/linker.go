package emit

import (
	"fmt"
	"path/filepath"
	"strings"

	"fortio.org/safecast"

	"mcugen/internal/diag"
	"mcugen/internal/model"
)

// image is one built binary with its primary code and data windows, taken
// bit-exact from the placement result.
type image struct {
	suffix    string
	dir       string // project directory relative to output root
	comp      model.CompilerOptions
	codeStart uint64
	codeSize  uint64
	dataStart uint64
	dataSize  uint64
}

// images lists RME, RVM, then one image per process, in that order.
func (e *Emitter) images() []image {
	rme := e.Proj.RME
	rvm := e.Proj.RVM
	out := []image{
		{
			suffix: "RME", dir: filepath.Join(rmeTree, "Project"), comp: rme.Comp,
			codeStart: rme.CodeStart, codeSize: rme.CodeSize,
			dataStart: rme.DataStart, dataSize: rme.DataSize,
		},
		{
			suffix: "RVM", dir: filepath.Join(rvmTree, "Project"), comp: rvm.Comp,
			codeStart: rme.CodeStart + rme.CodeSize, codeSize: rvm.CodeSize,
			dataStart: rme.DataStart + rme.DataSize, dataSize: rvm.DataSize,
		},
	}
	for _, proc := range e.Proj.Procs {
		out = append(out, image{
			suffix: proc.Name, dir: filepath.Join("Proc_"+proc.Name, "Project"), comp: proc.Comp,
			codeStart: proc.Code[0].Start, codeSize: proc.Code[0].Size,
			dataStart: proc.Data[0].Start, dataSize: proc.Data[0].Size,
		})
	}
	return out
}

// check32 rejects windows the 32-bit toolchains cannot express.
func (img image) check32() *diag.Diagnostic {
	for _, v := range []uint64{img.codeStart, img.codeSize, img.dataStart, img.dataSize} {
		if _, err := safecast.Conv[uint32](v); err != nil {
			return diag.Errorf(diag.EmitIO, "",
				"image %s window value 0x%X exceeds the 32-bit address space", img.suffix, v)
		}
	}
	return nil
}

// linkerScripts writes one scatter (Keil) or ld script (GCC) per image.
func (e *Emitter) linkerScripts() *diag.Diagnostic {
	for _, img := range e.images() {
		if d := img.check32(); d != nil {
			return d
		}
		name := e.imageName(img.suffix)
		var rel, content string
		if e.Format == FormatKeil {
			rel = filepath.Join(img.dir, name+".sct")
			content = scatterScript(name, img)
		} else {
			rel = filepath.Join(img.dir, name+".ld")
			content = ldScript(name, img)
		}
		if d := e.write(rel, []byte(content)); d != nil {
			return d
		}
	}
	return nil
}

func scatterScript(name string, img image) string {
	var b strings.Builder
	fmt.Fprintf(&b, "; Scatter file for %s.\n", name)
	fmt.Fprintf(&b, "; The addresses below are the placed memory map; do not edit by hand.\n\n")
	fmt.Fprintf(&b, "LR_IROM1 0x%08X 0x%08X\n{\n", img.codeStart, img.codeSize)
	fmt.Fprintf(&b, "    ER_IROM1 0x%08X 0x%08X\n    {\n", img.codeStart, img.codeSize)
	b.WriteString("        *.o (RESET, +First)\n")
	b.WriteString("        *(InRoot$$Sections)\n")
	b.WriteString("        .ANY (+RO)\n    }\n")
	fmt.Fprintf(&b, "    RW_IRAM1 0x%08X 0x%08X\n    {\n", img.dataStart, img.dataSize)
	b.WriteString("        .ANY (+RW +ZI)\n    }\n")
	b.WriteString("}\n")
	return b.String()
}

func ldScript(name string, img image) string {
	var b strings.Builder
	fmt.Fprintf(&b, "/* Linker script for %s. Addresses are the placed memory map. */\n\n", name)
	b.WriteString("MEMORY\n{\n")
	fmt.Fprintf(&b, "    FLASH (rx)  : ORIGIN = 0x%08X, LENGTH = 0x%08X\n", img.codeStart, img.codeSize)
	fmt.Fprintf(&b, "    RAM   (rwx) : ORIGIN = 0x%08X, LENGTH = 0x%08X\n", img.dataStart, img.dataSize)
	b.WriteString("}\n\n")
	b.WriteString("SECTIONS\n{\n")
	b.WriteString("    .text :\n    {\n")
	b.WriteString("        KEEP(*(.vectors))\n")
	b.WriteString("        *(.text*)\n")
	b.WriteString("        *(.rodata*)\n")
	b.WriteString("    } > FLASH\n\n")
	b.WriteString("    .data :\n    {\n")
	b.WriteString("        *(.data*)\n")
	b.WriteString("    } > RAM AT > FLASH\n\n")
	b.WriteString("    .bss (NOLOAD) :\n    {\n")
	b.WriteString("        *(.bss*)\n")
	b.WriteString("        *(COMMON)\n")
	b.WriteString("    } > RAM\n")
	b.WriteString("}\n")
	return b.String()
}
