package emit

import (
	"fmt"
	"path/filepath"
	"strings"

	"mcugen/internal/diag"
)

// sources lists the compile units of one image, relative to its project
// directory.
func (e *Emitter) sources(img image) []string {
	plat := e.Proj.Plat
	switch img.suffix {
	case "RME":
		return []string{
			"../MEukaron/Kernel/rme_kernel.c",
			fmt.Sprintf("../MEukaron/Platform/%s/rme_platform_%s.c", plat, plat),
			"Source/rme_boot.c",
		}
	case "RVM":
		return []string{
			"../MAmmonite/Init/rvm_init.c",
			fmt.Sprintf("../MAmmonite/Platform/%s/rvm_platform_%s.c", plat, plat),
			"Source/rvm_boot.c",
		}
	default:
		return []string{fmt.Sprintf("../Source/proc_%s.c", strings.ToLower(img.suffix))}
	}
}

// projectFiles writes one IDE project or Makefile per image, with the
// compiler options rendered from the model so every format agrees.
func (e *Emitter) projectFiles() *diag.Diagnostic {
	for _, img := range e.images() {
		name := e.imageName(img.suffix)
		var d *diag.Diagnostic
		switch e.Format {
		case FormatKeil:
			d = e.write(filepath.Join(img.dir, name+".uvprojx"), []byte(e.keilProject(name, img)))
		case FormatEclipse:
			if d = e.write(filepath.Join(img.dir, ".project"), []byte(e.eclipseProject(name))); d != nil {
				return d
			}
			d = e.write(filepath.Join(img.dir, ".cproject"), []byte(e.eclipseCProject(name, img)))
		case FormatMakefile:
			d = e.write(filepath.Join(img.dir, "Makefile"), []byte(e.makefileProject(name, img)))
		}
		if d != nil {
			return d
		}
	}
	if e.Format == FormatKeil {
		return e.keilWorkspace()
	}
	return nil
}

// keilWorkspace groups every emitted project into one uVision workspace
// at the output root.
func (e *Emitter) keilWorkspace() *diag.Diagnostic {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\" standalone=\"no\" ?>\n")
	b.WriteString("<ProjectWorkspace xmlns:xsi=\"http://www.w3.org/2001/XMLSchema-instance\">\n")
	b.WriteString("  <SchemaVersion>1.0</SchemaVersion>\n")
	for _, img := range e.images() {
		b.WriteString("  <project>\n")
		fmt.Fprintf(&b, "    <PathAndName>.\\%s\\%s.uvprojx</PathAndName>\n",
			strings.ReplaceAll(img.dir, "/", "\\"), e.imageName(img.suffix))
		b.WriteString("  </project>\n")
	}
	b.WriteString("</ProjectWorkspace>\n")
	return e.write(e.Proj.Name+".uvmpw", []byte(b.String()))
}

func (e *Emitter) keilProject(name string, img image) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\" standalone=\"no\" ?>\n")
	b.WriteString("<Project xmlns:xsi=\"http://www.w3.org/2001/XMLSchema-instance\">\n")
	b.WriteString("  <SchemaVersion>2.1</SchemaVersion>\n")
	b.WriteString("  <Targets>\n    <Target>\n")
	fmt.Fprintf(&b, "      <TargetName>%s</TargetName>\n", name)
	fmt.Fprintf(&b, "      <Device>%s</Device>\n", e.Proj.ChipFull)
	fmt.Fprintf(&b, "      <Vendor>%s</Vendor>\n", e.Chip.Vendor)
	b.WriteString("      <TargetOption>\n")
	fmt.Fprintf(&b, "        <ScatterFile>%s.sct</ScatterFile>\n", name)
	fmt.Fprintf(&b, "        <Optim>%d</Optim>\n", int(img.comp.Opt)+1)
	fmt.Fprintf(&b, "        <oTime>%d</oTime>\n", int(img.comp.Prio))
	b.WriteString("      </TargetOption>\n")
	b.WriteString("      <Groups>\n        <Group>\n          <GroupName>Source</GroupName>\n          <Files>\n")
	for _, src := range e.sources(img) {
		base := filepath.Base(src)
		b.WriteString("            <File>\n")
		fmt.Fprintf(&b, "              <FileName>%s</FileName>\n", base)
		b.WriteString("              <FileType>1</FileType>\n")
		fmt.Fprintf(&b, "              <FilePath>%s</FilePath>\n", src)
		b.WriteString("            </File>\n")
	}
	b.WriteString("          </Files>\n        </Group>\n      </Groups>\n")
	b.WriteString("    </Target>\n  </Targets>\n</Project>\n")
	return b.String()
}

func (e *Emitter) eclipseProject(name string) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	b.WriteString("<projectDescription>\n")
	fmt.Fprintf(&b, "  <name>%s</name>\n", name)
	b.WriteString("  <comment>Generated project; do not edit by hand.</comment>\n")
	b.WriteString("  <buildSpec>\n    <buildCommand>\n")
	b.WriteString("      <name>org.eclipse.cdt.managedbuilder.core.genmakebuilder</name>\n")
	b.WriteString("    </buildCommand>\n  </buildSpec>\n")
	b.WriteString("  <natures>\n")
	b.WriteString("    <nature>org.eclipse.cdt.core.cnature</nature>\n")
	b.WriteString("    <nature>org.eclipse.cdt.managedbuilder.core.managedBuildNature</nature>\n")
	b.WriteString("  </natures>\n")
	b.WriteString("</projectDescription>\n")
	return b.String()
}

func (e *Emitter) eclipseCProject(name string, img image) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\" standalone=\"no\"?>\n")
	b.WriteString("<?fileVersion 4.0.0?>\n")
	b.WriteString("<cproject>\n")
	fmt.Fprintf(&b, "  <configuration name=\"%s\">\n", name)
	fmt.Fprintf(&b, "    <option id=\"gnu.c.compiler.option.optimization.level\" value=\"%s\"/>\n", img.comp.Opt.Flag())
	fmt.Fprintf(&b, "    <option id=\"gnu.c.link.option.ldflags\" value=\"-T%s.ld\"/>\n", name)
	b.WriteString("    <sourceEntries>\n")
	for _, src := range e.sources(img) {
		fmt.Fprintf(&b, "      <entry kind=\"sourcePath\" name=\"%s\"/>\n", src)
	}
	b.WriteString("    </sourceEntries>\n")
	b.WriteString("  </configuration>\n")
	b.WriteString("</cproject>\n")
	return b.String()
}

func (e *Emitter) makefileProject(name string, img image) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Makefile for %s. Generated; do not edit by hand.\n\n", name)
	b.WriteString("CC      := arm-none-eabi-gcc\n")
	b.WriteString("OBJCOPY := arm-none-eabi-objcopy\n\n")
	flags := []string{"-mcpu=cortex-m4", "-mthumb", "-ffreestanding", "-ffunction-sections", "-fdata-sections", img.comp.Opt.Flag()}
	fmt.Fprintf(&b, "CFLAGS  := %s\n", strings.Join(flags, " "))
	fmt.Fprintf(&b, "LDFLAGS := -T %s.ld -nostartfiles -Wl,--gc-sections\n\n", name)
	fmt.Fprintf(&b, "SRCS    := %s\n", strings.Join(e.sources(img), " "))
	b.WriteString("OBJS    := $(SRCS:.c=.o)\n\n")
	fmt.Fprintf(&b, "all: %s.elf\n\n", name)
	fmt.Fprintf(&b, "%s.elf: $(OBJS)\n", name)
	b.WriteString("\t$(CC) $(CFLAGS) $(LDFLAGS) -o $@ $(OBJS)\n\n")
	b.WriteString("%.o: %.c\n")
	b.WriteString("\t$(CC) $(CFLAGS) -c -o $@ $<\n\n")
	b.WriteString("clean:\n")
	fmt.Fprintf(&b, "\trm -f $(OBJS) %s.elf\n\n", name)
	b.WriteString(".PHONY: all clean\n")
	return b.String()
}

// stubs writes one skeleton source per process with every thread and
// invocation entry the configuration names, so the emitted projects build
// before any user code exists.
func (e *Emitter) stubs() *diag.Diagnostic {
	for _, proc := range e.Proj.Procs {
		lower := strings.ToLower(proc.Name)
		var b strings.Builder
		fileBanner(&b, fmt.Sprintf("proc_%s.c", lower),
			fmt.Sprintf("The user stub file for process %s.", proc.Name))
		fmt.Fprintf(&b, "#include \"proc_%s.h\"\n\n", lower)
		seen := map[string]bool{}
		for _, thd := range proc.Threads {
			if seen[thd.Entry] {
				continue
			}
			seen[thd.Entry] = true
			fmt.Fprintf(&b, "void %s(void* Param)\n{\n    while(1);\n}\n\n", thd.Entry)
		}
		for _, inv := range proc.Invs {
			if seen[inv.Entry] {
				continue
			}
			seen[inv.Entry] = true
			fmt.Fprintf(&b, "rvm_ptr_t %s(rvm_ptr_t Param)\n{\n    return 0;\n}\n\n", inv.Entry)
		}
		if d := e.write(filepath.Join("Proc_"+proc.Name, "Source", fmt.Sprintf("proc_%s.c", lower)), []byte(b.String())); d != nil {
			return d
		}

		var h strings.Builder
		fileBanner(&h, fmt.Sprintf("proc_%s.h", lower),
			fmt.Sprintf("The local capability ID header for process %s.", proc.Name))
		h.WriteString("/* Defines *******************************************************************/\n")
		for _, thd := range proc.Threads {
			fmt.Fprintf(&h, "#define %-48s (%d)\n", thd.Cap.LocalMacro, thd.Cap.LocalID)
		}
		for _, inv := range proc.Invs {
			fmt.Fprintf(&h, "#define %-48s (%d)\n", inv.Cap.LocalMacro, inv.Cap.LocalID)
		}
		for _, port := range proc.Ports {
			fmt.Fprintf(&h, "#define %-48s (%d)\n", port.Cap.LocalMacro, port.Cap.LocalID)
		}
		for _, recv := range proc.Recvs {
			fmt.Fprintf(&h, "#define %-48s (%d)\n", recv.Cap.LocalMacro, recv.Cap.LocalID)
		}
		for _, send := range proc.Sends {
			fmt.Fprintf(&h, "#define %-48s (%d)\n", send.Cap.LocalMacro, send.Cap.LocalID)
		}
		for _, vect := range proc.Vects {
			fmt.Fprintf(&h, "#define %-48s (%d)\n", vect.Cap.LocalMacro, vect.Cap.LocalID)
		}
		h.WriteString("/* End Defines ***************************************************************/\n")
		if d := e.write(filepath.Join("Proc_"+proc.Name, "Include", fmt.Sprintf("proc_%s.h", lower)), []byte(h.String())); d != nil {
			return d
		}
	}
	return nil
}
