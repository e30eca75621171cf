package emit

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mcugen/internal/caps"
	"mcugen/internal/model"
)

var (
	summaryTitle  = lipgloss.NewStyle().Bold(true)
	summaryHeader = lipgloss.NewStyle().Faint(true)
	summaryOwner  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// Summary renders the end-of-run placement table shown unless --quiet.
func Summary(proj *model.Project, table *caps.Table) string {
	var b strings.Builder
	b.WriteString(summaryTitle.Render(fmt.Sprintf("%s: generated for %s on %s", proj.Name, proj.ChipFull, proj.Plat)))
	b.WriteString("\n\n")
	b.WriteString(summaryHeader.Render(fmt.Sprintf("%-12s %-8s %-12s %-12s %s", "owner", "kind", "start", "size", "attr")))
	b.WriteString("\n")
	row := func(owner string, kind model.MemKind, start, size uint64, attr model.MemAttr) {
		fmt.Fprintf(&b, "%-12s %-8s 0x%08X   0x%08X   %s\n",
			summaryOwner.Render(owner), kind, start, size, attr)
	}
	rme := proj.RME
	rvm := proj.RVM
	row("RME", model.MemCode, rme.CodeStart, rme.CodeSize, model.MemRead|model.MemExecute|model.MemStatic)
	row("RME", model.MemData, rme.DataStart, rme.DataSize, model.MemRead|model.MemWrite|model.MemStatic)
	row("RVM", model.MemCode, rme.CodeStart+rme.CodeSize, rvm.CodeSize, model.MemRead|model.MemExecute|model.MemStatic)
	row("RVM", model.MemData, rme.DataStart+rme.DataSize, rvm.DataSize, model.MemRead|model.MemWrite|model.MemStatic)
	for _, proc := range proj.Procs {
		for _, seg := range proc.Segments() {
			row(proc.Name, seg.Kind, seg.Start, seg.Size, seg.Attr)
		}
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d processes, %d kernel objects, %d vectors\n",
		len(proj.Procs), table.Frontier(), len(table.Vects))
	return b.String()
}
