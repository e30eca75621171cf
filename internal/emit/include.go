package emit

import (
	"fmt"
	"path/filepath"
	"strings"

	"mcugen/internal/diag"
	"mcugen/internal/model"
)

// includeHeaders writes the selection headers that pin the copied trees to
// the chosen platform and chip, plus the chip option configuration header
// with every option set to its first legal value.
func (e *Emitter) includeHeaders() *diag.Diagnostic {
	plat := e.Proj.Plat
	class := e.Proj.ChipClass

	var b strings.Builder
	fileBanner(&b, "rme_platform.h", "The platform selection header.")
	fmt.Fprintf(&b, "#include \"Platform/%s/rme_platform_%s.h\"\n", plat, plat)
	fmt.Fprintf(&b, "#include \"Platform/%s/Chips/%s/rme_platform_%s.h\"\n", plat, class, class)
	fmt.Fprintf(&b, "#include \"Platform/%s/Chips/%s/rme_platform_%s_conf.h\"\n", plat, class, class)
	if d := e.write(filepath.Join(rmeTree, "MEukaron", "Include", "rme_platform.h"), []byte(b.String())); d != nil {
		return d
	}

	b.Reset()
	fileBanner(&b, "rvm_platform.h", "The platform selection header.")
	fmt.Fprintf(&b, "#include \"Platform/%s/rvm_platform_%s.h\"\n", plat, plat)
	if d := e.write(filepath.Join(rvmTree, "MAmmonite", "Include", "rvm_platform.h"), []byte(b.String())); d != nil {
		return d
	}

	b.Reset()
	fileBanner(&b, fmt.Sprintf("rme_platform_%s_conf.h", class), "The chip option configuration header.")
	b.WriteString("/* Defines *******************************************************************/\n")
	for _, opt := range e.Chip.Options {
		fmt.Fprintf(&b, "/* %s: %s of %s */\n", opt.Name, opt.Kind, opt.Range)
		fmt.Fprintf(&b, "#define %-48s (%s)\n", opt.Macro, optionDefault(opt))
	}
	b.WriteString("/* End Defines ***************************************************************/\n")
	return e.write(filepath.Join(rmeTree, "MEukaron", "Include", "Platform", plat, "Chips", class,
		fmt.Sprintf("rme_platform_%s_conf.h", class)), []byte(b.String()))
}

// optionDefault picks the first legal value: the lower bound of a range,
// the first entry of a selection.
func optionDefault(opt model.ChipOption) string {
	first, _, _ := strings.Cut(opt.Range, ",")
	return strings.TrimSpace(first)
}
