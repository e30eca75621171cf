package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan)
	pathColor = color.New(color.FgWhite, color.Bold)
)

// Render prints a diagnostic in the form
//
//	ERROR SEM3010: Project.Process.B.Port.Foo: no invocation "Foo" in process A
//
// Colorization is the caller's choice; it is decided once at CLI start from
// the --color flag and terminal detection.
func Render(w io.Writer, d *Diagnostic, colorize bool) {
	if d == nil {
		return
	}
	sev := d.Severity.String()
	id := d.Code.ID()
	path := d.Path
	if colorize {
		switch d.Severity {
		case SevError:
			sev = errColor.Sprint(sev)
		case SevWarning:
			sev = warnColor.Sprint(sev)
		default:
			sev = infoColor.Sprint(sev)
		}
		if path != "" {
			path = pathColor.Sprint(path)
		}
	}
	if path == "" {
		fmt.Fprintf(w, "%s %s: %s\n", sev, id, d.Message)
		return
	}
	fmt.Fprintf(w, "%s %s: %s: %s\n", sev, id, path, d.Message)
}
