package diag

import "fmt"

// Diagnostic is a single fatal finding with a section breadcrumb.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Path     string
	Message  string
}

// Error implements error so stages can hand diagnostics to callers that
// only understand the error contract.
func (d *Diagnostic) Error() string {
	if d.Path == "" {
		return fmt.Sprintf("%s: %s", d.Code.ID(), d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Code.ID(), d.Path, d.Message)
}

// Errorf builds a SevError diagnostic with a formatted message.
func Errorf(code Code, path string, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Code:     code,
		Severity: SevError,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
	}
}

// SectionMissing reports the "section missing" half of the two-level
// ingestion error contract. The breadcrumb names the absent section itself.
func SectionMissing(path string) *Diagnostic {
	return Errorf(XMLSectionMissing, path, "section missing")
}

// ValueMalformed reports the "value malformed" half; want describes the
// expected form ("a valid hex number", "one of Code, Data, Device", ...).
func ValueMalformed(path string, want string) *Diagnostic {
	return Errorf(XMLValueMalformed, path, "is not %s", want)
}
