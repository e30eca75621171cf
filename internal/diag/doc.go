// Package diag defines the diagnostic model shared by all generator stages.
//
// Every stage of the pipeline fails fast: the first Diagnostic aborts the
// run and is rendered to stderr by the CLI. There is no recovery and no
// accumulation — partial output is worse than no output for a deterministic
// transformer.
//
// Diagnostic is the central record:
//
//   - Code – compact numeric identifier (see codes.go) with a stable string
//     form, grouped in ranges by pipeline stage.
//   - Severity – tri-level enum; the pipeline only ever aborts on SevError.
//   - Path – the section breadcrumb of the failing construct, e.g.
//     "Project.RME.General.Code_Size". XML input has no useful byte offsets
//     once the tree is built, so breadcrumbs replace source spans.
//   - Message – human oriented text; keep it short and name the construct.
//
// Rendering lives in render.go and is the only place in the package that
// touches color or IO.
package diag
