// Package ingest turns the two configuration XML documents into the typed
// domain model. The descent is deterministic and fails fast: each lookup
// distinguishes a missing section from a malformed value, and every
// diagnostic carries the breadcrumb of the section it refused.
package ingest

import (
	"mcugen/internal/diag"
	"mcugen/internal/model"
	"mcugen/internal/xmltree"
)

// cursor walks the node tree carrying the breadcrumb path.
type cursor struct {
	node *xmltree.Node
	path string
}

func (c cursor) at(tag string) string {
	return c.path + "." + tag
}

// section fetches a required child section.
func (c cursor) section(tag string) (cursor, *diag.Diagnostic) {
	child := c.node.Child(tag)
	if child == nil {
		return cursor{}, diag.SectionMissing(c.at(tag))
	}
	return cursor{node: child, path: c.at(tag)}, nil
}

// text fetches a required child's character data.
func (c cursor) text(tag string) (string, *diag.Diagnostic) {
	child := c.node.Child(tag)
	if child == nil {
		return "", diag.SectionMissing(c.at(tag))
	}
	return child.Text, nil
}

func (c cursor) hex(tag string, allowAuto bool) (uint64, *diag.Diagnostic) {
	s, d := c.text(tag)
	if d != nil {
		return 0, d
	}
	return parseHex(c.at(tag), s, allowAuto)
}

func (c cursor) uint(tag string) (uint64, *diag.Diagnostic) {
	s, d := c.text(tag)
	if d != nil {
		return 0, d
	}
	return parseUint(c.at(tag), s, false)
}

// raw collects every child of the section as uninterpreted tag/value pairs.
func (c cursor) raw() []model.RawPair {
	pairs := make([]model.RawPair, 0, len(c.node.Children))
	for _, child := range c.node.Children {
		pairs = append(pairs, model.RawPair{Tag: child.Tag, Val: child.Text})
	}
	return pairs
}

// compiler parses a Compiler section shared by RME, RVM and processes.
func (c cursor) compiler() (model.CompilerOptions, *diag.Diagnostic) {
	var comp model.CompilerOptions
	sec, d := c.section("Compiler")
	if d != nil {
		return comp, d
	}
	s, d := sec.text("Optimization")
	if d != nil {
		return comp, d
	}
	if comp.Opt, d = parseOptLevel(sec.at("Optimization"), s); d != nil {
		return comp, d
	}
	if s, d = sec.text("Prioritization"); d != nil {
		return comp, d
	}
	if comp.Prio, d = parseOptTarget(sec.at("Prioritization"), s); d != nil {
		return comp, d
	}
	return comp, nil
}
