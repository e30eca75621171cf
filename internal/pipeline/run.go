// Package pipeline drives the generator end to end. The stages are
// strictly serial, each consumes the model the previous one produced, and
// the first diagnostic aborts the whole run.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mcugen/internal/caps"
	"mcugen/internal/diag"
	"mcugen/internal/emit"
	"mcugen/internal/ingest"
	"mcugen/internal/model"
	"mcugen/internal/pgtbl"
	"mcugen/internal/place"
	"mcugen/internal/platform"
	"mcugen/internal/validate"
)

// Request carries the five command inputs, already checked by the CLI.
type Request struct {
	ProjectPath string
	OutputPath  string
	RMEPath     string
	RVMPath     string
	Format      emit.Format
}

// Result is what a successful run leaves behind for reporting.
type Result struct {
	Proj    *model.Project
	Chip    *model.Chip
	Backend platform.Backend
	Caps    *caps.Table
	PgTbls  map[*model.Process]*pgtbl.Node
	Timings Timings
}

// ChipPath derives the chip description location under the RME root from
// the platform and chip class tags.
func ChipPath(rmeRoot, plat, class string) string {
	return filepath.Join(rmeRoot, "MEukaron", "Include", "Platform", plat,
		"Chips", class, fmt.Sprintf("rme_platform_%s.xml", class))
}

// Run executes every stage against the request.
func Run(req *Request) (*Result, *diag.Diagnostic) {
	res := &Result{PgTbls: map[*model.Process]*pgtbl.Node{}}

	// Ingest: project first, then the chip file it points at.
	begin := time.Now()
	data, err := os.ReadFile(req.ProjectPath)
	if err != nil {
		return nil, diag.Errorf(diag.CmdFileUnreadable, "Project", "cannot read %s: %v", req.ProjectPath, err)
	}
	proj, d := ingest.ParseProject(data)
	if d != nil {
		return nil, d
	}
	res.Proj = proj

	chipPath := ChipPath(req.RMEPath, proj.Plat, proj.ChipClass)
	data, err = os.ReadFile(chipPath)
	if err != nil {
		return nil, diag.Errorf(diag.CmdFileUnreadable, "Chip", "cannot read %s: %v", chipPath, err)
	}
	chip, d := ingest.ParseChip(data)
	if d != nil {
		return nil, d
	}
	res.Chip = chip
	res.Timings.Set(StageIngest, time.Since(begin))

	// Validate names, uniqueness and structure.
	begin = time.Now()
	backend, d := platform.Lookup(proj.Plat)
	if d != nil {
		return nil, d
	}
	res.Backend = backend
	if d = validate.Check(proj, chip); d != nil {
		return nil, d
	}
	res.Timings.Set(StageValidate, time.Since(begin))

	// Align every process segment under the architecture rule.
	begin = time.Now()
	if d = place.Align(proj, backend.AlignSegment); d != nil {
		return nil, d
	}
	res.Timings.Set(StageAlign, time.Since(begin))

	// Place code, then data. Device memory is never placed.
	begin = time.Now()
	if d = place.Fill(proj, chip, model.MemCode); d != nil {
		return nil, d
	}
	if d = place.Fill(proj, chip, model.MemData); d != nil {
		return nil, d
	}
	if d = place.Stacks(proj); d != nil {
		return nil, d
	}
	res.Timings.Set(StagePlace, time.Since(begin))

	// Page tables, one region tree per process.
	begin = time.Now()
	for _, proc := range proj.Procs {
		node, d := backend.PageTable(proc)
		if d != nil {
			return nil, d
		}
		res.PgTbls[proc] = node
	}
	res.Timings.Set(StagePgtbl, time.Since(begin))

	// Capability IDs and back-resolution.
	begin = time.Now()
	table, d := caps.Alloc(proj, backend.VectorCapBase())
	if d != nil {
		return nil, d
	}
	res.Caps = table
	res.Timings.Set(StageCaps, time.Since(begin))

	// Emission.
	begin = time.Now()
	em := &emit.Emitter{
		Proj:    proj,
		Chip:    chip,
		Caps:    table,
		PgTbls:  res.PgTbls,
		RMEPath: req.RMEPath,
		RVMPath: req.RVMPath,
		Output:  req.OutputPath,
		Format:  req.Format,
	}
	if d = em.Run(); d != nil {
		return nil, d
	}
	res.Timings.Set(StageEmit, time.Since(begin))

	return res, nil
}
