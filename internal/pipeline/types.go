package pipeline

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageIngest is the XML ingestion stage, project and chip.
	StageIngest Stage = "ingest"
	// StageValidate is the name/uniqueness/structure validation stage.
	StageValidate Stage = "validate"
	// StageAlign is the architecture alignment stage.
	StageAlign Stage = "align"
	// StagePlace is the memory placement stage.
	StagePlace Stage = "place"
	// StagePgtbl is the page table synthesis stage.
	StagePgtbl Stage = "pgtbl"
	// StageCaps is the capability allocation stage.
	StageCaps Stage = "caps"
	// StageEmit is the emission stage.
	StageEmit Stage = "emit"
)

// Stages lists the phases in execution order.
var Stages = []Stage{StageIngest, StageValidate, StageAlign, StagePlace, StagePgtbl, StageCaps, StageEmit}

// Timings holds stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) ensure() {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
}

// Set stores a duration for the given stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.ensure()
	t.stages[stage] = dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	if t.stages == nil {
		return false
	}
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	if t.stages == nil {
		return 0
	}
	return t.stages[stage]
}
