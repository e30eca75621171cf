package model

// OptLevel is the requested compiler optimization level.
type OptLevel uint8

const (
	OptO0 OptLevel = iota
	OptO1
	OptO2
	OptO3
	OptOS
)

func (o OptLevel) String() string {
	switch o {
	case OptO0:
		return "O0"
	case OptO1:
		return "O1"
	case OptO2:
		return "O2"
	case OptO3:
		return "O3"
	case OptOS:
		return "OS"
	}
	return "O0"
}

// Flag returns the compiler flag spelling shared by every emitted project
// format, so Keil, Eclipse and Makefile projects agree by construction.
func (o OptLevel) Flag() string {
	if o == OptOS {
		return "-Os"
	}
	return "-" + o.String()
}

// OptTarget selects size or time preference.
type OptTarget uint8

const (
	PrioSize OptTarget = iota
	PrioTime
)

func (p OptTarget) String() string {
	if p == PrioTime {
		return "Time"
	}
	return "Size"
}

// CompilerOptions is the per-image compiler configuration.
type CompilerOptions struct {
	Opt  OptLevel
	Prio OptTarget
}

// RawPair is an uninterpreted tag/value pair forwarded verbatim to the
// architecture backend.
type RawPair struct {
	Tag string
	Val string
}
