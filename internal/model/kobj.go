package model

// CapInfo carries the identifiers a kernel object acquires during
// capability allocation. LocalID indexes the owning process's capability
// table; GlobalID indexes RVM's top-level boot table. Ports and sends are
// not first-class objects, so their GlobalID is inherited from the
// invocation or receive endpoint they resolve to.
type CapInfo struct {
	LocalID  uint64
	GlobalID uint64
	// Macro spellings emitted into the boot headers.
	LocalMacro  string
	GlobalMacro string
}

// Thread is a schedulable execution context inside a process.
type Thread struct {
	Name      string
	Entry     string
	StackBase uint64 // may be Auto
	StackSize uint64
	Param     string
	Priority  uint64
	Cap       CapInfo
}

// Invocation is a server-side synchronous entry point.
type Invocation struct {
	Name      string
	Entry     string
	StackBase uint64
	StackSize uint64
	Cap       CapInfo
}

// Port references an invocation in another process by name.
type Port struct {
	Name     string
	ProcName string
	Cap      CapInfo
}

// Receive is a message destination endpoint.
type Receive struct {
	Name string
	Cap  CapInfo
}

// Send references a receive endpoint in another process by name.
type Send struct {
	Name     string
	ProcName string
	Cap      CapInfo
}

// Vector is a kernel-created receive endpoint bound to an interrupt.
// The generator only delegates it; Number is resolved against the chip's
// vector list.
type Vector struct {
	Name   string
	Number uint64
	Cap    CapInfo
}
