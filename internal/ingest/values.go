package ingest

import (
	"strings"

	"mcugen/internal/diag"
	"mcugen/internal/model"
)

// The value grammars are deliberately strict: every configuration value
// that fails to parse aborts the whole pipeline with the breadcrumb of the
// offending section.

// parseHex accepts 0x/0X-prefixed or bare hexadecimal digits, plus the
// literal Auto where the field allows it. Explicit values are interpreted
// mod 2^32.
func parseHex(path string, s string, allowAuto bool) (uint64, *diag.Diagnostic) {
	if s == "Auto" {
		if allowAuto {
			return model.Auto, nil
		}
		return 0, diag.ValueMalformed(path, "a valid hex number")
	}
	digits := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits = s[2:]
	}
	if digits == "" {
		return 0, diag.ValueMalformed(path, "a valid hex number")
	}
	var val uint64
	for i := 0; i < len(digits); i++ {
		d, ok := hexDigit(digits[i])
		if !ok {
			return 0, diag.ValueMalformed(path, "a valid hex number")
		}
		val = (val<<4 | uint64(d)) & 0xFFFFFFFF
	}
	return val, nil
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// parseUint accepts decimal digits, plus the literal Auto where allowed.
func parseUint(path string, s string, allowAuto bool) (uint64, *diag.Diagnostic) {
	if s == "Auto" {
		if allowAuto {
			return model.Auto, nil
		}
		return 0, diag.ValueMalformed(path, "a valid unsigned integer")
	}
	if s == "" {
		return 0, diag.ValueMalformed(path, "a valid unsigned integer")
	}
	var val uint64
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, diag.ValueMalformed(path, "a valid unsigned integer")
		}
		val = val*10 + uint64(s[i]-'0')
	}
	return val, nil
}

// parseAttr reads a set-of-letters attribute string. At least one of R, W,
// X must be present; B, C, S are optional modifiers.
func parseAttr(path string, s string) (model.MemAttr, *diag.Diagnostic) {
	var attr model.MemAttr
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'R':
			attr |= model.MemRead
		case 'W':
			attr |= model.MemWrite
		case 'X':
			attr |= model.MemExecute
		case 'B':
			attr |= model.MemBufferable
		case 'C':
			attr |= model.MemCacheable
		case 'S':
			attr |= model.MemStatic
		default:
			return 0, diag.ValueMalformed(path, "a memory attribute string (letters RWXBCS)")
		}
	}
	if attr&(model.MemRead|model.MemWrite|model.MemExecute) == 0 {
		return 0, diag.Errorf(diag.XMLValueMalformed, path, "does not allow any access and is malformed")
	}
	return attr, nil
}

func parseOptLevel(path string, s string) (model.OptLevel, *diag.Diagnostic) {
	switch s {
	case "O0":
		return model.OptO0, nil
	case "O1":
		return model.OptO1, nil
	case "O2":
		return model.OptO2, nil
	case "O3":
		return model.OptO3, nil
	case "OS":
		return model.OptOS, nil
	}
	return 0, diag.ValueMalformed(path, "one of O0, O1, O2, O3, OS")
}

func parseOptTarget(path string, s string) (model.OptTarget, *diag.Diagnostic) {
	switch s {
	case "Size":
		return model.PrioSize, nil
	case "Time":
		return model.PrioTime, nil
	}
	return 0, diag.ValueMalformed(path, "one of Size, Time")
}

func parseRecovery(path string, s string) (model.RecoveryPolicy, *diag.Diagnostic) {
	switch s {
	case "Thread":
		return model.RecoveryThread, nil
	case "Process":
		return model.RecoveryProcess, nil
	case "System":
		return model.RecoverySystem, nil
	}
	return 0, diag.ValueMalformed(path, "one of Thread, Process, System")
}

func parseMemKind(path string, s string) (model.MemKind, *diag.Diagnostic) {
	switch s {
	case "Code":
		return model.MemCode, nil
	case "Data":
		return model.MemData, nil
	case "Device":
		return model.MemDevice, nil
	}
	return 0, diag.ValueMalformed(path, "one of Code, Data, Device")
}

func parseOptionKind(path string, s string) (model.OptionKind, *diag.Diagnostic) {
	switch s {
	case "Range":
		return model.OptionRange, nil
	case "Select":
		return model.OptionSelect, nil
	}
	return 0, diag.ValueMalformed(path, "one of Range, Select")
}
