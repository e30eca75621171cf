package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Командная строка
	CmdInfo           Code = 1000
	CmdUsage          Code = 1001
	CmdDupArg         Code = 1002
	CmdMissingArg     Code = 1003
	CmdDirMissing     Code = 1004
	CmdDirNotEmpty    Code = 1005
	CmdDirEmpty       Code = 1006
	CmdBadFormat      Code = 1007
	CmdFileUnreadable Code = 1008

	// XML
	XMLInfo           Code = 2000
	XMLMalformed      Code = 2001
	XMLWrongRoot      Code = 2002
	XMLSectionMissing Code = 2003
	XMLValueMalformed Code = 2004
	XMLSizeZero       Code = 2005
	XMLSizeOutOfBound Code = 2006

	// Семантика
	SemInfo             Code = 3000
	SemBadIdent         Code = 3001
	SemDupProcess       Code = 3002
	SemDupObject        Code = 3003
	SemNoCodeSegment    Code = 3004
	SemNoDataSegment    Code = 3005
	SemPrimaryNotStatic Code = 3006
	SemDeviceAuto       Code = 3007
	SemDeviceOutOfRange Code = 3008
	SemSelfPort         Code = 3009
	SemDanglingPort     Code = 3010
	SemDanglingSend     Code = 3011
	SemPlatformMismatch Code = 3012
	SemVectorClash      Code = 3013
	SemUnknownVector    Code = 3014
	SemBadPriority      Code = 3015

	// Размещение памяти
	PlaceInfo        Code = 4000
	PlaceBadAlign    Code = 4001
	PlaceBadAddress  Code = 4002
	PlaceNoFit       Code = 4003
	PlaceBoxTooLarge Code = 4004

	// Эмиссия
	EmitInfo          Code = 5000
	EmitSourceMissing Code = 5001
	EmitIO            Code = 5002
)

// ID returns the stable string form of the code, e.g. "SEM3010".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("CMD%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("XML%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("MEM%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("OUT%04d", ic)
	default:
		return fmt.Sprintf("UNK%04d", ic)
	}
}
