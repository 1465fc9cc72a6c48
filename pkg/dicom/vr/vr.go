// Package vr defines DICOM Value Representations
package vr

import "fmt"

// VR represents a DICOM Value Representation
type VR string

// Standard DICOM Value Representations
const (
	AE VR = "AE" // Application Entity (16 bytes max)
	AS VR = "AS" // Age String (4 bytes fixed)
	AT VR = "AT" // Attribute Tag (4 bytes fixed)
	CS VR = "CS" // Code String (16 bytes max)
	DA VR = "DA" // Date (8 bytes fixed)
	DS VR = "DS" // Decimal String (16 bytes max)
	DT VR = "DT" // DateTime (26 bytes max)
	FL VR = "FL" // Floating Point Single (4 bytes fixed)
	FD VR = "FD" // Floating Point Double (8 bytes fixed)
	IS VR = "IS" // Integer String (12 bytes max)
	LO VR = "LO" // Long String (64 bytes max)
	LT VR = "LT" // Long Text (10240 bytes max)
	OB VR = "OB" // Other Byte String
	OD VR = "OD" // Other Double String
	OF VR = "OF" // Other Float String
	OL VR = "OL" // Other Long
	OV VR = "OV" // Other 64-bit Very Long
	OW VR = "OW" // Other Word String
	PN VR = "PN" // Person Name (64 bytes max per component)
	SH VR = "SH" // Short String (16 bytes max)
	SL VR = "SL" // Signed Long (4 bytes fixed)
	SQ VR = "SQ" // Sequence of Items
	SS VR = "SS" // Signed Short (2 bytes fixed)
	ST VR = "ST" // Short Text (1024 bytes max)
	SV VR = "SV" // Signed 64-bit Very Long (8 bytes fixed)
	TM VR = "TM" // Time (16 bytes max)
	UC VR = "UC" // Unlimited Characters
	UI VR = "UI" // Unique Identifier (64 bytes max)
	UL VR = "UL" // Unsigned Long (4 bytes fixed)
	UN VR = "UN" // Unknown
	UR VR = "UR" // Universal Resource Identifier
	US VR = "US" // Unsigned Short (2 bytes fixed)
	UT VR = "UT" // Unlimited Text
	UV VR = "UV" // Unsigned 64-bit Very Long (8 bytes fixed)
)

// Delimiter separates the components of a multi-valued string
const Delimiter = '\\'

var known = map[VR]bool{
	AE: true, AS: true, AT: true, CS: true, DA: true, DS: true, DT: true, FL: true,
	FD: true, IS: true, LO: true, LT: true, OB: true, OD: true, OF: true, OL: true,
	OV: true, OW: true, PN: true, SH: true, SL: true, SQ: true, SS: true, ST: true,
	SV: true, TM: true, UC: true, UI: true, UL: true, UN: true, UR: true, US: true,
	UT: true, UV: true,
}

// Parse validates a 2 character VR code read from an explicit VR stream
func Parse(code string) (VR, error) {
	v := VR(code)
	if !known[v] {
		return "", fmt.Errorf("unknown VR %q", code)
	}
	return v, nil
}

// IsKnown returns true for the standard VR codes
func (v VR) IsKnown() bool {
	return known[v]
}

// HasLongLength returns true if the VR uses 2 reserved bytes and a 4-byte length
// in explicit VR; all other VRs use a 2-byte length
func (v VR) HasLongLength() bool {
	switch v {
	case OB, OD, OF, OL, OV, OW, SQ, UC, UN, UR, UT:
		return true
	default:
		return false
	}
}

// IsString returns true if this VR contains string data
func (v VR) IsString() bool {
	switch v {
	case AE, AS, CS, DA, DS, DT, IS, LO, LT, PN, SH, ST, TM, UC, UI, UR, UT:
		return true
	default:
		return false
	}
}

// IsEncodedText returns true for string VRs affected by Specific Character Set.
// The rest are restricted to the default repertoire.
func (v VR) IsEncodedText() bool {
	switch v {
	case LO, LT, PN, SH, ST, UC, UT:
		return true
	default:
		return false
	}
}

// IsBinary returns true if this VR contains binary data
func (v VR) IsBinary() bool {
	switch v {
	case AT, FL, FD, OB, OD, OF, OL, OV, OW, SL, SS, SV, UL, UN, US, UV:
		return true
	default:
		return false
	}
}

// IsBulk returns true for the opaque binary VRs that are never split per value
func (v VR) IsBulk() bool {
	switch v {
	case OB, OD, OF, OL, OV, OW, UN:
		return true
	default:
		return false
	}
}

// IsSingleValue returns true for VRs whose value is never split on the
// multiplicity delimiter
func (v VR) IsSingleValue() bool {
	switch v {
	case SQ, OF, OW, OB, UN, LT:
		return true
	default:
		return false
	}
}

// ValueSize returns the fixed size in bytes for fixed-size VRs, or 0 for variable
func (v VR) ValueSize() int {
	switch v {
	case AT, FL, SL, UL:
		return 4
	case FD, SV, UV:
		return 8
	case SS, US:
		return 2
	default:
		return 0 // Variable
	}
}

// MaxLength returns the maximum length in bytes of one string component, or 0 if unbounded
func (v VR) MaxLength() int {
	switch v {
	case AS:
		return 4
	case DA:
		return 8
	case IS:
		return 12
	case AE, CS, DS, SH, TM:
		return 16
	case DT:
		return 26
	case LO, PN, UI:
		return 64
	case ST:
		return 1024
	case LT:
		return 10240
	default:
		return 0
	}
}

// PadByte returns the byte used to pad values to an even length
func (v VR) PadByte() byte {
	switch v {
	case UI, OB, UN:
		return 0x00
	default:
		if v.IsString() {
			return ' '
		}
		return 0x00
	}
}
