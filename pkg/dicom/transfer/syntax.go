// Package transfer defines DICOM Transfer Syntaxes
package transfer

import "encoding/binary"

// Syntax represents a DICOM Transfer Syntax
type Syntax string

// Standard Transfer Syntaxes
const (
	// Uncompressed
	ImplicitVRLittleEndian    Syntax = "1.2.840.10008.1.2"
	ExplicitVRLittleEndian    Syntax = "1.2.840.10008.1.2.1"
	ExplicitVRLittleEndianExt Syntax = "1.2.840.10008.1.2.1.64" // Extended (>4GB)
	ExplicitVRBigEndian       Syntax = "1.2.840.10008.1.2.2"    // Retired
	DeflatedExplicitVR        Syntax = "1.2.840.10008.1.2.1.99"

	// JPEG Lossy
	JPEGBaseline Syntax = "1.2.840.10008.1.2.4.50"
	JPEGExtended Syntax = "1.2.840.10008.1.2.4.51"

	// JPEG Lossless
	JPEGLossless           Syntax = "1.2.840.10008.1.2.4.57"
	JPEGLosslessFirstOrder Syntax = "1.2.840.10008.1.2.4.70" // Most common

	// JPEG-LS
	JPEGLSLossless     Syntax = "1.2.840.10008.1.2.4.80"
	JPEGLSNearLossless Syntax = "1.2.840.10008.1.2.4.81"

	// JPEG 2000
	JPEG2000Lossless      Syntax = "1.2.840.10008.1.2.4.90"
	JPEG2000              Syntax = "1.2.840.10008.1.2.4.91"
	JPEG2000Part2Lossless Syntax = "1.2.840.10008.1.2.4.92"
	JPEG2000Part2         Syntax = "1.2.840.10008.1.2.4.93"
	JPIPReferenced        Syntax = "1.2.840.10008.1.2.4.94"
	JPIPReferencedDeflate Syntax = "1.2.840.10008.1.2.4.95"
	HTJ2KLossless         Syntax = "1.2.840.10008.1.2.4.201"
	HTJ2KLosslessRPCL     Syntax = "1.2.840.10008.1.2.4.202"
	HTJ2K                 Syntax = "1.2.840.10008.1.2.4.203"

	// Video
	MPEG2MainProfile   Syntax = "1.2.840.10008.1.2.4.100"
	MPEG4HighProfile   Syntax = "1.2.840.10008.1.2.4.102"
	MPEG4HighProfileBD Syntax = "1.2.840.10008.1.2.4.103"

	// Other
	RLELossless              Syntax = "1.2.840.10008.1.2.5"
	RFC2557MIMEEncapsulation Syntax = "1.2.840.10008.1.2.6.1"
)

// encapsulated lists the syntaxes whose pixel data is a fragment sequence
var encapsulated = map[Syntax]bool{
	JPEGBaseline:             true,
	JPEGExtended:             true,
	JPEGLossless:             true,
	JPEGLosslessFirstOrder:   true,
	JPEGLSLossless:           true,
	JPEGLSNearLossless:       true,
	JPEG2000Lossless:         true,
	JPEG2000:                 true,
	JPEG2000Part2Lossless:    true,
	JPEG2000Part2:            true,
	JPIPReferenced:           true,
	JPIPReferencedDeflate:    true,
	RLELossless:              true,
	RFC2557MIMEEncapsulation: true,
	MPEG2MainProfile:         true,
	MPEG4HighProfile:         true,
	MPEG4HighProfileBD:       true,
	HTJ2KLossless:            true,
	HTJ2KLosslessRPCL:        true,
	HTJ2K:                    true,
}

// Normalize returns the syntax used to frame data elements. Every syntax other
// than the three uncompressed ones frames its elements as explicit VR little endian.
func Normalize(uid string) Syntax {
	switch s := Syntax(uid); s {
	case ImplicitVRLittleEndian, ExplicitVRLittleEndian, ExplicitVRBigEndian:
		return s
	default:
		return ExplicitVRLittleEndian
	}
}

// IsEncapsulated returns true if pixel data is encapsulated (compressed)
func IsEncapsulated(uid string) bool {
	return encapsulated[Syntax(uid)]
}

// IsDeflated returns true if the dataset following the file meta group is deflated
func IsDeflated(uid string) bool {
	return Syntax(uid) == DeflatedExplicitVR
}

// Descriptor is the framing derived from a syntax identifier
type Descriptor struct {
	ImplicitVR   bool
	LittleEndian bool
	Deflated     bool
	Encapsulated bool
}

// Describe resolves a syntax identifier into its framing
func Describe(uid string) Descriptor {
	framing := Normalize(uid)
	return Descriptor{
		ImplicitVR:   framing == ImplicitVRLittleEndian,
		LittleEndian: framing != ExplicitVRBigEndian,
		Deflated:     IsDeflated(uid),
		Encapsulated: IsEncapsulated(uid),
	}
}

// ByteOrder returns the byte order of the element framing
func (d Descriptor) ByteOrder() binary.ByteOrder {
	if d.LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// Name returns a human-readable name for the transfer syntax
func (s Syntax) Name() string {
	switch s {
	case ImplicitVRLittleEndian:
		return "Implicit VR Little Endian"
	case ExplicitVRLittleEndian:
		return "Explicit VR Little Endian"
	case ExplicitVRLittleEndianExt:
		return "Explicit VR Little Endian Extended"
	case ExplicitVRBigEndian:
		return "Explicit VR Big Endian (Retired)"
	case DeflatedExplicitVR:
		return "Deflated Explicit VR Little Endian"
	case JPEGBaseline:
		return "JPEG Baseline (Process 1)"
	case JPEGExtended:
		return "JPEG Extended (Process 2 & 4)"
	case JPEGLossless:
		return "JPEG Lossless (Process 14)"
	case JPEGLosslessFirstOrder:
		return "JPEG Lossless First-Order (Process 14, SV1)"
	case JPEGLSLossless:
		return "JPEG-LS Lossless"
	case JPEGLSNearLossless:
		return "JPEG-LS Near-Lossless"
	case JPEG2000Lossless:
		return "JPEG 2000 Lossless"
	case JPEG2000:
		return "JPEG 2000"
	case JPEG2000Part2Lossless:
		return "JPEG 2000 Part 2 Lossless"
	case JPEG2000Part2:
		return "JPEG 2000 Part 2"
	case JPIPReferenced:
		return "JPIP Referenced"
	case JPIPReferencedDeflate:
		return "JPIP Referenced Deflate"
	case MPEG2MainProfile:
		return "MPEG2 Main Profile / Main Level"
	case MPEG4HighProfile:
		return "MPEG-4 AVC/H.264 High Profile"
	case MPEG4HighProfileBD:
		return "MPEG-4 AVC/H.264 BD-compatible High Profile"
	case HTJ2KLossless:
		return "High-Throughput JPEG 2000 Lossless"
	case HTJ2KLosslessRPCL:
		return "High-Throughput JPEG 2000 RPCL Lossless"
	case HTJ2K:
		return "High-Throughput JPEG 2000"
	case RLELossless:
		return "RLE Lossless"
	case RFC2557MIMEEncapsulation:
		return "RFC 2557 MIME Encapsulation"
	default:
		return string(s)
	}
}
