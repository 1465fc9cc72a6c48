// Package tag defines DICOM data element tags
package tag

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/jpfielding/dcmcodec/pkg/dicom/stream"
)

// Tag represents a DICOM tag with Group and Element
type Tag struct {
	Group   uint16
	Element uint16
}

// New creates a new Tag
func New(group, element uint16) Tag {
	return Tag{Group: group, Element: element}
}

// FromUint32 splits a packed 0xGGGGEEEE value into a Tag
func FromUint32(v uint32) Tag {
	return Tag{Group: uint16(v >> 16), Element: uint16(v)}
}

// Uint32 packs the tag as 0xGGGGEEEE
func (t Tag) Uint32() uint32 {
	return uint32(t.Group)<<16 | uint32(t.Element)
}

// IsPrivate returns true if this is a private tag (odd group number)
func (t Tag) IsPrivate() bool {
	return t.Group%2 == 1
}

// IsPrivateCreator returns true for the (gggg,0010-00FF) reservation elements of a private group
func (t Tag) IsPrivateCreator() bool {
	return t.IsPrivate() && t.Element >= 0x0010 && t.Element <= 0x00FF
}

// IsPixelData returns true for Pixel Data and its float/double variants
func (t Tag) IsPixelData() bool {
	return t == PixelData || t == FloatPixelData || t == DoubleFloatPixelData
}

// IsGroupLength returns true for (gggg,0000) group length elements
func (t Tag) IsGroupLength() bool {
	return t.Element == 0x0000
}

// IsDelimiter returns true for the item and delimitation tags of group FFFE
func (t Tag) IsDelimiter() bool {
	return t.Group == 0xFFFE
}

// Read reads the 4 byte tag header
func Read(r *stream.Reader, order binary.ByteOrder) (Tag, error) {
	group, err := r.Uint16(order)
	if err != nil {
		return Tag{}, fmt.Errorf("reading tag group: %w", err)
	}
	element, err := r.Uint16(order)
	if err != nil {
		return Tag{}, fmt.Errorf("reading tag element: %w", err)
	}
	return Tag{Group: group, Element: element}, nil
}

// Write writes the 4 byte tag header
func Write(w io.Writer, t Tag, order binary.ByteOrder) error {
	var b [4]byte
	order.PutUint16(b[0:], t.Group)
	order.PutUint16(b[2:], t.Element)
	_, err := w.Write(b[:])
	return err
}

// File Meta Information (Group 0002)
var (
	FileMetaInformationGroupLength = Tag{0x0002, 0x0000}
	FileMetaInformationVersion     = Tag{0x0002, 0x0001}
	MediaStorageSOPClassUID        = Tag{0x0002, 0x0002}
	MediaStorageSOPInstanceUID     = Tag{0x0002, 0x0003}
	TransferSyntaxUID              = Tag{0x0002, 0x0010}
	ImplementationClassUID         = Tag{0x0002, 0x0012}
	ImplementationVersionName      = Tag{0x0002, 0x0013}
)

// Common identifying attributes
var (
	SpecificCharacterSet = Tag{0x0008, 0x0005}
	ImageType            = Tag{0x0008, 0x0008}
	SOPClassUID          = Tag{0x0008, 0x0016}
	SOPInstanceUID       = Tag{0x0008, 0x0018}
	StudyDate            = Tag{0x0008, 0x0020}
	Modality             = Tag{0x0008, 0x0060}
	PatientName          = Tag{0x0010, 0x0010}
	PatientID            = Tag{0x0010, 0x0020}
	StudyInstanceUID     = Tag{0x0020, 0x000D}
	SeriesInstanceUID    = Tag{0x0020, 0x000E}
)

// Image Pixel Module (Group 0028)
var (
	SamplesPerPixel      = Tag{0x0028, 0x0002}
	Rows                 = Tag{0x0028, 0x0010}
	Columns              = Tag{0x0028, 0x0011}
	BitsAllocated        = Tag{0x0028, 0x0100}
	PixelRepresentation  = Tag{0x0028, 0x0103}
	PixelData            = Tag{0x7FE0, 0x0010}
	FloatPixelData       = Tag{0x7FE0, 0x0008}
	DoubleFloatPixelData = Tag{0x7FE0, 0x0009}
)

// Sequence delimiters
var (
	Item                     = Tag{0xFFFE, 0xE000}
	ItemDelimitationItem     = Tag{0xFFFE, 0xE00D}
	SequenceDelimitationItem = Tag{0xFFFE, 0xE0DD}
)
