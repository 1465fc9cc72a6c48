package dicom

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/jpfielding/dcmcodec/pkg/dicom/tag"
	"github.com/jpfielding/dcmcodec/pkg/dicom/transfer"
	"github.com/jpfielding/dcmcodec/pkg/dicom/vr"
)

// builder assembles element bytes by hand so tests do not depend on the writer
type builder struct {
	buf      bytes.Buffer
	order    binary.ByteOrder
	implicit bool
}

func explicitLE() *builder { return &builder{order: binary.LittleEndian} }
func explicitBE() *builder { return &builder{order: binary.BigEndian} }
func implicitLE() *builder { return &builder{order: binary.LittleEndian, implicit: true} }

func (b *builder) u16(v uint16) *builder {
	var x [2]byte
	b.order.PutUint16(x[:], v)
	b.buf.Write(x[:])
	return b
}

func (b *builder) u32(v uint32) *builder {
	var x [4]byte
	b.order.PutUint32(x[:], v)
	b.buf.Write(x[:])
	return b
}

func (b *builder) raw(p []byte) *builder {
	b.buf.Write(p)
	return b
}

func (b *builder) header(t tag.Tag, v vr.VR, length uint32) *builder {
	b.u16(t.Group).u16(t.Element)
	switch {
	case b.implicit:
		b.u32(length)
	case v.HasLongLength():
		b.buf.WriteString(string(v))
		b.u16(0).u32(length)
	default:
		b.buf.WriteString(string(v))
		b.u16(uint16(length))
	}
	return b
}

func (b *builder) element(t tag.Tag, v vr.VR, value []byte) *builder {
	return b.header(t, v, uint32(len(value))).raw(value)
}

func (b *builder) text(t tag.Tag, v vr.VR, s string) *builder {
	return b.element(t, v, []byte(s))
}

func (b *builder) us(t tag.Tag, values ...uint16) *builder {
	b.header(t, vr.US, uint32(2*len(values)))
	for _, v := range values {
		b.u16(v)
	}
	return b
}

func (b *builder) fd(t tag.Tag, values ...float64) *builder {
	b.header(t, vr.FD, uint32(8*len(values)))
	for _, v := range values {
		var x [8]byte
		b.order.PutUint64(x[:], math.Float64bits(v))
		b.buf.Write(x[:])
	}
	return b
}

func (b *builder) delimiter(t tag.Tag, length uint32) *builder {
	return b.u16(t.Group).u16(t.Element).u32(length)
}

func (b *builder) bytes() []byte {
	return bytes.Clone(b.buf.Bytes())
}

// uid pads a UID to even length with NUL
func uid(s string) []byte {
	if len(s)%2 != 0 {
		s += "\x00"
	}
	return []byte(s)
}

var (
	sequenceTag    = tag.New(0x0008, 0x1140)
	refClassTag    = tag.New(0x0008, 0x1150)
	refInstanceTag = tag.New(0x0008, 0x1155)
	creatorTag     = tag.New(0x0009, 0x0010)
	privateTag     = tag.New(0x0009, 0x1001)
	thicknessTag   = tag.New(0x0018, 0x0050)
	collimationTag = tag.New(0x0018, 0x9306)
	instanceNumTag = tag.New(0x0020, 0x0013)
	positionTag    = tag.New(0x0020, 0x0032)
	pointerTag     = tag.New(0x0028, 0x0009)
	spacingTag     = tag.New(0x0028, 0x0030)
)

// sample writes a dataset covering every codec kind in ascending tag order
func sample(b *builder, patientName string) []byte {
	b.text(tag.SpecificCharacterSet, vr.CS, "ISO_IR 192").
		text(tag.ImageType, vr.CS, `ORIGINAL\PRIMARY`).
		element(tag.SOPClassUID, vr.UI, uid("1.2.840.10008.5.1.4.1.1.7"))
	b.header(sequenceTag, vr.SQ, undefinedLength).
		delimiter(tag.Item, undefinedLength).
		element(refClassTag, vr.UI, uid("1.2.3")).
		element(refInstanceTag, vr.UI, uid("1.2.3.4")).
		delimiter(tag.ItemDelimitationItem, 0).
		delimiter(tag.SequenceDelimitationItem, 0)
	b.text(creatorTag, vr.LO, "ACME").
		element(privateTag, vr.UN, []byte{1, 2, 3, 4}).
		text(tag.PatientName, vr.PN, patientName).
		text(thicknessTag, vr.DS, "1.50").
		fd(collimationTag, 1.25).
		text(instanceNumTag, vr.IS, "+5").
		text(positionTag, vr.DS, `-1.0\2.50\3 `)
	b.header(pointerTag, vr.AT, 4).u16(0x0018).u16(0x1063)
	b.us(tag.Rows, 512).
		text(spacingTag, vr.DS, `0.5\0.5 `).
		element(tag.PixelData, vr.OW, []byte{0x01, 0x02, 0x03, 0x04})
	return b.bytes()
}

// buildFile wraps dataset bytes in a preamble and a meta group naming syntax
func buildFile(syntax transfer.Syntax, dataset []byte) []byte {
	meta := explicitLE().
		element(tag.FileMetaInformationVersion, vr.OB, []byte{0x00, 0x01}).
		element(tag.MediaStorageSOPClassUID, vr.UI, uid("1.2.840.10008.5.1.4.1.1.7")).
		element(tag.TransferSyntaxUID, vr.UI, uid(string(syntax))).
		bytes()
	out := explicitLE().raw(make([]byte, preambleSize)).raw([]byte(magic))
	out.header(tag.FileMetaInformationGroupLength, vr.UL, 4).u32(uint32(len(meta)))
	return out.raw(meta).raw(dataset).bytes()
}
