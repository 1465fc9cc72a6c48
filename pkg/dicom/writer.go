package dicom

import (
	"fmt"
	"io"
	"reflect"
	"sync/atomic"

	"github.com/jpfielding/dcmcodec/pkg/dicom/tag"
	"github.com/jpfielding/dcmcodec/pkg/dicom/vr"
)

// Write encodes d in the transfer syntax uid, in ascending tag order, and
// returns the number of bytes written
func Write(w io.Writer, d Dict, uid string, opts WriteOptions) (int64, error) {
	cw := &CountingWriter{Writer: w}
	err := writeDict(cw, d, newEncodeContext(uid, opts))
	return cw.Count.Load(), err
}

func writeDict(w io.Writer, d Dict, ec *encodeContext) error {
	for _, key := range d.Keys() {
		e := d[key]
		if e == nil {
			continue
		}
		t, err := tag.Parse(key)
		if err != nil {
			return fmt.Errorf("dictionary key: %w", err)
		}
		if err := writeElement(w, t, e, ec); err != nil {
			return fmt.Errorf("failed to write element %s: %w", t, err)
		}
	}
	return nil
}

// writeValues picks what to encode for e: the raw values when the entry is
// unchanged since it was read, otherwise the current values. fresh reports
// that the current values were picked.
func writeValues(e *Entry) (values []any, fresh bool) {
	if e.RawValue == nil {
		return e.Value, true
	}
	c := codecFor(e.VR)
	formatted := make([]any, len(e.RawValue))
	for i, raw := range e.RawValue {
		formatted[i] = c.format(raw)
	}
	if reflect.DeepEqual(formatted, e.Value) {
		return e.RawValue, false
	}
	return e.Value, true
}

func writeElement(w io.Writer, t tag.Tag, e *Entry, ec *encodeContext) error {
	if !e.VR.IsKnown() {
		return fmt.Errorf("unknown VR %q", e.VR)
	}
	values, fresh := writeValues(e)

	var (
		body   []byte
		length uint32
		err    error
	)
	switch {
	case ec.desc.Encapsulated && t.IsPixelData() && (e.VR == vr.OB || e.VR == vr.OW):
		body, err = encodeFragments(values, ec)
		length = undefinedLength
	default:
		body, err = codecFor(e.VR).encode(values, fresh, ec)
		length = uint32(len(body))
		if e.VR == vr.SQ {
			length = undefinedLength
		}
	}
	if err != nil {
		return err
	}
	if err := writeHeader(w, t, e.VR, length, ec); err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

// writeHeader writes the tag, the VR in explicit syntaxes, and the value length
func writeHeader(w io.Writer, t tag.Tag, v vr.VR, length uint32, ec *encodeContext) error {
	order := ec.desc.ByteOrder()
	var buf [12]byte
	order.PutUint16(buf[0:], t.Group)
	order.PutUint16(buf[2:], t.Element)
	var n int
	switch {
	case ec.desc.ImplicitVR:
		order.PutUint32(buf[4:], length)
		n = 8
	case v.HasLongLength():
		copy(buf[4:], v)
		order.PutUint32(buf[8:], length)
		n = 12
	default:
		if length > 0xFFFF {
			return fmt.Errorf("%s value of %d bytes exceeds the 16 bit length field", v, length)
		}
		copy(buf[4:], v)
		order.PutUint16(buf[6:], uint16(length))
		n = 8
	}
	_, err := w.Write(buf[:n])
	return err
}

// CountingWriter counts the bytes written through it
type CountingWriter struct {
	Count  atomic.Int64
	Writer io.Writer
}

func (c *CountingWriter) Write(p []byte) (int, error) {
	n, err := c.Writer.Write(p)
	c.Count.Add(int64(n))
	return n, err
}
