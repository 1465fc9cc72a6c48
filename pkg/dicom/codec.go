package dicom

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jpfielding/dcmcodec/pkg/dicom/stream"
	"github.com/jpfielding/dcmcodec/pkg/dicom/tag"
	"github.com/jpfielding/dcmcodec/pkg/dicom/transfer"
	"github.com/jpfielding/dcmcodec/pkg/dicom/vr"
)

// codec is the value behavior of one VR kind
type codec interface {
	// decode reads length bytes and returns the raw value. Kinds that produce
	// several values per element return []any.
	decode(r *stream.Reader, length uint32, pc *parseContext) (any, error)
	// format converts one raw value to its logical form
	format(raw any) any
	// encode produces the value bytes. fresh is false when values are raw
	// values being written back unchanged.
	encode(values []any, fresh bool, ec *encodeContext) ([]byte, error)
}

func codecFor(v vr.VR) codec {
	switch v {
	case vr.AE, vr.AS, vr.CS, vr.DA, vr.DS, vr.DT, vr.IS, vr.LO, vr.LT, vr.PN,
		vr.SH, vr.ST, vr.TM, vr.UC, vr.UI, vr.UR, vr.UT:
		return textCodec{vr: v}
	case vr.FL, vr.FD, vr.SL, vr.SS, vr.SV, vr.UL, vr.US, vr.UV:
		return numericCodec{vr: v}
	case vr.AT:
		return tagCodec{}
	case vr.OB, vr.OD, vr.OF, vr.OL, vr.OV, vr.OW, vr.UN:
		return bulkCodec{vr: v}
	case vr.SQ:
		return sequenceCodec{}
	default:
		return bulkCodec{vr: vr.UN}
	}
}

type encodeContext struct {
	desc transfer.Descriptor
	opts WriteOptions
}

func newEncodeContext(uid string, opts WriteOptions) *encodeContext {
	return &encodeContext{desc: transfer.Describe(uid), opts: opts}
}

// text

type textCodec struct {
	vr vr.VR
}

func (c textCodec) decode(r *stream.Reader, length uint32, pc *parseContext) (any, error) {
	if length == undefinedLength {
		return nil, fmt.Errorf("undefined length for %s", c.vr)
	}
	if !c.vr.IsEncodedText() {
		return r.ASCII(int(length))
	}
	b, err := r.Bytes(int(length))
	if err != nil {
		return nil, err
	}
	return pc.decoder.Decode(b)
}

// components splits a raw string into its values and drops the pad byte
// from the last one
func (c textCodec) components(raw string) []any {
	parts := []string{raw}
	if !c.vr.IsSingleValue() {
		parts = strings.Split(raw, string(vr.Delimiter))
	}
	last := len(parts) - 1
	parts[last] = strings.TrimSuffix(parts[last], string(c.vr.PadByte()))
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = p
	}
	return out
}

func (c textCodec) format(raw any) any {
	s, ok := raw.(string)
	if !ok {
		return raw
	}
	switch c.vr {
	case vr.LT, vr.ST, vr.UT, vr.UR:
		return strings.TrimRight(s, " ")
	case vr.UI:
		return strings.TrimRight(s, " \x00")
	case vr.DS:
		s = strings.TrimSpace(s)
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
		return s
	case vr.IS:
		s = strings.TrimSpace(s)
		if n, err := strconv.ParseInt(strings.TrimPrefix(s, "+"), 10, 64); err == nil {
			return n
		}
		return s
	default:
		return strings.TrimSpace(s)
	}
}

func (c textCodec) encode(values []any, fresh bool, ec *encodeContext) ([]byte, error) {
	parts := make([]string, len(values))
	for i, v := range values {
		s, err := c.text(v)
		if err != nil {
			return nil, err
		}
		if limit := c.vr.MaxLength(); fresh && limit > 0 && len(s) > limit && !ec.opts.AllowInvalidVRLength {
			return nil, fmt.Errorf("%s value %q is %d bytes, limit is %d", c.vr, s, len(s), limit)
		}
		parts[i] = s
	}
	b := []byte(strings.Join(parts, string(vr.Delimiter)))
	if len(b)%2 != 0 {
		b = append(b, c.vr.PadByte())
	}
	return b, nil
}

func (c textCodec) text(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case float64:
		return formatDecimal(x, c.vr.MaxLength()), nil
	case float32:
		return formatDecimal(float64(x), c.vr.MaxLength()), nil
	case []byte:
		return string(x), nil
	case fmt.Stringer:
		return x.String(), nil
	}
	if n, ok := asInt64(v); ok {
		return strconv.FormatInt(n, 10), nil
	}
	return "", fmt.Errorf("unsupported %T value for %s", v, c.vr)
}

// formatDecimal returns the shortest representation of f, reducing precision
// until it fits limit bytes
func formatDecimal(f float64, limit int) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	for prec := 15; limit > 0 && len(s) > limit && prec > 0; prec-- {
		s = strconv.FormatFloat(f, 'g', prec, 64)
	}
	return s
}

// numeric

type numericCodec struct {
	vr vr.VR
}

func (c numericCodec) decode(r *stream.Reader, length uint32, pc *parseContext) (any, error) {
	size := uint32(c.vr.ValueSize())
	if length == undefinedLength || length%size != 0 {
		return nil, fmt.Errorf("%s length %d is not a multiple of %d", c.vr, length, size)
	}
	out := make([]any, 0, length/size)
	for range length / size {
		var v any
		switch c.vr {
		case vr.US, vr.SS:
			u, err := r.Uint16(pc.order)
			if err != nil {
				return nil, err
			}
			v = u
			if c.vr == vr.SS {
				v = int16(u)
			}
		case vr.UL, vr.SL, vr.FL:
			u, err := r.Uint32(pc.order)
			if err != nil {
				return nil, err
			}
			switch c.vr {
			case vr.UL:
				v = u
			case vr.SL:
				v = int32(u)
			default:
				v = math.Float32frombits(u)
			}
		default:
			u, err := r.Uint64(pc.order)
			if err != nil {
				return nil, err
			}
			switch c.vr {
			case vr.UV:
				v = u
			case vr.SV:
				v = int64(u)
			default:
				v = math.Float64frombits(u)
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func (c numericCodec) format(raw any) any {
	return raw
}

func (c numericCodec) encode(values []any, _ bool, ec *encodeContext) ([]byte, error) {
	order := ec.desc.ByteOrder()
	var tmp [8]byte
	out := make([]byte, 0, len(values)*c.vr.ValueSize())
	for _, v := range values {
		switch c.vr {
		case vr.FL, vr.FD:
			f, ok := asFloat64(v)
			if !ok {
				return nil, fmt.Errorf("unsupported %T value for %s", v, c.vr)
			}
			if c.vr == vr.FL {
				order.PutUint32(tmp[:4], math.Float32bits(float32(f)))
			} else {
				order.PutUint64(tmp[:8], math.Float64bits(f))
			}
		default:
			n, err := c.integer(v)
			if err != nil {
				return nil, err
			}
			switch c.vr.ValueSize() {
			case 2:
				order.PutUint16(tmp[:2], uint16(n))
			case 4:
				order.PutUint32(tmp[:4], uint32(n))
			default:
				order.PutUint64(tmp[:8], n)
			}
		}
		out = append(out, tmp[:c.vr.ValueSize()]...)
	}
	return out, nil
}

// integer returns the two's complement bits of v after checking it fits the VR
func (c numericCodec) integer(v any) (uint64, error) {
	if u, ok := v.(uint64); ok && c.vr == vr.UV {
		return u, nil
	}
	n, ok := asInt64(v)
	if !ok {
		return 0, fmt.Errorf("unsupported %T value for %s", v, c.vr)
	}
	var lo, hi int64
	switch c.vr {
	case vr.US:
		lo, hi = 0, math.MaxUint16
	case vr.SS:
		lo, hi = math.MinInt16, math.MaxInt16
	case vr.UL:
		lo, hi = 0, math.MaxUint32
	case vr.SL:
		lo, hi = math.MinInt32, math.MaxInt32
	case vr.UV:
		lo, hi = 0, math.MaxInt64
	default:
		lo, hi = math.MinInt64, math.MaxInt64
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%d out of range for %s", n, c.vr)
	}
	return uint64(n), nil
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), x <= math.MaxInt64
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), x <= math.MaxInt64
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	n, ok := asInt64(v)
	return float64(n), ok
}

// attribute tags

type tagCodec struct{}

func (tagCodec) decode(r *stream.Reader, length uint32, pc *parseContext) (any, error) {
	if length == undefinedLength || length%4 != 0 {
		return nil, fmt.Errorf("AT length %d is not a multiple of 4", length)
	}
	out := make([]any, 0, length/4)
	for range length / 4 {
		t, err := tag.Read(r, pc.order)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (tagCodec) format(raw any) any {
	return raw
}

func (tagCodec) encode(values []any, _ bool, ec *encodeContext) ([]byte, error) {
	var buf bytes.Buffer
	for _, v := range values {
		var t tag.Tag
		switch x := v.(type) {
		case tag.Tag:
			t = x
		case uint32:
			t = tag.FromUint32(x)
		case string:
			parsed, err := tag.Parse(x)
			if err != nil {
				return nil, err
			}
			t = parsed
		default:
			return nil, fmt.Errorf("unsupported %T value for AT", v)
		}
		if err := tag.Write(&buf, t, ec.desc.ByteOrder()); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// bulk binary

type bulkCodec struct {
	vr vr.VR
}

func (c bulkCodec) decode(r *stream.Reader, length uint32, pc *parseContext) (any, error) {
	if length == undefinedLength {
		return readFragments(r, pc)
	}
	return r.Bytes(int(length))
}

func (c bulkCodec) format(raw any) any {
	return raw
}

func (c bulkCodec) encode(values []any, _ bool, _ *encodeContext) ([]byte, error) {
	var out []byte
	for _, v := range values {
		b, ok := v.([]byte)
		if !ok {
			return nil, fmt.Errorf("unsupported %T value for %s", v, c.vr)
		}
		out = append(out, b...)
	}
	if len(out)%2 != 0 {
		out = append(out, c.vr.PadByte())
	}
	return out, nil
}

// sequences

type sequenceCodec struct{}

func (sequenceCodec) decode(r *stream.Reader, length uint32, pc *parseContext) (any, error) {
	return readSequence(r, length, pc)
}

func (sequenceCodec) format(raw any) any {
	return raw
}

func (sequenceCodec) encode(values []any, _ bool, ec *encodeContext) ([]byte, error) {
	return encodeSequence(values, ec)
}
