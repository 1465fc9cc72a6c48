package dicom

import (
	"errors"
	"fmt"

	"github.com/jpfielding/dcmcodec/pkg/dicom/dictionary"
	"github.com/jpfielding/dcmcodec/pkg/dicom/stream"
	"github.com/jpfielding/dcmcodec/pkg/dicom/tag"
	"github.com/jpfielding/dcmcodec/pkg/dicom/transfer"
	"github.com/jpfielding/dcmcodec/pkg/dicom/vr"
)

// ReadDataset decodes every element of data framed with the transfer syntax uid
func ReadDataset(data []byte, uid string, opts ReadOptions) (Dict, error) {
	return readDict(stream.NewReader(data), newParseContext(uid, opts))
}

// readDict reads elements until the end of the range or the stop tag
func readDict(r *stream.Reader, pc *parseContext) (Dict, error) {
	d := make(Dict)
	for !r.End() {
		offset := r.Offset()
		el, ctl, err := readElement(r, pc)
		if err == nil && ctl != stopBefore {
			err = pc.insert(d, el)
		}
		if err != nil {
			if !pc.opts.IgnoreErrors || errors.Is(err, ErrMalformedFile) {
				return nil, err
			}
			pc.log.Warn("returning partial dataset", "offset", offset, "elements", len(d), "error", err)
			return d, nil
		}
		if ctl != next {
			break
		}
	}
	return d, nil
}

// insert adds el to d, applying the Specific Character Set first
func (pc *parseContext) insert(d Dict, el *Element) error {
	if el.Tag == tag.SpecificCharacterSet {
		if err := pc.applyCharset(el); err != nil {
			return err
		}
	}
	key := el.Tag.Key()
	if _, ok := d[key]; ok {
		pc.log.Warn("duplicate element", "tag", el.Tag)
		return nil
	}
	d[key] = entryOf(el)
	return nil
}

func readElement(r *stream.Reader, pc *parseContext) (*Element, loopControl, error) {
	t, err := tag.Read(r, pc.order)
	if err != nil {
		return nil, next, err
	}
	ctl := next
	if until := pc.opts.UntilTag; until != nil && t == *until {
		if !pc.opts.IncludeUntilTagValue {
			return nil, stopBefore, nil
		}
		ctl = stopAfter
	}

	v, length, err := readHeader(r, t, pc)
	if err != nil {
		return nil, next, fmt.Errorf("element %s: %w", t, err)
	}
	vpc := pc
	if v == vr.UN && !pc.implicit {
		if v, r, vpc, err = reclassify(r, t, length, pc); err != nil {
			return nil, next, fmt.Errorf("element %s: %w", t, err)
		}
	}

	c := codecFor(v)
	raw, err := c.decode(r, length, vpc)
	if err != nil {
		return nil, next, fmt.Errorf("element %s %s: %w", t, v, err)
	}
	values, raws := reconcile(c, raw)
	return &Element{Tag: t, VR: v, Values: values, RawValues: raws}, ctl, nil
}

// readHeader reads the VR and value length following a tag
func readHeader(r *stream.Reader, t tag.Tag, pc *parseContext) (vr.VR, uint32, error) {
	if pc.implicit {
		length, err := r.Uint32(pc.order)
		if err != nil {
			return "", 0, err
		}
		return implicitVR(t, length), length, nil
	}

	code, err := r.ASCII(2)
	if err != nil {
		return "", 0, err
	}
	v, err := vr.Parse(code)
	if err != nil {
		return "", 0, err
	}
	if v.HasLongLength() {
		if err := r.Skip(2); err != nil {
			return "", 0, err
		}
		length, err := r.Uint32(pc.order)
		return v, length, err
	}
	length, err := r.Uint16(pc.order)
	return v, uint32(length), err
}

// implicitVR resolves the VR of an implicit VR element from the dictionary,
// falling back on the length and the tag
func implicitVR(t tag.Tag, length uint32) vr.VR {
	if e, ok := dictionary.Lookup(t); ok {
		return e.Resolved()
	}
	switch {
	case length == undefinedLength:
		return vr.SQ
	case t.IsPixelData():
		return vr.OW
	case t.IsPrivateCreator():
		return vr.LO
	default:
		return vr.UN
	}
}

// reclassify resolves an explicit UN element. Its value is implicit VR little
// endian, so it is decoded as the dictionary VR. With an undefined length it
// is a fragment list for OB and OW attributes and a sequence otherwise.
func reclassify(r *stream.Reader, t tag.Tag, length uint32, pc *parseContext) (vr.VR, *stream.Reader, *parseContext, error) {
	e, ok := dictionary.Lookup(t)
	if length == undefinedLength {
		if ok && (e.Resolved() == vr.OB || e.Resolved() == vr.OW) {
			return e.Resolved(), r, pc.reframe(transfer.ImplicitVRLittleEndian), nil
		}
		return vr.SQ, r, pc.reframe(transfer.ImplicitVRLittleEndian), nil
	}
	if !ok || e.Resolved() == vr.UN {
		return vr.UN, r, pc, nil
	}
	sub, err := r.More(int(length))
	if err != nil {
		return "", nil, nil, err
	}
	return e.Resolved(), sub, pc.reframe(transfer.ImplicitVRLittleEndian), nil
}

// reconcile turns a decoded raw value into the parallel value and raw arrays.
// Text is split on the multiplicity delimiter unless the VR is single valued.
func reconcile(c codec, raw any) (values, raws []any) {
	switch x := raw.(type) {
	case []any:
		raws = x
	case string:
		tc, ok := c.(textCodec)
		if !ok {
			raws = []any{x}
			break
		}
		raws = tc.components(x)
	default:
		raws = []any{x}
	}
	values = make([]any, len(raws))
	for i, rv := range raws {
		values[i] = c.format(rv)
	}
	return values, raws
}
