package dicom

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jpfielding/dcmcodec/pkg/dicom/stream"
	"github.com/jpfielding/dcmcodec/pkg/dicom/tag"
)

// readSequence reads the items of an SQ value. A defined length bounds the
// items, an undefined length runs to the Sequence Delimitation Item.
func readSequence(r *stream.Reader, length uint32, pc *parseContext) ([]any, error) {
	delimited := length == undefinedLength
	if !delimited {
		sub, err := r.More(int(length))
		if err != nil {
			return nil, err
		}
		r = sub
	}
	items := []any{}
	ipc := pc.nested()
	for !r.End() {
		t, err := tag.Read(r, pc.order)
		if err != nil {
			return nil, err
		}
		itemLength, err := r.Uint32(pc.order)
		if err != nil {
			return nil, fmt.Errorf("item %d length: %w", len(items), err)
		}
		switch t {
		case tag.SequenceDelimitationItem:
			return items, nil
		case tag.Item:
			item, err := readItem(r, itemLength, ipc)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", len(items), err)
			}
			items = append(items, item)
		default:
			return nil, fmt.Errorf("unexpected %s in sequence", t)
		}
	}
	if delimited {
		return nil, fmt.Errorf("sequence delimiter missing: %w", io.ErrUnexpectedEOF)
	}
	return items, nil
}

// readItem reads the elements of one sequence item
func readItem(r *stream.Reader, length uint32, pc *parseContext) (Dict, error) {
	delimited := length == undefinedLength
	if !delimited {
		sub, err := r.More(int(length))
		if err != nil {
			return nil, err
		}
		r = sub
	}
	d := make(Dict)
	for !r.End() {
		if delimited {
			offset := r.Offset()
			t, err := tag.Read(r, pc.order)
			if err != nil {
				return nil, err
			}
			if t == tag.ItemDelimitationItem {
				_, err := r.Uint32(pc.order)
				return d, err
			}
			if err := r.Seek(offset); err != nil {
				return nil, err
			}
		}
		el, _, err := readElement(r, pc)
		if err != nil {
			return nil, err
		}
		if err := pc.insert(d, el); err != nil {
			return nil, err
		}
	}
	if delimited {
		return nil, fmt.Errorf("item delimiter missing: %w", io.ErrUnexpectedEOF)
	}
	return d, nil
}

// readFragments reads encapsulated pixel data: a list of items, the first
// being the basic offset table, ended by a Sequence Delimitation Item
func readFragments(r *stream.Reader, pc *parseContext) ([]any, error) {
	fragments := []any{}
	for {
		t, err := tag.Read(r, pc.order)
		if err != nil {
			return nil, err
		}
		length, err := r.Uint32(pc.order)
		if err != nil {
			return nil, err
		}
		switch t {
		case tag.SequenceDelimitationItem:
			return fragments, nil
		case tag.Item:
			b, err := r.Bytes(int(length))
			if err != nil {
				return nil, fmt.Errorf("fragment %d: %w", len(fragments), err)
			}
			fragments = append(fragments, b)
		default:
			return nil, fmt.Errorf("unexpected %s in encapsulated pixel data", t)
		}
	}
}

// encodeSequence writes every item with undefined length followed by the
// Sequence Delimitation Item
func encodeSequence(items []any, ec *encodeContext) ([]byte, error) {
	var buf bytes.Buffer
	for i, v := range items {
		var item Dict
		switch x := v.(type) {
		case Dict:
			item = x
		case map[string]*Entry:
			item = x
		case nil:
			item = Dict{}
		default:
			return nil, fmt.Errorf("item %d: unsupported %T value for SQ", i, v)
		}
		if err := writeDelimiter(&buf, tag.Item, undefinedLength, ec); err != nil {
			return nil, err
		}
		if err := writeDict(&buf, item, ec); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if err := writeDelimiter(&buf, tag.ItemDelimitationItem, 0, ec); err != nil {
			return nil, err
		}
	}
	if err := writeDelimiter(&buf, tag.SequenceDelimitationItem, 0, ec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeFragments writes encapsulated pixel data, one item per fragment
func encodeFragments(fragments []any, ec *encodeContext) ([]byte, error) {
	var buf bytes.Buffer
	if len(fragments) == 0 {
		// empty basic offset table
		fragments = []any{[]byte{}}
	}
	for i, v := range fragments {
		b, ok := v.([]byte)
		if !ok {
			return nil, fmt.Errorf("fragment %d: unsupported %T value", i, v)
		}
		if len(b)%2 != 0 {
			b = append(b[:len(b):len(b)], 0x00)
		}
		if err := writeDelimiter(&buf, tag.Item, uint32(len(b)), ec); err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	if err := writeDelimiter(&buf, tag.SequenceDelimitationItem, 0, ec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeDelimiter writes an item or delimitation tag and its 4 byte length
func writeDelimiter(w io.Writer, t tag.Tag, length uint32, ec *encodeContext) error {
	order := ec.desc.ByteOrder()
	if err := tag.Write(w, t, order); err != nil {
		return err
	}
	var b [4]byte
	order.PutUint32(b[:], length)
	_, err := w.Write(b[:])
	return err
}
