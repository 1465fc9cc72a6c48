package dicom

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jpfielding/dcmcodec/pkg/dicom/tag"
	"github.com/jpfielding/dcmcodec/pkg/dicom/vr"
)

// Element is one decoded data element as it comes off the wire
type Element struct {
	Tag       tag.Tag
	VR        vr.VR
	Values    []any // formatted values
	RawValues []any // values before formatting, used to reproduce the original bytes
}

// Entry is the dictionary record for an element. A nil RawValue means the
// element has no preserved wire form and is always encoded from Value.
type Entry struct {
	VR       vr.VR `json:"vr"`
	Value    []any `json:"Value"`
	RawValue []any `json:"-"`
}

// NewEntry creates an entry with no raw value
func NewEntry(v vr.VR, values ...any) *Entry {
	return &Entry{VR: v, Value: values}
}

func entryOf(el *Element) *Entry {
	return &Entry{VR: el.VR, Value: el.Values, RawValue: el.RawValues}
}

// Dict maps 8 hex digit tag keys ("00100010") to entries
type Dict map[string]*Entry

// Get returns the entry for t
func (d Dict) Get(t tag.Tag) (*Entry, bool) {
	e, ok := d[t.Key()]
	return e, ok
}

// Set stores a freshly built entry for t, replacing any existing one
func (d Dict) Set(t tag.Tag, v vr.VR, values ...any) *Entry {
	e := NewEntry(v, values...)
	d[t.Key()] = e
	return e
}

// Keys returns the keys in ascending order, the order elements are written in
func (d Dict) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StringValue returns the first value of the entry for t as a string
func StringValue(d Dict, t tag.Tag) (string, bool) {
	e, ok := d.Get(t)
	if !ok || e == nil || len(e.Value) == 0 {
		return "", false
	}
	switch v := e.Value[0].(type) {
	case string:
		return strings.TrimRight(v, " \x00"), true
	default:
		return fmt.Sprint(v), true
	}
}

// Unmodified returns true if the entry still carries its wire form and its
// value has not been changed since it was read
func Unmodified(e *Entry) bool {
	_, fresh := writeValues(e)
	return !fresh
}

// Clone returns a copy of d whose entries can be edited without touching d.
// Sequence items are cloned recursively; byte values are shared.
func Clone(d Dict) Dict {
	out := make(Dict, len(d))
	for k, e := range d {
		if e == nil {
			continue
		}
		out[k] = &Entry{VR: e.VR, Value: cloneValues(e.Value), RawValue: cloneValues(e.RawValue)}
	}
	return out
}

func cloneValues(values []any) []any {
	if values == nil {
		return nil
	}
	out := make([]any, len(values))
	for i, v := range values {
		if item, ok := v.(Dict); ok {
			v = Clone(item)
		}
		out[i] = v
	}
	return out
}
