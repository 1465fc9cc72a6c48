package dicom

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jpfielding/dcmcodec/pkg/dicom/dictionary"
	"github.com/jpfielding/dcmcodec/pkg/dicom/tag"
	"github.com/jpfielding/dcmcodec/pkg/dicom/vr"
	"github.com/jpfielding/dcmcodec/pkg/util"
)

// String lists the entries in tag order, one per line, with sequence items indented
func (d Dict) String() string {
	var b strings.Builder
	d.print(&b, "")
	return b.String()
}

func (d Dict) print(b *strings.Builder, indent string) {
	for _, key := range d.Keys() {
		e := d[key]
		if e == nil {
			continue
		}
		t, _ := tag.Parse(key)
		name := dictionary.Keyword(t)
		if name != "" {
			name = " " + name
		}
		if e.VR == vr.SQ {
			fmt.Fprintf(b, "%s%s %s%s: %d items\n", indent, t, e.VR, name, len(e.Value))
			for i, v := range e.Value {
				item, ok := v.(Dict)
				if !ok {
					continue
				}
				fmt.Fprintf(b, "%s  > item %d\n", indent, i)
				item.print(b, indent+"    ")
			}
			continue
		}
		fmt.Fprintf(b, "%s%s %s%s: %s\n", indent, t, e.VR, name, valueString(e.Value))
	}
}

func valueString(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		switch x := v.(type) {
		case []byte:
			if len(x) > 16 {
				parts[i] = fmt.Sprintf("<%d bytes md5:%s>", len(x), util.Md5ThenHex(x))
			} else {
				parts[i] = fmt.Sprintf("%X", x)
			}
		default:
			parts[i] = fmt.Sprint(x)
		}
	}
	return strings.Join(parts, `\`)
}

type jsonElement struct {
	Tag   tag.Tag `json:"tag"`
	Name  string  `json:"name,omitempty"`
	VR    string  `json:"vr"`
	Value []any   `json:"value"`
}

type jsonBinary struct {
	Length int    `json:"length"`
	MD5    string `json:"md5"`
}

// MarshalJSON returns the entries as an array in tag order. Binary values
// are summarized by length and digest.
func (d Dict) MarshalJSON() ([]byte, error) {
	elements := make([]jsonElement, 0, len(d))
	for _, key := range d.Keys() {
		e := d[key]
		if e == nil {
			continue
		}
		t, err := tag.Parse(key)
		if err != nil {
			return nil, err
		}
		values := make([]any, len(e.Value))
		for i, v := range e.Value {
			if b, ok := v.([]byte); ok {
				v = jsonBinary{Length: len(b), MD5: util.Md5ThenHex(b)}
			}
			values[i] = v
		}
		elements = append(elements, jsonElement{
			Tag:   t,
			Name:  dictionary.Keyword(t),
			VR:    string(e.VR),
			Value: values,
		})
	}
	return json.Marshal(elements)
}
