// Package charset maps Specific Character Set (0008,0005) defined terms to text
// encodings. See http://dicom.nema.org/medical/dicom/current/output/chtml/part02/sect_D.6.2.html
package charset

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

// UTF8Term is the defined term for UTF-8, the form all decoded text is normalized to
const UTF8Term = "ISO_IR 192"

var (
	// ErrUnsupported is returned for a defined term with no known encoding
	ErrUnsupported = errors.New("unsupported character set")
	// ErrMultiple is returned when more than one character set is declared
	ErrMultiple = errors.New("multiple character sets are not supported")
)

// Default is the repertoire used until a Specific Character Set is seen
var Default encoding.Encoding = charmap.ISO8859_1

// encodings is keyed by the normalized defined term
// TODO handle ISO 2022 escape sequences instead of mapping each term to one encoding
var encodings = map[string]encoding.Encoding{
	"":                charmap.ISO8859_1,
	"iso-ir-6":        charmap.ISO8859_1,
	"iso-ir-13":       japanese.ShiftJIS,
	"iso-ir-100":      charmap.ISO8859_1,
	"iso-ir-101":      charmap.ISO8859_2,
	"iso-ir-109":      charmap.ISO8859_3,
	"iso-ir-110":      charmap.ISO8859_4,
	"iso-ir-126":      charmap.ISO8859_7,
	"iso-ir-127":      charmap.ISO8859_6,
	"iso-ir-138":      charmap.ISO8859_8,
	"iso-ir-144":      charmap.ISO8859_5,
	"iso-ir-148":      charmap.ISO8859_9,
	"iso-ir-166":      charmap.Windows874,
	"iso-2022-ir-6":   charmap.ISO8859_1,
	"iso-2022-ir-13":  japanese.ShiftJIS,
	"iso-2022-ir-87":  japanese.ISO2022JP,
	"iso-2022-ir-100": charmap.ISO8859_1,
	"iso-2022-ir-101": charmap.ISO8859_2,
	"iso-2022-ir-109": charmap.ISO8859_3,
	"iso-2022-ir-110": charmap.ISO8859_4,
	"iso-2022-ir-126": charmap.ISO8859_7,
	"iso-2022-ir-127": charmap.ISO8859_6,
	"iso-2022-ir-138": charmap.ISO8859_8,
	"iso-2022-ir-144": charmap.ISO8859_5,
	"iso-2022-ir-148": charmap.ISO8859_9,
	"iso-2022-ir-149": korean.EUCKR,
	"iso-2022-ir-159": japanese.ISO2022JP,
	"iso-2022-ir-166": charmap.Windows874,
	"iso-2022-ir-58":  simplifiedchinese.GBK,
	"iso-ir-192":      unicode.UTF8,
	"gb18030":         simplifiedchinese.GB18030,
	"iso-2022-gbk":    simplifiedchinese.GBK,
	"iso-2022-58":     simplifiedchinese.GBK,
	"gbk":             simplifiedchinese.GBK,
}

// Normalize lower-cases a defined term and replaces underscores and spaces with hyphens
func Normalize(term string) string {
	return strings.ToLower(strings.NewReplacer("_", "-", " ", "-").Replace(term))
}

// Lookup returns the encoding for a defined term such as "ISO_IR 100"
func Lookup(term string) (encoding.Encoding, error) {
	enc, ok := encodings[Normalize(term)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, Normalize(term))
	}
	return enc, nil
}

// Decoder converts encoded text to UTF-8
type Decoder struct {
	term      string
	installed bool
	dec       *encoding.Decoder
}

// NewDecoder returns a Decoder for the default repertoire
func NewDecoder() *Decoder {
	return &Decoder{dec: Default.NewDecoder()}
}

// Term returns the defined term the decoder was installed from, "" for the default
func (d *Decoder) Term() string {
	return d.term
}

// Installed returns true once a Specific Character Set has replaced the default
func (d *Decoder) Installed() bool {
	return d.installed
}

// Install switches the decoder to the encoding of term
func (d *Decoder) Install(term string) error {
	enc, err := Lookup(term)
	if err != nil {
		return err
	}
	d.term = term
	d.installed = true
	d.dec = enc.NewDecoder()
	return nil
}

// Decode converts b to a UTF-8 string
func (d *Decoder) Decode(b []byte) (string, error) {
	out, err := d.dec.Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decoding %s text: %w", d.term, err)
	}
	return string(out), nil
}
