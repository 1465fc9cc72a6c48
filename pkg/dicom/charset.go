package dicom

import (
	"fmt"

	"github.com/jpfielding/dcmcodec/pkg/dicom/charset"
)

// applyCharset installs the decoder declared by a Specific Character Set
// element and rewrites its value to UTF-8, the form every decoded string is
// in. The raw value is kept so the element is written fresh.
func (pc *parseContext) applyCharset(el *Element) error {
	var terms []string
	for _, v := range el.Values {
		if s, ok := v.(string); ok {
			terms = append(terms, s)
		}
	}
	el.Values = []any{charset.UTF8Term}
	if len(terms) == 0 {
		return nil
	}
	if len(terms) > 1 {
		err := recoverable(fmt.Errorf("%w: %q", ErrMultipleCharacterSets, terms))
		if err := pc.tolerate(err); err != nil {
			return err
		}
	}

	term := terms[0]
	if pc.decoder.Installed() {
		if charset.Normalize(term) == charset.Normalize(pc.decoder.Term()) {
			return nil
		}
		return pc.tolerate(recoverable(fmt.Errorf("%w: %q after %q", ErrMultipleCharacterSets, term, pc.decoder.Term())))
	}
	if err := pc.decoder.Install(term); err != nil {
		return pc.tolerate(recoverable(err))
	}
	pc.log.Debug("installed character set", "term", term)
	return nil
}
