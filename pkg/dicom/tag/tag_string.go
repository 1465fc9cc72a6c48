package tag

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// String returns a string representation of the Tag (GGGG,EEEE)
func (t Tag) String() string {
	return fmt.Sprintf("(%04X,%04X)", t.Group, t.Element)
}

// Key returns the 8 hex digit dictionary key, e.g. "00100010"
func (t Tag) Key() string {
	return fmt.Sprintf("%04X%04X", t.Group, t.Element)
}

// MarshalJSON returns a JSON representation of the Tag
func (t Tag) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Parse accepts "GGGGEEEE", "(GGGG,EEEE)" or "GGGG,EEEE" in either case
func Parse(s string) (Tag, error) {
	clean := strings.NewReplacer("(", "", ")", "", ",", "", " ", "").Replace(s)
	if len(clean) != 8 {
		return Tag{}, fmt.Errorf("invalid tag %q", s)
	}
	v, err := strconv.ParseUint(clean, 16, 32)
	if err != nil {
		return Tag{}, fmt.Errorf("invalid tag %q: %w", s, err)
	}
	return FromUint32(uint32(v)), nil
}

// MustParse is Parse for compile-time constant keys
func MustParse(s string) Tag {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}
