package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Shape describes which variant a Field currently holds.
type Shape int

const (
	// Unset means no line has contributed to the field.
	Unset Shape = iota
	// Single means the field was collapsed or overwritten into one string.
	Single
	// Multiple means the field is an ordered list of matched strings.
	Multiple
)

func (s Shape) String() string {
	switch s {
	case Unset:
		return "unset"
	case Single:
		return "single"
	case Multiple:
		return "multiple"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// Field is the accumulated value of one record attribute.
// The zero value is Unset.
type Field struct {
	shape  Shape
	single string
	values []string
}

// SingleField returns a field holding one collapsed string.
func SingleField(v string) Field {
	return Field{shape: Single, single: v}
}

// MultipleField returns a field holding the given values in order.
// With no values it returns an Unset field.
func MultipleField(values ...string) Field {
	if len(values) == 0 {
		return Field{}
	}
	return Field{shape: Multiple, values: append([]string(nil), values...)}
}

// Shape returns the current variant.
func (f Field) Shape() Shape { return f.shape }

// IsUnset reports whether nothing was accumulated.
func (f Field) IsUnset() bool { return f.shape == Unset }

// Len returns the number of list entries; a Single field counts as one.
func (f Field) Len() int {
	switch f.shape {
	case Single:
		return 1
	case Multiple:
		return len(f.values)
	default:
		return 0
	}
}

// Values returns the field contents as a fresh slice.
func (f Field) Values() []string {
	switch f.shape {
	case Single:
		return []string{f.single}
	case Multiple:
		return append([]string(nil), f.values...)
	default:
		return nil
	}
}

// String flattens the field for display and storage: list entries are joined
// with a single space, a Single field is returned verbatim.
func (f Field) String() string {
	switch f.shape {
	case Single:
		return f.single
	case Multiple:
		return strings.Join(f.values, " ")
	default:
		return ""
	}
}

// add appends v to the list. A Single field becomes Multiple[single, v].
func (f *Field) add(v string) {
	switch f.shape {
	case Unset:
		f.shape = Multiple
		f.values = []string{v}
	case Single:
		f.shape = Multiple
		f.values = []string{f.single, v}
		f.single = ""
	case Multiple:
		f.values = append(f.values, v)
	}
}

// overwrite replaces whatever the field holds with Single(v).
func (f *Field) overwrite(v string) {
	f.shape = Single
	f.single = v
	f.values = nil
}

// collapse joins a Multiple field into Single using sep.
func (f *Field) collapse(sep string) {
	if f.shape != Multiple {
		return
	}
	f.overwrite(strings.Join(f.values, sep))
}

// dropOldest removes the first list entry.
func (f *Field) dropOldest() {
	if f.shape != Multiple {
		return
	}
	f.values = f.values[1:]
	if len(f.values) == 0 {
		*f = Field{}
	}
}

// MarshalJSON encodes Unset as [], Single as a string and Multiple as an array.
func (f Field) MarshalJSON() ([]byte, error) {
	switch f.shape {
	case Single:
		return json.Marshal(f.single)
	case Multiple:
		return json.Marshal(f.values)
	default:
		return []byte("[]"), nil
	}
}

// UnmarshalJSON accepts the shapes produced by MarshalJSON.
func (f *Field) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = Field{}
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("unmarshaling single field: %w", err)
		}
		*f = SingleField(s)
		return nil
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("unmarshaling field list: %w", err)
	}
	*f = MultipleField(values...)
	return nil
}
