package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RawRecord is one entry of the situations time-series "data" array.
type RawRecord struct {
	Location       Text `json:"geomaster_name"`
	Origin         Text `json:"pop_origin_name"`
	PopulationType Text `json:"pop_type_name"`
	Source         Text `json:"source"`
	Date           Text `json:"date"`
	Individuals    Text `json:"individuals"`
}

// Text is a JSON scalar carried as text. Strings are unquoted, numbers and
// booleans keep their literal form and null becomes "".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*t = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	case b[0] == '{' || b[0] == '[':
		return fmt.Errorf("expected a scalar, got %s", b)
	default:
		*t = Text(b)
	}
	return nil
}

func (t Text) String() string {
	return string(t)
}
