package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// reLeadingNumber matches the numeric prefix of values such as "85%" or " 12.5 h".
var reLeadingNumber = regexp.MustCompile(`^\s*[-+]?(\d+(\.\d*)?|\.\d+)`)

// Number is a lenient numeric field. The backend sends hours, counts and
// efficiencies as JSON numbers, numeric strings, "NN%" strings or null.
// Anything that cannot be read as a number decodes with Valid=false and Value=0.
type Number struct {
	Value float64
	Raw   string
	Valid bool
}

// NewNumber returns a valid Number holding v.
func NewNumber(v float64) Number {
	return Number{Value: v, Raw: strconv.FormatFloat(v, 'f', -1, 64), Valid: true}
}

func (n *Number) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	*n = Number{}
	if s == "" || s == "null" {
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return nil
		}
		n.Raw = str
		if v, ok := leadingNumber(str); ok {
			n.Value, n.Valid = v, true
		}
		return nil
	}
	n.Raw = s
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		n.Value, n.Valid = v, true
	}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Int truncates toward zero, mirroring how efficiency strings were read by the pages.
func (n Number) Int() int {
	if !n.Valid {
		return 0
	}
	return int(n.Value)
}

// String returns the backend's own text when it was not numeric.
func (n Number) String() string {
	if n.Valid {
		return strconv.FormatFloat(n.Value, 'f', -1, 64)
	}
	return n.Raw
}

// Fixed formats the value with one decimal place; invalid values read as 0.0.
func (n Number) Fixed() string {
	return fmt.Sprintf("%.1f", n.Value)
}

func leadingNumber(s string) (float64, bool) {
	m := reLeadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(m), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ID accepts either a JSON string or number and keeps its text form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	switch {
	case s == "null":
		*id = ""
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(str)
	default:
		*id = ID(s)
	}
	return nil
}

func (id ID) String() string { return string(id) }
