// Package types provides type definitions for structured data used throughout the resume-ranker system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var leadingNumber = regexp.MustCompile(`^[-+]?\d*\.?\d+`)

// FlexString decodes from a JSON string, number or boolean into its text form.
// Null, arrays and objects decode to the empty string.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = ""
			return nil
		}
		*f = FlexString(strings.TrimSpace(s))
	case '[', '{':
		*f = ""
	default:
		*f = FlexString(string(data))
	}
	return nil
}

// String returns the underlying text
func (f FlexString) String() string {
	return string(f)
}

// IsZero reports whether the value is empty
func (f FlexString) IsZero() bool {
	return strings.TrimSpace(string(f)) == ""
}

// OptionalFloat is a number that may be absent. Strings holding a number
// ("3.8", "3.8/4.0", " 12.5 ") decode to that number; anything else decodes
// as absent rather than failing.
type OptionalFloat struct {
	Value float64
	Valid bool
}

// Float returns a present OptionalFloat
func Float(v float64) OptionalFloat {
	return OptionalFloat{Value: v, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler
func (o *OptionalFloat) UnmarshalJSON(data []byte) error {
	*o = OptionalFloat{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var text string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return nil
		}
	} else {
		text = string(data)
	}

	if v, ok := parseLeadingFloat(text); ok {
		*o = OptionalFloat{Value: v, Valid: true}
	}
	return nil
}

// MarshalJSON implements json.Marshaler
func (o OptionalFloat) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// String formats the value the way it is cited in evidence text
func (o OptionalFloat) String() string {
	if !o.Valid {
		return ""
	}
	return strconv.FormatFloat(o.Value, 'f', -1, 64)
}

func parseLeadingFloat(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	match := leadingNumber.FindString(text)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FlexStrings decodes from either a JSON list of strings or a single string.
type FlexStrings []string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	*f = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '[':
		var raw []FlexString
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
		out := make([]string, 0, len(raw))
		for _, r := range raw {
			if !r.IsZero() {
				out = append(out, r.String())
			}
		}
		*f = out
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil && strings.TrimSpace(s) != "" {
			*f = []string{strings.TrimSpace(s)}
		}
	}
	return nil
}
