package pkg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexFloat decodes from a JSON number, a numeric string, or null.
// HTML forms and some clients send numbers as strings.
type FlexFloat struct {
	Value float64
	Set   bool
}

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = FlexFloat{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return f.parse(s)
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("not a number: %s", data)
	}
	*f = FlexFloat{Value: v, Set: true}
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

func (f *FlexFloat) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*f = FlexFloat{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("not a number: %q", s)
	}
	*f = FlexFloat{Value: v, Set: true}
	return nil
}

// ParseFlexFloat parses a form value the same way a JSON string is decoded.
func ParseFlexFloat(s string) (FlexFloat, error) {
	var f FlexFloat
	err := f.parse(s)
	return f, err
}

func (f FlexFloat) Ptr() *float64 {
	if !f.Set {
		return nil
	}
	v := f.Value
	return &v
}
