// Package catalog provides the product catalog data model and its sources.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PropertyType is the declared type of a property.
type PropertyType string

const (
	TypeString     PropertyType = "string"
	TypeNumber     PropertyType = "number"
	TypeEnumerated PropertyType = "enumerated"
)

func (t PropertyType) String() string { return string(t) }

// Valid reports whether t is one of the known property types.
func (t PropertyType) Valid() bool {
	switch t {
	case TypeString, TypeNumber, TypeEnumerated:
		return true
	}
	return false
}

// Property is a named, typed attribute products may carry a value for.
type Property struct {
	ID     int          `json:"id"`
	Name   string       `json:"name"`
	Type   PropertyType `json:"type"`
	Values []string     `json:"values,omitempty"` // closed value set, nil if free-form
}

// HasClosedValues reports whether the property declares a closed value set.
func (p Property) HasClosedValues() bool { return len(p.Values) > 0 }

// Operator is a comparison rule from the operator universe.
type Operator struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Operator identifiers.
const (
	OpEquals      = "equals"
	OpGreaterThan = "greater_than"
	OpLessThan    = "less_than"
	OpContains    = "contains"
	OpIn          = "in"
	OpAny         = "any"
	OpNone        = "none"
)

// PropertyValue is a single (property, value) pair carried by a product.
type PropertyValue struct {
	PropertyID int   `json:"property_id"`
	Value      Value `json:"value"`
}

// Product is a catalog row.
type Product struct {
	ID             int             `json:"id"`
	PropertyValues []PropertyValue `json:"property_values"`
}

// ValueFor returns the product's value for a property.
func (p Product) ValueFor(propertyID int) (Value, bool) {
	for _, pv := range p.PropertyValues {
		if pv.PropertyID == propertyID {
			return pv.Value, true
		}
	}
	return Value{}, false
}

// Value holds either a string or a number.
type Value struct {
	str   string
	num   float64
	isNum bool
}

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{str: s} }

// NumberValue returns a numeric Value.
func NumberValue(f float64) Value { return Value{num: f, isNum: true} }

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.isNum }

// Number returns v as a float64. String values are parsed; ok is false when
// the string is empty or not a number.
func (v Value) Number() (f float64, ok bool) {
	if v.isNum {
		return v.num, true
	}
	return ParseNumber(v.str)
}

// String renders numbers in their shortest form and strings verbatim.
func (v Value) String() string {
	if v.isNum {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

// Equal reports whether both values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.isNum != o.isNum {
		return false
	}
	if v.isNum {
		return v.num == o.num
	}
	return v.str == o.str
}

// MarshalJSON encodes numbers as JSON numbers and strings as JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isNum {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.str)
}

// UnmarshalJSON accepts a JSON string or a JSON number.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("value must be a string or a number, got %s", data)
	}
	*v = NumberValue(f)
	return nil
}

// ParseNumber parses s as a decimal number after trimming whitespace.
// Empty input, NaN and infinities are not numbers.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
