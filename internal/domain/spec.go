package domain

import (
	"encoding/json"
	"strconv"
)

// SpecKind identifies how a technical spec field is compared.
type SpecKind int

const (
	// SpecCategorical fields compare by normalized text equality
	// (standard compliance compares by set membership).
	SpecCategorical SpecKind = iota
	// SpecNumeric fields compare within a configurable relative tolerance.
	SpecNumeric
)

// SpecFields is the recognized technical spec schema. Field weights and
// numeric tolerances are validated against this registry so a mistyped
// field name fails at startup instead of silently scoring as zero.
var SpecFields = map[string]SpecKind{
	"conductor_material": SpecCategorical,
	"conductor_size":     SpecNumeric,
	"voltage_rating":     SpecNumeric,
	"standard":           SpecCategorical,
	"category":           SpecCategorical,
}

// SpecValue is a single technical spec value, either categorical text or a
// number. An unknown value is represented by the key being absent from a
// TechSpecs map, never by a zero or empty-string sentinel.
type SpecValue struct {
	Kind   SpecKind
	Text   string
	Number float64
}

// TextSpec creates a categorical spec value.
func TextSpec(s string) SpecValue {
	return SpecValue{Kind: SpecCategorical, Text: s}
}

// NumberSpec creates a numeric spec value.
func NumberSpec(f float64) SpecValue {
	return SpecValue{Kind: SpecNumeric, Number: f}
}

// String renders the value for evidence and display purposes.
func (v SpecValue) String() string {
	if v.Kind == SpecNumeric {
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	return v.Text
}

// MarshalJSON emits the underlying text or number directly.
func (v SpecValue) MarshalJSON() ([]byte, error) {
	if v.Kind == SpecNumeric {
		return json.Marshal(v.Number)
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON accepts either a JSON number or a JSON string. Numeric
// strings stay categorical; the listing mapper coerces by schema kind.
func (v *SpecValue) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = NumberSpec(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = TextSpec(s)
	return nil
}

// TechSpecs maps recognized spec field names to values. A missing key means
// the value is unknown on that side.
type TechSpecs map[string]SpecValue
