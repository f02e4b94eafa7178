package checklist

import (
	"encoding/json"
	"fmt"
)

// Kind identifies the type of an equipment property value.
type Kind string

const (
	KindBoolean Kind = "boolean"
	KindNumber  Kind = "number"
	KindString  Kind = "string"
)

// DefaultText is the seeded value for unfilled string properties.
const DefaultText = "Normal"

// Value is a tagged checklist value. Exactly one of Bool, Number or Text
// is meaningful, selected by Kind.
type Value struct {
	Kind   Kind
	Bool   bool
	Number float64
	Text   string
}

func BoolValue(v bool) Value      { return Value{Kind: KindBoolean, Bool: v} }
func NumberValue(v float64) Value { return Value{Kind: KindNumber, Number: v} }
func TextValue(v string) Value    { return Value{Kind: KindString, Text: v} }

// Default returns the seeded value for a property kind: false, 0 or "Normal".
func Default(kind Kind) Value {
	switch kind {
	case KindBoolean:
		return BoolValue(false)
	case KindNumber:
		return NumberValue(0)
	default:
		return TextValue(DefaultText)
	}
}

type valueJSON struct {
	Kind  Kind            `json:"kind"`
	Value json.RawMessage `json:"value"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	var raw any
	switch v.Kind {
	case KindBoolean:
		raw = v.Bool
	case KindNumber:
		raw = v.Number
	case KindString:
		raw = v.Text
	default:
		return nil, fmt.Errorf("unknown checklist value kind %q", v.Kind)
	}
	inner, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	return json.Marshal(valueJSON{Kind: v.Kind, Value: inner})
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var wire valueJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch wire.Kind {
	case KindBoolean:
		v.Kind = KindBoolean
		return json.Unmarshal(wire.Value, &v.Bool)
	case KindNumber:
		v.Kind = KindNumber
		return json.Unmarshal(wire.Value, &v.Number)
	case KindString:
		v.Kind = KindString
		return json.Unmarshal(wire.Value, &v.Text)
	default:
		return fmt.Errorf("unknown checklist value kind %q", wire.Kind)
	}
}
