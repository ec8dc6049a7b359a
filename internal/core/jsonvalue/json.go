package jsonvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MarshalJSON encodes the value. Numbers are written with their original literal.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	case KindNumber:
		return []byte(v.NumberLiteral()), nil
	case KindString:
		return json.Marshal(v.str)
	case KindArray:
		items := v.arr
		if items == nil {
			items = []Value{}
		}
		return json.Marshal(items)
	case KindObject:
		return v.obj.MarshalJSON()
	default:
		return nil, fmt.Errorf("jsonvalue: cannot marshal %s", v.kind)
	}
}

// UnmarshalJSON decodes any JSON document into the value.
func (v *Value) UnmarshalJSON(data []byte) error {
	raw, err := decode(data)
	if err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalJSON encodes a nil object as {} so stored bags are never JSON null.
func (o Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]Value(o))
}

// UnmarshalJSON accepts a JSON object or null (which leaves the object nil).
func (o *Object) UnmarshalJSON(data []byte) error {
	raw, err := decode(data)
	if err != nil {
		return err
	}
	if raw == nil {
		*o = nil
		return nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("jsonvalue: expected object, got %s", describe(raw))
	}
	obj, err := ObjectFromMap(m)
	if err != nil {
		return err
	}
	*o = obj
	return nil
}

func decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func describe(raw any) string {
	switch raw.(type) {
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", raw)
	}
}
