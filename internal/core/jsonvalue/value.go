// Package jsonvalue models free-form JSON payloads (event properties, profile
// traits, schema documents) as a tagged value type instead of interface{} trees.
//
// Numbers keep the literal they were decoded from so that payloads are stored
// verbatim, and compare as exact decimals.
package jsonvalue

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON type name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a single JSON value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	num  decimal.Decimal
	lit  string
	str  string
	arr  []Value
	obj  Object
}

// Object is a JSON object keyed by property name.
type Object map[string]Value

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func String(s string) Value { return Value{kind: KindString, str: s} }

func Number(d decimal.Decimal) Value { return Value{kind: KindNumber, num: d} }

func Int(i int64) Value { return Value{kind: KindNumber, num: decimal.NewFromInt(i)} }

// Float panics on NaN and infinities, which have no JSON representation.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic(fmt.Sprintf("jsonvalue: %v is not representable in JSON", f))
	}
	return Value{kind: KindNumber, num: decimal.NewFromFloat(f)}
}

func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

func ObjectOf(o Object) Value {
	if o == nil {
		o = Object{}
	}
	return Value{kind: KindObject, obj: o}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) AsNumber() (decimal.Decimal, bool) { return v.num, v.kind == KindNumber }

func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

func (v Value) AsArray() ([]Value, bool) { return v.arr, v.kind == KindArray }

func (v Value) AsObject() (Object, bool) { return v.obj, v.kind == KindObject }

// IsInteger reports whether v is a number without a fractional part.
func (v Value) IsInteger() bool {
	return v.kind == KindNumber && v.num.IsInteger()
}

// NumberLiteral returns the textual form of a number value, preferring the
// literal it was decoded from.
func (v Value) NumberLiteral() string {
	if v.lit != "" {
		return v.lit
	}
	return v.num.String()
}

// Equal reports deep equality. Numbers compare by value, so 1 and 1.0 are equal.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.num.Equal(b.num)
	case KindString:
		return a.str == b.str
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		return a.obj.Equal(b.obj)
	}
	return false
}

// Equal reports whether both objects hold the same keys with equal values.
// A nil object equals an empty one.
func (o Object) Equal(other Object) bool {
	if len(o) != len(other) {
		return false
	}
	for k, v := range o {
		ov, ok := other[k]
		if !ok || !Equal(v, ov) {
			return false
		}
	}
	return true
}

// Keys returns the property names in sorted order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy. Cloning nil yields an empty object.
func (o Object) Clone() Object {
	out := make(Object, len(o))
	for k, v := range o {
		out[k] = v.clone()
	}
	return out
}

func (v Value) clone() Value {
	switch v.kind {
	case KindArray:
		items := make([]Value, len(v.arr))
		for i, item := range v.arr {
			items[i] = item.clone()
		}
		v.arr = items
	case KindObject:
		v.obj = v.obj.Clone()
	}
	return v
}

// MaxExponent bounds the decimal exponent of decoded number literals.
const MaxExponent = 1000

func literalPrefix(lit string) string {
	if len(lit) > 32 {
		return lit[:32] + "..."
	}
	return lit
}

// FromAny converts a decoded Go value (as produced by encoding/json with
// UseNumber, yaml.v3, or hand-written literals) into a Value.
func FromAny(in any) (Value, error) {
	switch t := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case Object:
		return ObjectOf(t), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		d, err := decimal.NewFromString(string(t))
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", string(t), err)
		}
		if exp := d.Exponent(); exp > MaxExponent || exp < -MaxExponent {
			return Value{}, fmt.Errorf("number %q is out of range: exponent %d exceeds ±%d", literalPrefix(string(t)), exp, MaxExponent)
		}
		return Value{kind: KindNumber, num: d, lit: string(t)}, nil
	case decimal.Decimal:
		return Number(t), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return Value{}, fmt.Errorf("number %v is not representable in JSON", t)
		}
		return Float(t), nil
	case float32:
		return FromAny(float64(t))
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Number(decimal.NewFromUint64(uint64(t))), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint64:
		return Number(decimal.NewFromUint64(t)), nil
	case []string:
		items := make([]Value, len(t))
		for i, s := range t {
			items[i] = String(s)
		}
		return Array(items...), nil
	case []Value:
		return Array(t...), nil
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = v
		}
		return Array(items...), nil
	case map[string]any:
		obj, err := ObjectFromMap(t)
		if err != nil {
			return Value{}, err
		}
		return ObjectOf(obj), nil
	default:
		return Value{}, fmt.Errorf("unsupported JSON value type %T", in)
	}
}

// ObjectFromMap converts a decoded map into an Object.
func ObjectFromMap(m map[string]any) (Object, error) {
	obj := make(Object, len(m))
	for k, raw := range m {
		v, err := FromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		obj[k] = v
	}
	return obj, nil
}

// MustObject is ObjectFromMap for literals known to be valid; it panics on error.
func MustObject(m map[string]any) Object {
	obj, err := ObjectFromMap(m)
	if err != nil {
		panic(err)
	}
	return obj
}
