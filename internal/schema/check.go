package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/beacon-lab/project-beacon/internal/core/jsonvalue"
)

// Check validates a property bag against the compiled schema and returns every
// violation in a deterministic order. A nil bag is checked as an empty object.
func (c *CompiledSchema) Check(properties jsonvalue.Object) []Violation {
	var violations []Violation
	c.root.check(jsonvalue.ObjectOf(properties), "", &violations)
	return violations
}

func (n *node) check(value jsonvalue.Value, path string, out *[]Violation) {
	if len(n.types) > 0 && !n.matchesType(value) {
		*out = append(*out, newTypeMismatch(path, n.types, typeName(value)))
		return
	}

	if len(n.enum) > 0 && !n.inEnum(value) {
		*out = append(*out, Violation{
			Path:    path,
			Keyword: "enum",
			Message: fmt.Sprintf("value %s not in enum %s", render(value), renderList(n.enum)),
		})
	}

	switch value.Kind() {
	case jsonvalue.KindObject:
		obj, _ := value.AsObject()
		n.checkObject(obj, path, out)
	case jsonvalue.KindArray:
		items, _ := value.AsArray()
		if n.items != nil {
			for i, item := range items {
				n.items.check(item, path+"/"+strconv.Itoa(i), out)
			}
		}
	case jsonvalue.KindString:
		s, _ := value.AsString()
		n.checkString(s, path, out)
	case jsonvalue.KindNumber:
		n.checkNumber(value, path, out)
	}
}

func (n *node) checkObject(obj jsonvalue.Object, path string, out *[]Violation) {
	for _, name := range n.required {
		if _, ok := obj[name]; !ok {
			*out = append(*out, newRequiredField(childPath(path, name)))
		}
	}

	for _, name := range obj.Keys() {
		child, declared := n.properties[name]
		switch {
		case declared:
			child.check(obj[name], childPath(path, name), out)
		case n.additional != nil:
			n.additional.check(obj[name], childPath(path, name), out)
		case n.noAdditional:
			*out = append(*out, Violation{
				Path:    childPath(path, name),
				Keyword: "additionalProperties",
				Message: "unknown field not allowed",
			})
		}
	}
}

func (n *node) checkString(s, path string, out *[]Violation) {
	length := utf8.RuneCountInString(s)
	if n.minLength != nil && length < *n.minLength {
		*out = append(*out, Violation{
			Path:    path,
			Keyword: "minLength",
			Message: fmt.Sprintf("string length %d is less than minimum %d", length, *n.minLength),
		})
	}
	if n.maxLength != nil && length > *n.maxLength {
		*out = append(*out, Violation{
			Path:    path,
			Keyword: "maxLength",
			Message: fmt.Sprintf("string length %d exceeds maximum %d", length, *n.maxLength),
		})
	}
	if n.pattern != nil && !n.pattern.MatchString(s) {
		*out = append(*out, Violation{
			Path:    path,
			Keyword: "pattern",
			Message: fmt.Sprintf("string does not match pattern %q", n.patternSource),
		})
	}
}

func (n *node) checkNumber(value jsonvalue.Value, path string, out *[]Violation) {
	d, _ := value.AsNumber()
	if n.minimum != nil && d.LessThan(*n.minimum) {
		*out = append(*out, Violation{
			Path:    path,
			Keyword: "minimum",
			Message: fmt.Sprintf("value %s is less than minimum %s", value.NumberLiteral(), n.minimum),
		})
	}
	if n.maximum != nil && d.GreaterThan(*n.maximum) {
		*out = append(*out, Violation{
			Path:    path,
			Keyword: "maximum",
			Message: fmt.Sprintf("value %s exceeds maximum %s", value.NumberLiteral(), n.maximum),
		})
	}
}

func (n *node) matchesType(value jsonvalue.Value) bool {
	for _, t := range n.types {
		switch t {
		case TypeInteger:
			if value.IsInteger() {
				return true
			}
		case TypeNumber:
			if value.Kind() == jsonvalue.KindNumber {
				return true
			}
		default:
			if value.Kind().String() == t {
				return true
			}
		}
	}
	return false
}

func (n *node) inEnum(value jsonvalue.Value) bool {
	for _, allowed := range n.enum {
		if jsonvalue.Equal(allowed, value) {
			return true
		}
	}
	return false
}

// childPath appends a property name as a JSON pointer token.
func childPath(path, name string) string {
	name = strings.ReplaceAll(name, "~", "~0")
	name = strings.ReplaceAll(name, "/", "~1")
	return path + "/" + name
}

func typeName(value jsonvalue.Value) string {
	if value.IsInteger() {
		return TypeInteger
	}
	return value.Kind().String()
}

func render(value jsonvalue.Value) string {
	b, err := json.Marshal(value)
	if err != nil {
		return value.Kind().String()
	}
	return string(b)
}

func renderList(values []jsonvalue.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = render(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
