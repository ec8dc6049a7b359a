package schema

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/beacon-lab/project-beacon/internal/core/jsonvalue"
)

var knownTypes = map[string]bool{
	TypeObject:  true,
	TypeArray:   true,
	TypeString:  true,
	TypeNumber:  true,
	TypeInteger: true,
	TypeBoolean: true,
	TypeNull:    true,
}

// Compile checks a schema document and builds its validation tree.
// Errors wrap ErrInvalidSchema.
func Compile(doc jsonvalue.Object) (*CompiledSchema, error) {
	fingerprint, err := FingerprintDocument(doc)
	if err != nil {
		return nil, err
	}
	return compile(doc, fingerprint)
}

func compile(doc jsonvalue.Object, fingerprint string) (*CompiledSchema, error) {
	root, err := compileNode(doc, "")
	if err != nil {
		return nil, err
	}
	return &CompiledSchema{Fingerprint: fingerprint, root: root}, nil
}

func compileNode(doc jsonvalue.Object, path string) (*node, error) {
	n := &node{}

	if raw, ok := doc["type"]; ok {
		types, err := compileTypes(raw, path)
		if err != nil {
			return nil, err
		}
		n.types = types
	}

	if raw, ok := doc["required"]; ok {
		items, ok := raw.AsArray()
		if !ok {
			return nil, invalidSchemaf(path, "required must be an array of strings")
		}
		for _, item := range items {
			name, ok := item.AsString()
			if !ok {
				return nil, invalidSchemaf(path, "required must be an array of strings")
			}
			n.required = append(n.required, name)
		}
	}

	if raw, ok := doc["properties"]; ok {
		props, ok := raw.AsObject()
		if !ok {
			return nil, invalidSchemaf(path, "properties must be an object")
		}
		n.properties = make(map[string]*node, len(props))
		for _, name := range props.Keys() {
			child, err := compileSubschema(props[name], path+"/properties/"+name)
			if err != nil {
				return nil, err
			}
			n.properties[name] = child
		}
	}

	if raw, ok := doc["additionalProperties"]; ok {
		if allowed, isBool := raw.AsBool(); isBool {
			n.noAdditional = !allowed
		} else {
			child, err := compileSubschema(raw, path+"/additionalProperties")
			if err != nil {
				return nil, err
			}
			n.additional = child
		}
	}

	if raw, ok := doc["items"]; ok {
		child, err := compileSubschema(raw, path+"/items")
		if err != nil {
			return nil, err
		}
		n.items = child
	}

	if raw, ok := doc["enum"]; ok {
		values, ok := raw.AsArray()
		if !ok || len(values) == 0 {
			return nil, invalidSchemaf(path, "enum must be a non-empty array")
		}
		n.enum = values
	}

	var err error
	if n.minimum, err = compileNumber(doc, "minimum", path); err != nil {
		return nil, err
	}
	if n.maximum, err = compileNumber(doc, "maximum", path); err != nil {
		return nil, err
	}
	if n.minimum != nil && n.maximum != nil && n.minimum.GreaterThan(*n.maximum) {
		return nil, invalidSchemaf(path, "minimum %s is greater than maximum %s", n.minimum, n.maximum)
	}

	if n.minLength, err = compileLength(doc, "minLength", path); err != nil {
		return nil, err
	}
	if n.maxLength, err = compileLength(doc, "maxLength", path); err != nil {
		return nil, err
	}

	if raw, ok := doc["pattern"]; ok {
		src, ok := raw.AsString()
		if !ok {
			return nil, invalidSchemaf(path, "pattern must be a string")
		}
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, invalidSchemaf(path, "pattern %q does not compile: %v", src, err)
		}
		n.pattern = re
		n.patternSource = src
	}

	return n, nil
}

func compileSubschema(raw jsonvalue.Value, path string) (*node, error) {
	obj, ok := raw.AsObject()
	if !ok {
		return nil, invalidSchemaf(path, "schema must be an object, got %s", raw.Kind())
	}
	return compileNode(obj, path)
}

func compileTypes(raw jsonvalue.Value, path string) ([]string, error) {
	var names []string
	if name, ok := raw.AsString(); ok {
		names = []string{name}
	} else if items, ok := raw.AsArray(); ok && len(items) > 0 {
		for _, item := range items {
			name, ok := item.AsString()
			if !ok {
				return nil, invalidSchemaf(path, "type must be a string or an array of strings")
			}
			names = append(names, name)
		}
	} else {
		return nil, invalidSchemaf(path, "type must be a string or an array of strings")
	}

	for _, name := range names {
		if !knownTypes[name] {
			return nil, invalidSchemaf(path, "unknown type %q", name)
		}
	}
	return names, nil
}

func compileNumber(doc jsonvalue.Object, keyword, path string) (*decimal.Decimal, error) {
	raw, ok := doc[keyword]
	if !ok {
		return nil, nil
	}
	d, ok := raw.AsNumber()
	if !ok {
		return nil, invalidSchemaf(path, "%s must be a number", keyword)
	}
	return &d, nil
}

func compileLength(doc jsonvalue.Object, keyword, path string) (*int, error) {
	raw, ok := doc[keyword]
	if !ok {
		return nil, nil
	}
	d, ok := raw.AsNumber()
	if !ok || !d.IsInteger() || d.IsNegative() {
		return nil, invalidSchemaf(path, "%s must be a non-negative integer", keyword)
	}
	if !d.LessThanOrEqual(decimal.NewFromInt(int64(^uint32(0) >> 1))) {
		return nil, invalidSchemaf(path, "%s is too large", keyword)
	}
	v := int(d.IntPart())
	return &v, nil
}
