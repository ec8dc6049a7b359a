// Package schema compiles JSON-Schema-like documents and checks property bags
// against them.
//
// Supported keywords: type, required, properties, additionalProperties, items,
// enum, minimum, maximum, minLength, maxLength and pattern. Other keywords
// (description, title, $schema, ...) are ignored.
package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/beacon-lab/project-beacon/internal/core/jsonvalue"
)

// JSON type names accepted by the "type" keyword.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeNull    = "null"
)

// CompiledSchema is a schema document ready for validation. It is immutable
// and safe to share between goroutines.
type CompiledSchema struct {
	// Fingerprint is the SHA-256 of the canonical JSON encoding of the document.
	Fingerprint string

	root *node
}

// node is one compiled (sub)schema.
type node struct {
	types      []string
	required   []string
	properties map[string]*node

	// additionalProperties: false sets noAdditional; an object sets additional.
	noAdditional bool
	additional   *node

	items *node
	enum  []jsonvalue.Value

	minimum *decimal.Decimal
	maximum *decimal.Decimal

	minLength *int
	maxLength *int

	pattern       *regexp.Regexp
	patternSource string
}

// ComputeFingerprint calculates SHA-256 hash of the definition.
func ComputeFingerprint(definition []byte) string {
	hash := sha256.Sum256(definition)
	return hex.EncodeToString(hash[:])
}

// FingerprintDocument fingerprints a schema document. Object keys are encoded
// in sorted order, so equal documents always share a fingerprint.
func FingerprintDocument(doc jsonvalue.Object) (string, error) {
	canonical, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode schema document: %w", err)
	}
	return ComputeFingerprint(canonical), nil
}
