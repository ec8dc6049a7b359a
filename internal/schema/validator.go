package schema

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/beacon-lab/project-beacon/internal/core/jsonvalue"
)

// DefaultCacheCapacity is the default number of compiled schemas to keep.
const DefaultCacheCapacity = 256

// Validator checks property bags against schema documents, compiling each
// distinct document once.
type Validator struct {
	cache        *LRUCache
	compileGroup singleflight.Group // Dedupe concurrent compilation
}

// NewValidator creates a validator whose compiled-schema cache holds up to
// cacheCapacity documents (DefaultCacheCapacity when <= 0).
func NewValidator(cacheCapacity int) *Validator {
	if cacheCapacity <= 0 {
		cacheCapacity = DefaultCacheCapacity
	}
	return &Validator{cache: NewLRUCache(cacheCapacity)}
}

// Validate checks properties against doc. An empty doc accepts anything.
// Violations are returned as data; the error is reserved for documents that
// do not compile (ErrInvalidSchema) and context cancellation.
func (v *Validator) Validate(ctx context.Context, doc jsonvalue.Object, properties jsonvalue.Object) ([]Violation, error) {
	if len(doc) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	compiled, err := v.Compile(doc)
	if err != nil {
		return nil, err
	}
	return compiled.Check(properties), nil
}

// Compile returns the cached compilation of doc, compiling it on first use.
// Concurrent calls for the same document share one compilation.
func (v *Validator) Compile(doc jsonvalue.Object) (*CompiledSchema, error) {
	fingerprint, err := FingerprintDocument(doc)
	if err != nil {
		return nil, err
	}

	if compiled := v.cache.Get(fingerprint); compiled != nil {
		return compiled, nil
	}

	result, err, _ := v.compileGroup.Do(fingerprint, func() (interface{}, error) {
		// Double-check cache after acquiring singleflight lock
		if compiled := v.cache.Get(fingerprint); compiled != nil {
			return compiled, nil
		}

		compiled, err := compile(doc, fingerprint)
		if err != nil {
			return nil, err
		}

		v.cache.Put(compiled)
		slog.Debug("[Schema] Compiled schema", "fingerprint", fingerprint, "cached", v.cache.Len())
		return compiled, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*CompiledSchema), nil
}
