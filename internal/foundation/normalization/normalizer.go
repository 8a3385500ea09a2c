// Package normalization canonicalizes user-supplied enum strings from config
// files and CLI flags.
package normalization

import (
	"fmt"
	"slices"
	"strings"
)

// Func cleans a raw string before lookup.
type Func func(string) string

// Normalizer maps spellings (including aliases) onto enum values.
type Normalizer[T comparable] struct {
	name         string
	values       map[string]T
	defaultValue T
	keys         []string
	clean        Func
}

// NewNormalizer builds a normalizer named name. Keys of values are cleaned with
// the default trim+lowercase rule; several keys may map to one value.
func NewNormalizer[T comparable](name string, values map[string]T, defaultValue T) *Normalizer[T] {
	return WithCustomNormalizer(name, values, defaultValue, defaultNormalization)
}

// WithCustomNormalizer is NewNormalizer with a caller-provided cleaning rule.
func WithCustomNormalizer[T comparable](name string, values map[string]T, defaultValue T, clean Func) *Normalizer[T] {
	n := &Normalizer[T]{
		name:         name,
		values:       make(map[string]T, len(values)),
		defaultValue: defaultValue,
		keys:         make([]string, 0, len(values)),
		clean:        clean,
	}
	for k, v := range values {
		key := clean(k)
		n.values[key] = v
		n.keys = append(n.keys, key)
	}
	slices.Sort(n.keys)
	return n
}

// Lookup returns the value for raw and whether it was recognized.
func (n *Normalizer[T]) Lookup(raw string) (T, bool) {
	v, ok := n.values[n.clean(raw)]
	return v, ok
}

// Normalize returns the value for raw, or the default when unrecognized.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.Lookup(raw); ok {
		return v
	}
	return n.defaultValue
}

// NormalizeWithError is Normalize that reports unrecognized input.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	if v, ok := n.Lookup(raw); ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q, valid options: %s", n.name, raw, strings.Join(n.keys, ", "))
}

// IsValid reports whether value is one of the enum's values.
func (n *Normalizer[T]) IsValid(value T) bool {
	for _, v := range n.values {
		if v == value {
			return true
		}
	}
	return false
}

// ValidKeys returns the accepted spellings in sorted order.
func (n *Normalizer[T]) ValidKeys() []string {
	return slices.Clone(n.keys)
}

// Result is the outcome of NormalizeWithWarning.
type Result[T comparable] struct {
	Value   T
	Changed bool
	Warning string
}

// NormalizeWithWarning normalizes field's raw value and describes any rewrite
// (case, whitespace, alias or fallback to the default) for the config warnings list.
func (n *Normalizer[T]) NormalizeWithWarning(field, raw string) Result[T] {
	v, ok := n.Lookup(raw)
	if !ok {
		return Result[T]{
			Value:   n.defaultValue,
			Changed: true,
			Warning: fmt.Sprintf("unknown %s %q for %s, using %v", n.name, raw, field, n.defaultValue),
		}
	}
	canonical := fmt.Sprint(v)
	if canonical == raw {
		return Result[T]{Value: v}
	}
	return Result[T]{
		Value:   v,
		Changed: true,
		Warning: fmt.Sprintf("normalized %s from %q to %q", field, raw, canonical),
	}
}

func defaultNormalization(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
