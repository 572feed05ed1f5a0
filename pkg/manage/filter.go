package manage

import (
	"fmt"
	"reflect"
	"strings"
)

// PredicateType selects how a predicate compares a field value.
type PredicateType string

const (
	// Exact passes when the field value equals the predicate value.
	Exact PredicateType = "exact"
	// Contains passes when the field's string form contains the predicate
	// value, case-insensitively.
	Contains PredicateType = "contains"
	// Custom delegates to a caller-supplied function.
	Custom PredicateType = "custom"
)

// Predicate is one boolean test against a single field of a record.
type Predicate[T any] struct {
	Field string
	Type  PredicateType
	Value any
	// Fn is consulted only for Custom predicates.
	Fn func(T) bool
}

// FilterSpec combines field predicates (ANDed together) with an optional
// free-text search ORed across SearchFields, then ANDed with the predicates.
type FilterSpec[T any] struct {
	Predicates   []Predicate[T]
	SearchText   string
	SearchFields []string
}

// FieldGetter extracts a named field from a record. The second return value
// reports whether the record has that field at all; a missing field makes a
// predicate non-matching rather than failing.
type FieldGetter[T any] func(rec T, field string) (any, bool)

// MapGetter is the FieldGetter for map-shaped records.
func MapGetter(rec map[string]any, field string) (any, bool) {
	v, ok := rec[field]
	return v, ok
}

// Apply filters records through spec. It is pure and synchronous: the input
// slice is never modified and no predicate may touch shared state.
func Apply[T any](records []T, spec FilterSpec[T], get FieldGetter[T]) []T {
	out := make([]T, 0, len(records))
	search := strings.ToLower(strings.TrimSpace(spec.SearchText))

	for _, rec := range records {
		if !passesPredicates(rec, spec.Predicates, get) {
			continue
		}
		if search != "" && !matchesSearch(rec, search, spec.SearchFields, get) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func passesPredicates[T any](rec T, preds []Predicate[T], get FieldGetter[T]) bool {
	for _, p := range preds {
		switch p.Type {
		case Custom:
			if p.Fn == nil || !p.Fn(rec) {
				return false
			}
		case Exact:
			v, ok := get(rec, p.Field)
			if !ok || !reflect.DeepEqual(v, p.Value) {
				return false
			}
		case Contains:
			v, ok := get(rec, p.Field)
			if !ok {
				return false
			}
			needle := strings.ToLower(stringValue(p.Value))
			if needle == "" {
				continue
			}
			if !strings.Contains(strings.ToLower(stringValue(v)), needle) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func matchesSearch[T any](rec T, search string, fields []string, get FieldGetter[T]) bool {
	for _, f := range fields {
		v, ok := get(rec, f)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(stringValue(v)), search) {
			return true
		}
	}
	return false
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
