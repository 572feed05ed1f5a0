package manage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id int, name string, active bool) map[string]any {
	return map[string]any{"id": id, "name": name, "active": active}
}

func TestApplyExactAndSearchConjunctive(t *testing.T) {
	coll := []map[string]any{
		record(1, "Alpha", true),
		record(2, "Beta", false),
	}
	spec := FilterSpec[map[string]any]{
		Predicates:   []Predicate[map[string]any]{{Field: "active", Type: Exact, Value: true}},
		SearchText:   "a",
		SearchFields: []string{"name"},
	}

	got := Apply(coll, spec, MapGetter)

	// Beta contains "a" but fails active=true; Alpha passes both
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0]["id"])
}

func TestApplyPredicatesThenSearchEqualsCombined(t *testing.T) {
	coll := []map[string]any{
		record(1, "Alpha", true),
		record(2, "Beta", false),
		record(3, "Gamma", true),
		record(4, "Alabaster", true),
	}
	preds := []Predicate[map[string]any]{{Field: "active", Type: Exact, Value: true}}

	combined := Apply(coll, FilterSpec[map[string]any]{
		Predicates:   preds,
		SearchText:   "al",
		SearchFields: []string{"name"},
	}, MapGetter)

	staged := Apply(coll, FilterSpec[map[string]any]{Predicates: preds}, MapGetter)
	staged = Apply(staged, FilterSpec[map[string]any]{
		SearchText:   "al",
		SearchFields: []string{"name"},
	}, MapGetter)

	assert.Equal(t, staged, combined)
	require.Len(t, combined, 2)
	assert.Equal(t, "Alpha", combined[0]["name"])
	assert.Equal(t, "Alabaster", combined[1]["name"])
}

func TestApplyContainsCaseInsensitive(t *testing.T) {
	coll := []map[string]any{
		record(1, "SEO Pillar Guide", true),
		record(2, "Cluster article", true),
	}
	spec := FilterSpec[map[string]any]{
		Predicates: []Predicate[map[string]any]{{Field: "name", Type: Contains, Value: "pillar"}},
	}

	got := Apply(coll, spec, MapGetter)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0]["id"])
}

func TestApplyCustomPredicate(t *testing.T) {
	coll := []map[string]any{
		record(1, "Alpha", true),
		record(2, "Beta", false),
	}
	spec := FilterSpec[map[string]any]{
		Predicates: []Predicate[map[string]any]{{
			Type: Custom,
			Fn:   func(r map[string]any) bool { return r["id"].(int) > 1 },
		}},
	}

	got := Apply(coll, spec, MapGetter)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0]["id"])
}

func TestApplyMissingFieldDoesNotMatch(t *testing.T) {
	coll := []map[string]any{
		record(1, "Alpha", true),
		{"id": 2}, // no name, no active
	}
	spec := FilterSpec[map[string]any]{
		Predicates: []Predicate[map[string]any]{{Field: "active", Type: Exact, Value: true}},
	}

	got := Apply(coll, spec, MapGetter)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0]["id"])
}

func TestApplyEmptySpecReturnsAll(t *testing.T) {
	coll := []map[string]any{record(1, "Alpha", true), record(2, "Beta", false)}
	got := Apply(coll, FilterSpec[map[string]any]{}, MapGetter)
	assert.Equal(t, coll, got)
}

func TestApplyEmptyCollection(t *testing.T) {
	got := Apply(nil, FilterSpec[map[string]any]{
		Predicates: []Predicate[map[string]any]{{Field: "x", Type: Exact, Value: 1}},
		SearchText: "q",
	}, MapGetter)
	assert.Empty(t, got)
}

func TestApplySearchAloneWhenNoPredicates(t *testing.T) {
	coll := []map[string]any{
		record(1, "Roadmap", true),
		record(2, "Pricing", false),
	}
	got := Apply(coll, FilterSpec[map[string]any]{
		SearchText:   "ROAD",
		SearchFields: []string{"name"},
	}, MapGetter)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0]["id"])
}
