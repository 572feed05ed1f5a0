package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaultsAndCaps(t *testing.T) {
	p := ListParams{}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)

	p = ListParams{Page: -3, PageSize: 9999}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 200, p.PageSize)
}

func TestBuildWhereExactFilter(t *testing.T) {
	spec := listSpec{
		filterCols: map[string]string{"category": "category"},
		searchCols: []string{"name", "text"},
	}

	where, args := buildWhere(spec, ListParams{Filters: map[string]string{"category": "pillar"}})
	assert.Equal(t, "1=1 AND category = ?", where)
	assert.Equal(t, []any{"pillar"}, args)
}

func TestBuildWhereSearchORsAcrossColumns(t *testing.T) {
	spec := listSpec{
		filterCols: map[string]string{"category": "category"},
		searchCols: []string{"name", "text"},
	}

	where, args := buildWhere(spec, ListParams{Search: "roadmap"})
	assert.Equal(t, "1=1 AND (name LIKE ? OR text LIKE ?)", where)
	assert.Equal(t, []any{"%roadmap%", "%roadmap%"}, args)
}

func TestBuildWhereIgnoresUnknownAndBlankFilters(t *testing.T) {
	spec := listSpec{
		filterCols: map[string]string{"category": "category"},
	}

	where, args := buildWhere(spec, ListParams{Filters: map[string]string{
		"category":          "   ",
		"1=1; DROP TABLE x": "y",
	}})
	assert.Equal(t, "1=1", where)
	assert.Empty(t, args)
}

func TestBuildWhereFilterAndSearchAreConjunctive(t *testing.T) {
	spec := listSpec{
		filterCols: map[string]string{"status": "status"},
		searchCols: []string{"title"},
	}

	where, args := buildWhere(spec, ListParams{
		Search:  "launch",
		Filters: map[string]string{"status": "published"},
	})
	assert.Equal(t, "1=1 AND status = ? AND (title LIKE ?)", where)
	require.Len(t, args, 2)
	assert.Equal(t, "published", args[0])
	assert.Equal(t, "%launch%", args[1])
}
