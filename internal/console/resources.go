package console

import (
	"fmt"
	"strings"

	"opshub/pkg/manage"
)

// record is the generic row shape the console works with. Using maps keeps
// one table implementation for every panel; the typed models stay server-side.
type record = map[string]any

func cell(field string) func(record) string {
	return func(r record) string {
		v, ok := r[field]
		if !ok || v == nil {
			return ""
		}
		switch t := v.(type) {
		case string:
			return t
		case bool:
			if t {
				return "yes"
			}
			return "no"
		case float64:
			if t == float64(int64(t)) {
				return fmt.Sprintf("%d", int64(t))
			}
			return fmt.Sprintf("%v", t)
		default:
			return fmt.Sprintf("%v", t)
		}
	}
}

func shortCell(field string, max int) func(record) string {
	inner := cell(field)
	return func(r record) string {
		s := inner(r)
		if len(s) > max {
			return s[:max-1] + "…"
		}
		return s
	}
}

// ResourceDef binds one admin panel to the generic management layer.
type ResourceDef struct {
	Name        string // route segment and display name
	DataKey     string // envelope key for the item array
	Path        string
	Columns     []manage.Column[record]
	StatusField string // empty means no toggle
	Next        manage.NextValue
}

func rowID(r record) string {
	v, ok := r["id"]
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%d", int64(t))
	default:
		return fmt.Sprintf("%v", t)
	}
}

var contentTransitions = map[string]string{
	"draft":       "published",
	"published":   "draft",
	"coming_soon": "published",
}

// Resources lists every panel the console can open.
var Resources = []ResourceDef{
	{
		Name:    "content",
		DataKey: "content",
		Path:    "/api/admin/content",
		Columns: []manage.Column[record]{
			{ID: "id", Label: "ID", Width: 6, Render: cell("id")},
			{ID: "slug", Label: "Slug", Width: 28, Render: shortCell("slug", 28)},
			{ID: "title", Label: "Title", Width: 34, Render: shortCell("title", 34)},
			{ID: "category", Label: "Category", Width: 10, Render: cell("category")},
			{ID: "status", Label: "Status", Width: 12, Render: cell("status")},
		},
		StatusField: "status",
		Next:        manage.EnumNext(contentTransitions),
	},
	{
		Name:    "prompts",
		DataKey: "prompts",
		Path:    "/api/admin/prompts",
		Columns: []manage.Column[record]{
			{ID: "id", Label: "ID", Width: 6, Render: cell("id")},
			{ID: "name", Label: "Name", Width: 30, Render: shortCell("name", 30)},
			{ID: "category", Label: "Category", Width: 14, Render: cell("category")},
			{ID: "active", Label: "Active", Width: 8, Render: cell("active")},
		},
		StatusField: "active",
	},
	{
		Name:    "patterns",
		DataKey: "patterns",
		Path:    "/api/admin/patterns",
		Columns: []manage.Column[record]{
			{ID: "id", Label: "ID", Width: 6, Render: cell("id")},
			{ID: "name", Label: "Name", Width: 30, Render: shortCell("name", 30)},
			{ID: "category", Label: "Category", Width: 14, Render: cell("category")},
			{ID: "active", Label: "Active", Width: 8, Render: cell("active")},
		},
		StatusField: "active",
	},
	{
		Name:    "workflows",
		DataKey: "workflows",
		Path:    "/api/admin/workflows",
		Columns: []manage.Column[record]{
			{ID: "id", Label: "ID", Width: 6, Render: cell("id")},
			{ID: "name", Label: "Name", Width: 30, Render: shortCell("name", 30)},
			{ID: "description", Label: "Description", Width: 36, Render: shortCell("description", 36)},
			{ID: "active", Label: "Active", Width: 8, Render: cell("active")},
		},
		StatusField: "active",
	},
	{
		Name:    "users",
		DataKey: "users",
		Path:    "/api/admin/users",
		Columns: []manage.Column[record]{
			{ID: "id", Label: "ID", Width: 6, Render: cell("id")},
			{ID: "username", Label: "Username", Width: 18, Render: cell("username")},
			{ID: "email", Label: "Email", Width: 28, Render: shortCell("email", 28)},
			{ID: "role", Label: "Role", Width: 10, Render: cell("role")},
			{ID: "active", Label: "Active", Width: 8, Render: cell("active")},
		},
		StatusField: "active",
	},
	{
		Name:    "settings",
		DataKey: "settings",
		Path:    "/api/admin/settings",
		Columns: []manage.Column[record]{
			{ID: "id", Label: "ID", Width: 6, Render: cell("id")},
			{ID: "key", Label: "Key", Width: 28, Render: cell("key")},
			{ID: "value", Label: "Value", Width: 32, Render: shortCell("value", 32)},
			{ID: "active", Label: "Active", Width: 8, Render: cell("active")},
		},
		StatusField: "active",
	},
	{
		Name:    "news",
		DataKey: "news",
		Path:    "/api/admin/news",
		Columns: []manage.Column[record]{
			{ID: "id", Label: "ID", Width: 6, Render: cell("id")},
			{ID: "title", Label: "Title", Width: 40, Render: shortCell("title", 40)},
			{ID: "published_at", Label: "Published", Width: 20, Render: shortCell("published_at", 20)},
			{ID: "active", Label: "Active", Width: 8, Render: cell("active")},
		},
		StatusField: "active",
	},
	{
		Name:    "dlq",
		DataKey: "messages",
		Path:    "/api/admin/dlq",
		Columns: []manage.Column[record]{
			{ID: "id", Label: "ID", Width: 12, Render: shortCell("id", 12)},
			{ID: "queue", Label: "Queue", Width: 18, Render: cell("queue")},
			{ID: "last_error", Label: "Last error", Width: 36, Render: shortCell("last_error", 36)},
			{ID: "attempts", Label: "Att", Width: 5, Render: cell("attempts")},
			{ID: "status", Label: "Status", Width: 10, Render: cell("status")},
		},
	},
}

// FindResource resolves a panel by name.
func FindResource(name string) (ResourceDef, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, def := range Resources {
		if def.Name == name {
			return def, nil
		}
	}
	names := make([]string, len(Resources))
	for i, def := range Resources {
		names[i] = def.Name
	}
	return ResourceDef{}, fmt.Errorf("unknown resource %q (have: %s)", name, strings.Join(names, ", "))
}
