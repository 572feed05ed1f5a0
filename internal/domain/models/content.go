package models

import "time"

// Content statuses. Toggling walks the configured transition table rather
// than negating a boolean.
const (
	ContentDraft      = "draft"
	ContentPublished  = "published"
	ContentComingSoon = "coming_soon"
)

// ContentItem is one marketing page or learning article managed from the
// dashboard: SEO landing pages, pillar/cluster articles, role-targeted pages.
type ContentItem struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Category  string    `json:"category"` // pillar | cluster | landing | role
	Summary   string    `json:"summary"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidContentStatus reports whether s is one of the known statuses.
func ValidContentStatus(s string) bool {
	switch s {
	case ContentDraft, ContentPublished, ContentComingSoon:
		return true
	}
	return false
}
