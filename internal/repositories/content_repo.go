package repositories

import (
	"database/sql"
	"strings"

	"opshub/internal/config"
	"opshub/internal/domain"
	"opshub/internal/domain/models"
)

var contentSpec = listSpec{
	table:      "content_items",
	selectCols: "id, slug, title, COALESCE(category,''), COALESCE(summary,''), COALESCE(body,''), status, COALESCE(author,''), created_at, updated_at",
	searchCols: []string{"slug", "title", "summary"},
	filterCols: map[string]string{
		"category": "category",
		"status":   "status",
		"author":   "author",
	},
	order: "updated_at DESC, id DESC",
}

type ContentRepository struct {
	DB *sql.DB
}

func (r ContentRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

func scanContent(rows *sql.Rows) (models.ContentItem, error) {
	var item models.ContentItem
	err := rows.Scan(
		&item.ID,
		&item.Slug,
		&item.Title,
		&item.Category,
		&item.Summary,
		&item.Body,
		&item.Status,
		&item.Author,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}

func (r ContentRepository) List(p ListParams) ([]models.ContentItem, int, error) {
	return queryList(r.db(), contentSpec, p, scanContent)
}

func (r ContentRepository) Get(id int64) (models.ContentItem, error) {
	var item models.ContentItem
	err := r.db().QueryRow(`
		SELECT id, slug, title, COALESCE(category,''), COALESCE(summary,''), COALESCE(body,''), status, COALESCE(author,''), created_at, updated_at
		FROM content_items WHERE id = ?`, id).Scan(
		&item.ID,
		&item.Slug,
		&item.Title,
		&item.Category,
		&item.Summary,
		&item.Body,
		&item.Status,
		&item.Author,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return item, domain.NotFoundError{Resource: "content item"}
	}
	return item, err
}

func validateContent(item models.ContentItem) error {
	if strings.TrimSpace(item.Slug) == "" {
		return domain.ValidationError{Field: "slug", Msg: "is required"}
	}
	if strings.TrimSpace(item.Title) == "" {
		return domain.ValidationError{Field: "title", Msg: "is required"}
	}
	if item.Status != "" && !models.ValidContentStatus(item.Status) {
		return domain.ValidationError{Field: "status", Msg: "must be draft, published, or coming_soon"}
	}
	return nil
}

func (r ContentRepository) Create(item models.ContentItem) (int64, error) {
	if err := validateContent(item); err != nil {
		return 0, err
	}
	status := item.Status
	if status == "" {
		status = models.ContentDraft
	}

	res, err := r.db().Exec(`
		INSERT INTO content_items (slug, title, category, summary, body, status, author, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		strings.TrimSpace(item.Slug),
		strings.TrimSpace(item.Title),
		NullIfEmpty(item.Category),
		NullIfEmpty(item.Summary),
		NullIfEmpty(item.Body),
		status,
		NullIfEmpty(item.Author),
	)
	if err != nil {
		return 0, mapDupErr(err, "a content item with this slug already exists")
	}
	return res.LastInsertId()
}

func (r ContentRepository) Update(item models.ContentItem) error {
	if item.ID <= 0 {
		return domain.ValidationError{Field: "id", Msg: "is required"}
	}
	if err := validateContent(item); err != nil {
		return err
	}
	status := item.Status
	if status == "" {
		status = models.ContentDraft
	}

	res, err := r.db().Exec(`
		UPDATE content_items
		SET slug = ?, title = ?, category = ?, summary = ?, body = ?, status = ?, author = ?, updated_at = NOW()
		WHERE id = ?`,
		strings.TrimSpace(item.Slug),
		strings.TrimSpace(item.Title),
		NullIfEmpty(item.Category),
		NullIfEmpty(item.Summary),
		NullIfEmpty(item.Body),
		status,
		NullIfEmpty(item.Author),
		item.ID,
	)
	if err != nil {
		return mapDupErr(err, "a content item with this slug already exists")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := r.db().QueryRow("SELECT COUNT(*) FROM content_items WHERE id = ?", item.ID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return domain.NotFoundError{Resource: "content item"}
		}
	}
	return nil
}

func (r ContentRepository) Delete(id int64) error {
	return deleteByID(r.db(), "content_items", "content item", id)
}

// SetStatus moves one item through the draft/published/coming_soon enum.
func (r ContentRepository) SetStatus(id int64, status any) error {
	s, ok := status.(string)
	if !ok || !models.ValidContentStatus(s) {
		return domain.ValidationError{Field: "status", Msg: "must be draft, published, or coming_soon"}
	}
	return updateField(r.db(), "content_items", "status", "content item", id, s)
}
