package repositories

import (
	"database/sql"
	"strings"

	"opshub/internal/config"
	"opshub/internal/domain"
	"opshub/internal/domain/models"
)

var newsSpec = listSpec{
	table:      "news_items",
	selectCols: "id, title, COALESCE(summary,''), COALESCE(url,''), active, published_at, created_at, updated_at",
	searchCols: []string{"title", "summary"},
	filterCols: map[string]string{
		"active": "active",
	},
	order: "published_at DESC, id DESC",
}

type NewsRepository struct {
	DB *sql.DB
}

func (r NewsRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

func scanNews(rows *sql.Rows) (models.NewsItem, error) {
	var n models.NewsItem
	err := rows.Scan(&n.ID, &n.Title, &n.Summary, &n.URL, &n.Active, &n.PublishedAt, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

func (r NewsRepository) List(p ListParams) ([]models.NewsItem, int, error) {
	return queryList(r.db(), newsSpec, p, scanNews)
}

func (r NewsRepository) Get(id int64) (models.NewsItem, error) {
	var n models.NewsItem
	err := r.db().QueryRow(`
		SELECT id, title, COALESCE(summary,''), COALESCE(url,''), active, published_at, created_at, updated_at
		FROM news_items WHERE id = ?`, id).
		Scan(&n.ID, &n.Title, &n.Summary, &n.URL, &n.Active, &n.PublishedAt, &n.CreatedAt, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		return n, domain.NotFoundError{Resource: "news item"}
	}
	return n, err
}

func (r NewsRepository) Create(n models.NewsItem) (int64, error) {
	if strings.TrimSpace(n.Title) == "" {
		return 0, domain.ValidationError{Field: "title", Msg: "is required"}
	}
	res, err := r.db().Exec(`
		INSERT INTO news_items (title, summary, url, active, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NOW(), NOW())`,
		strings.TrimSpace(n.Title), NullIfEmpty(n.Summary), NullIfEmpty(n.URL), n.Active, n.PublishedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r NewsRepository) Update(n models.NewsItem) error {
	if n.ID <= 0 {
		return domain.ValidationError{Field: "id", Msg: "is required"}
	}
	if strings.TrimSpace(n.Title) == "" {
		return domain.ValidationError{Field: "title", Msg: "is required"}
	}
	res, err := r.db().Exec(`
		UPDATE news_items SET title = ?, summary = ?, url = ?, active = ?, published_at = ?, updated_at = NOW()
		WHERE id = ?`,
		strings.TrimSpace(n.Title), NullIfEmpty(n.Summary), NullIfEmpty(n.URL), n.Active, n.PublishedAt, n.ID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		var exists int
		if err := r.db().QueryRow("SELECT COUNT(*) FROM news_items WHERE id = ?", n.ID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return domain.NotFoundError{Resource: "news item"}
		}
	}
	return nil
}

func (r NewsRepository) Delete(id int64) error {
	return deleteByID(r.db(), "news_items", "news item", id)
}

func (r NewsRepository) SetStatus(id int64, status any) error {
	b, ok := status.(bool)
	if !ok {
		return domain.ValidationError{Field: "status", Msg: "must be a boolean"}
	}
	return updateField(r.db(), "news_items", "active", "news item", id, b)
}
