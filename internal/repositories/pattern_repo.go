package repositories

import (
	"database/sql"
	"strings"

	"opshub/internal/config"
	"opshub/internal/domain"
	"opshub/internal/domain/models"
)

var patternSpec = listSpec{
	table:      "patterns",
	selectCols: "id, name, COALESCE(category,''), COALESCE(description,''), active, created_at, updated_at",
	searchCols: []string{"name", "description"},
	filterCols: map[string]string{
		"category": "category",
		"active":   "active",
	},
}

type PatternRepository struct {
	DB *sql.DB
}

func (r PatternRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

func scanPattern(rows *sql.Rows) (models.Pattern, error) {
	var p models.Pattern
	err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r PatternRepository) List(p ListParams) ([]models.Pattern, int, error) {
	return queryList(r.db(), patternSpec, p, scanPattern)
}

func (r PatternRepository) Get(id int64) (models.Pattern, error) {
	var p models.Pattern
	err := r.db().QueryRow(`
		SELECT id, name, COALESCE(category,''), COALESCE(description,''), active, created_at, updated_at
		FROM patterns WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return p, domain.NotFoundError{Resource: "pattern"}
	}
	return p, err
}

func (r PatternRepository) Create(p models.Pattern) (int64, error) {
	if strings.TrimSpace(p.Name) == "" {
		return 0, domain.ValidationError{Field: "name", Msg: "is required"}
	}
	res, err := r.db().Exec(`
		INSERT INTO patterns (name, category, description, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, NOW(), NOW())`,
		strings.TrimSpace(p.Name), NullIfEmpty(p.Category), NullIfEmpty(p.Description), p.Active)
	if err != nil {
		return 0, mapDupErr(err, "a pattern with this name already exists")
	}
	return res.LastInsertId()
}

func (r PatternRepository) Update(p models.Pattern) error {
	if p.ID <= 0 {
		return domain.ValidationError{Field: "id", Msg: "is required"}
	}
	if strings.TrimSpace(p.Name) == "" {
		return domain.ValidationError{Field: "name", Msg: "is required"}
	}
	res, err := r.db().Exec(`
		UPDATE patterns SET name = ?, category = ?, description = ?, active = ?, updated_at = NOW()
		WHERE id = ?`,
		strings.TrimSpace(p.Name), NullIfEmpty(p.Category), NullIfEmpty(p.Description), p.Active, p.ID)
	if err != nil {
		return mapDupErr(err, "a pattern with this name already exists")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := r.db().QueryRow("SELECT COUNT(*) FROM patterns WHERE id = ?", p.ID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return domain.NotFoundError{Resource: "pattern"}
		}
	}
	return nil
}

func (r PatternRepository) Delete(id int64) error {
	return deleteByID(r.db(), "patterns", "pattern", id)
}

func (r PatternRepository) SetStatus(id int64, status any) error {
	b, ok := status.(bool)
	if !ok {
		return domain.ValidationError{Field: "status", Msg: "must be a boolean"}
	}
	return updateField(r.db(), "patterns", "active", "pattern", id, b)
}
