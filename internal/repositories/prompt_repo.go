package repositories

import (
	"database/sql"
	"strings"

	"opshub/internal/config"
	"opshub/internal/domain"
	"opshub/internal/domain/models"
)

var promptSpec = listSpec{
	table:      "prompts",
	selectCols: "id, name, COALESCE(category,''), COALESCE(text,''), active, created_at, updated_at",
	searchCols: []string{"name", "text"},
	filterCols: map[string]string{
		"category": "category",
		"active":   "active",
	},
}

type PromptRepository struct {
	DB *sql.DB
}

func (r PromptRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

func scanPrompt(rows *sql.Rows) (models.Prompt, error) {
	var p models.Prompt
	err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Text, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r PromptRepository) List(p ListParams) ([]models.Prompt, int, error) {
	return queryList(r.db(), promptSpec, p, scanPrompt)
}

func (r PromptRepository) Get(id int64) (models.Prompt, error) {
	var p models.Prompt
	err := r.db().QueryRow(`
		SELECT id, name, COALESCE(category,''), COALESCE(text,''), active, created_at, updated_at
		FROM prompts WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Category, &p.Text, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return p, domain.NotFoundError{Resource: "prompt"}
	}
	return p, err
}

func (r PromptRepository) Create(p models.Prompt) (int64, error) {
	if strings.TrimSpace(p.Name) == "" {
		return 0, domain.ValidationError{Field: "name", Msg: "is required"}
	}
	res, err := r.db().Exec(`
		INSERT INTO prompts (name, category, text, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, NOW(), NOW())`,
		strings.TrimSpace(p.Name), NullIfEmpty(p.Category), NullIfEmpty(p.Text), p.Active)
	if err != nil {
		return 0, mapDupErr(err, "a prompt with this name already exists")
	}
	return res.LastInsertId()
}

func (r PromptRepository) Update(p models.Prompt) error {
	if p.ID <= 0 {
		return domain.ValidationError{Field: "id", Msg: "is required"}
	}
	if strings.TrimSpace(p.Name) == "" {
		return domain.ValidationError{Field: "name", Msg: "is required"}
	}
	res, err := r.db().Exec(`
		UPDATE prompts SET name = ?, category = ?, text = ?, active = ?, updated_at = NOW()
		WHERE id = ?`,
		strings.TrimSpace(p.Name), NullIfEmpty(p.Category), NullIfEmpty(p.Text), p.Active, p.ID)
	if err != nil {
		return mapDupErr(err, "a prompt with this name already exists")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := r.db().QueryRow("SELECT COUNT(*) FROM prompts WHERE id = ?", p.ID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return domain.NotFoundError{Resource: "prompt"}
		}
	}
	return nil
}

func (r PromptRepository) Delete(id int64) error {
	return deleteByID(r.db(), "prompts", "prompt", id)
}

func (r PromptRepository) SetStatus(id int64, status any) error {
	b, ok := status.(bool)
	if !ok {
		return domain.ValidationError{Field: "status", Msg: "must be a boolean"}
	}
	return updateField(r.db(), "prompts", "active", "prompt", id, b)
}
