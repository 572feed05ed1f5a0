package repositories

import (
	"database/sql"
	"encoding/json"
	"strings"

	"opshub/internal/config"
	"opshub/internal/domain"
	"opshub/internal/domain/models"
)

var workflowSpec = listSpec{
	table:      "workflows",
	selectCols: "id, name, COALESCE(description,''), COALESCE(steps,'[]'), active, created_at, updated_at",
	searchCols: []string{"name", "description"},
	filterCols: map[string]string{
		"active": "active",
	},
}

type WorkflowRepository struct {
	DB *sql.DB
}

func (r WorkflowRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

func scanWorkflow(rows *sql.Rows) (models.Workflow, error) {
	var w models.Workflow
	err := rows.Scan(&w.ID, &w.Name, &w.Description, &w.Steps, &w.Active, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

func validateWorkflow(w models.Workflow) error {
	if strings.TrimSpace(w.Name) == "" {
		return domain.ValidationError{Field: "name", Msg: "is required"}
	}
	if s := strings.TrimSpace(w.Steps); s != "" && !json.Valid([]byte(s)) {
		return domain.ValidationError{Field: "steps", Msg: "must be valid JSON"}
	}
	return nil
}

func (r WorkflowRepository) List(p ListParams) ([]models.Workflow, int, error) {
	return queryList(r.db(), workflowSpec, p, scanWorkflow)
}

func (r WorkflowRepository) Get(id int64) (models.Workflow, error) {
	var w models.Workflow
	err := r.db().QueryRow(`
		SELECT id, name, COALESCE(description,''), COALESCE(steps,'[]'), active, created_at, updated_at
		FROM workflows WHERE id = ?`, id).
		Scan(&w.ID, &w.Name, &w.Description, &w.Steps, &w.Active, &w.CreatedAt, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return w, domain.NotFoundError{Resource: "workflow"}
	}
	return w, err
}

func (r WorkflowRepository) Create(w models.Workflow) (int64, error) {
	if err := validateWorkflow(w); err != nil {
		return 0, err
	}
	res, err := r.db().Exec(`
		INSERT INTO workflows (name, description, steps, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, NOW(), NOW())`,
		strings.TrimSpace(w.Name), NullIfEmpty(w.Description), NullIfEmpty(w.Steps), w.Active)
	if err != nil {
		return 0, mapDupErr(err, "a workflow with this name already exists")
	}
	return res.LastInsertId()
}

func (r WorkflowRepository) Update(w models.Workflow) error {
	if w.ID <= 0 {
		return domain.ValidationError{Field: "id", Msg: "is required"}
	}
	if err := validateWorkflow(w); err != nil {
		return err
	}
	res, err := r.db().Exec(`
		UPDATE workflows SET name = ?, description = ?, steps = ?, active = ?, updated_at = NOW()
		WHERE id = ?`,
		strings.TrimSpace(w.Name), NullIfEmpty(w.Description), NullIfEmpty(w.Steps), w.Active, w.ID)
	if err != nil {
		return mapDupErr(err, "a workflow with this name already exists")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := r.db().QueryRow("SELECT COUNT(*) FROM workflows WHERE id = ?", w.ID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return domain.NotFoundError{Resource: "workflow"}
		}
	}
	return nil
}

func (r WorkflowRepository) Delete(id int64) error {
	return deleteByID(r.db(), "workflows", "workflow", id)
}

func (r WorkflowRepository) SetStatus(id int64, status any) error {
	b, ok := status.(bool)
	if !ok {
		return domain.ValidationError{Field: "status", Msg: "must be a boolean"}
	}
	return updateField(r.db(), "workflows", "active", "workflow", id, b)
}
