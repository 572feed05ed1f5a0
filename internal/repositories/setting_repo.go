package repositories

import (
	"database/sql"
	"strings"

	"opshub/internal/config"
	"opshub/internal/domain"
	"opshub/internal/domain/models"
)

var settingSpec = listSpec{
	table:      "settings",
	selectCols: "id, setting_key, COALESCE(setting_value,''), COALESCE(description,''), active, updated_at",
	searchCols: []string{"setting_key", "description"},
	filterCols: map[string]string{
		"active": "active",
	},
	order: "setting_key ASC",
}

type SettingRepository struct {
	DB *sql.DB
}

func (r SettingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

func scanSetting(rows *sql.Rows) (models.Setting, error) {
	var s models.Setting
	err := rows.Scan(&s.ID, &s.Key, &s.Value, &s.Description, &s.Active, &s.UpdatedAt)
	return s, err
}

func (r SettingRepository) List(p ListParams) ([]models.Setting, int, error) {
	return queryList(r.db(), settingSpec, p, scanSetting)
}

func (r SettingRepository) Get(id int64) (models.Setting, error) {
	var s models.Setting
	err := r.db().QueryRow(`
		SELECT id, setting_key, COALESCE(setting_value,''), COALESCE(description,''), active, updated_at
		FROM settings WHERE id = ?`, id).
		Scan(&s.ID, &s.Key, &s.Value, &s.Description, &s.Active, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return s, domain.NotFoundError{Resource: "setting"}
	}
	return s, err
}

func (r SettingRepository) Create(s models.Setting) (int64, error) {
	if strings.TrimSpace(s.Key) == "" {
		return 0, domain.ValidationError{Field: "key", Msg: "is required"}
	}
	res, err := r.db().Exec(`
		INSERT INTO settings (setting_key, setting_value, description, active, updated_at)
		VALUES (?, ?, ?, ?, NOW())`,
		strings.TrimSpace(s.Key), NullIfEmpty(s.Value), NullIfEmpty(s.Description), s.Active)
	if err != nil {
		return 0, mapDupErr(err, "a setting with this key already exists")
	}
	return res.LastInsertId()
}

func (r SettingRepository) Update(s models.Setting) error {
	if s.ID <= 0 {
		return domain.ValidationError{Field: "id", Msg: "is required"}
	}
	if strings.TrimSpace(s.Key) == "" {
		return domain.ValidationError{Field: "key", Msg: "is required"}
	}
	res, err := r.db().Exec(`
		UPDATE settings SET setting_key = ?, setting_value = ?, description = ?, active = ?, updated_at = NOW()
		WHERE id = ?`,
		strings.TrimSpace(s.Key), NullIfEmpty(s.Value), NullIfEmpty(s.Description), s.Active, s.ID)
	if err != nil {
		return mapDupErr(err, "a setting with this key already exists")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := r.db().QueryRow("SELECT COUNT(*) FROM settings WHERE id = ?", s.ID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return domain.NotFoundError{Resource: "setting"}
		}
	}
	return nil
}

func (r SettingRepository) Delete(id int64) error {
	return deleteByID(r.db(), "settings", "setting", id)
}

func (r SettingRepository) SetStatus(id int64, status any) error {
	b, ok := status.(bool)
	if !ok {
		return domain.ValidationError{Field: "status", Msg: "must be a boolean"}
	}
	return updateField(r.db(), "settings", "active", "setting", id, b)
}
