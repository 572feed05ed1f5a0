package repositories

import (
	"database/sql"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"opshub/internal/config"
	"opshub/internal/domain"
	"opshub/internal/domain/models"
)

var userSpec = listSpec{
	table:      "users",
	selectCols: "id, name, username, email, role, active, created_at, updated_at",
	searchCols: []string{"name", "username", "email"},
	filterCols: map[string]string{
		"role":   "role",
		"active": "active",
	},
	order: "id ASC",
}

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

func scanUser(rows *sql.Rows) (models.User, error) {
	var u models.User
	err := rows.Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// List never selects password_hash; the hash stays server-side even in
// memory where it is not needed.
func (r UserRepository) List(p ListParams) ([]models.User, int, error) {
	return queryList(r.db(), userSpec, p, scanUser)
}

func (r UserRepository) Get(id int64) (models.User, error) {
	var u models.User
	err := r.db().QueryRow(`
		SELECT id, name, username, email, role, active, created_at, updated_at
		FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return u, domain.NotFoundError{Resource: "user"}
	}
	return u, err
}

// GetByLogin fetches one account by email or username, including the
// password hash. Only the auth handlers use it.
func (r UserRepository) GetByLogin(login string) (models.User, error) {
	var u models.User
	err := r.db().QueryRow(`
		SELECT id, name, username, email, password_hash, role, active, created_at, updated_at
		FROM users WHERE email = ? OR username = ?`, login, login).
		Scan(&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return u, domain.NotFoundError{Resource: "user"}
	}
	return u, err
}

func validateUser(u models.User, needPassword bool) error {
	if strings.TrimSpace(u.Username) == "" {
		return domain.ValidationError{Field: "username", Msg: "is required"}
	}
	if strings.TrimSpace(u.Email) == "" {
		return domain.ValidationError{Field: "email", Msg: "is required"}
	}
	if needPassword && strings.TrimSpace(u.Password) == "" {
		return domain.ValidationError{Field: "password", Msg: "is required"}
	}
	if u.Password != "" && len(u.Password) < 8 {
		return domain.ValidationError{Field: "password", Msg: "must be at least 8 characters"}
	}
	return nil
}

func (r UserRepository) Create(u models.User) (int64, error) {
	if err := validateUser(u, true); err != nil {
		return 0, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	role := strings.TrimSpace(u.Role)
	if role == "" {
		role = "viewer"
	}

	res, err := r.db().Exec(`
		INSERT INTO users (name, username, email, password_hash, role, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		strings.TrimSpace(u.Name),
		strings.TrimSpace(u.Username),
		strings.TrimSpace(u.Email),
		string(hash),
		role,
		u.Active,
	)
	if err != nil {
		return 0, mapDupErr(err, "email or username is already registered")
	}
	return res.LastInsertId()
}

// Update rewrites the profile fields; the password changes only when the
// payload carries one.
func (r UserRepository) Update(u models.User) error {
	if u.ID <= 0 {
		return domain.ValidationError{Field: "id", Msg: "is required"}
	}
	if err := validateUser(u, false); err != nil {
		return err
	}

	set := []string{"name = ?", "username = ?", "email = ?", "role = ?", "active = ?", "updated_at = NOW()"}
	args := []any{
		strings.TrimSpace(u.Name),
		strings.TrimSpace(u.Username),
		strings.TrimSpace(u.Email),
		strings.TrimSpace(u.Role),
		u.Active,
	}
	if u.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		set = append(set, "password_hash = ?")
		args = append(args, string(hash))
	}
	args = append(args, u.ID)

	res, err := r.db().Exec("UPDATE users SET "+strings.Join(set, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return mapDupErr(err, "email or username is already registered")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := r.db().QueryRow("SELECT COUNT(*) FROM users WHERE id = ?", u.ID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return domain.NotFoundError{Resource: "user"}
		}
	}
	return nil
}

func (r UserRepository) Delete(id int64) error {
	return deleteByID(r.db(), "users", "user", id)
}

func (r UserRepository) SetStatus(id int64, status any) error {
	b, ok := status.(bool)
	if !ok {
		return domain.ValidationError{Field: "status", Msg: "must be a boolean"}
	}
	return updateField(r.db(), "users", "active", "user", id, b)
}
