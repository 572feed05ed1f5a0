// Package repositories implements MySQL persistence for the admin resources.
// Every list endpoint goes through the same query builder so pagination,
// free-text search, and exact filters behave identically across panels.
package repositories

import (
	"database/sql"
	"strings"

	"github.com/go-sql-driver/mysql"

	"opshub/internal/domain"
)

// ListParams is the normalized form of the list query string: page/limit plus
// the active filters and the free-text search.
type ListParams struct {
	Page     int
	PageSize int
	Search   string
	Filters  map[string]string
}

// Normalize clamps page and page size to their serving ranges. Handlers
// normalize before querying so the pagination block echoes the values the
// query actually ran with, not the raw client input.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 200 {
		p.PageSize = 200
	}
	return p
}

// listSpec describes how one table is listed: which columns are selected,
// which are searchable, and which query keys map to exact-match columns.
// filterCols doubles as the allow-list; unknown keys are ignored rather than
// interpolated.
type listSpec struct {
	table      string
	selectCols string
	searchCols []string
	filterCols map[string]string
	order      string
}

func buildWhere(spec listSpec, p ListParams) (string, []any) {
	where := []string{"1=1"}
	args := []any{}

	for key, col := range spec.filterCols {
		v, ok := p.Filters[key]
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		where = append(where, col+" = ?")
		args = append(args, strings.TrimSpace(v))
	}

	if q := strings.TrimSpace(p.Search); q != "" && len(spec.searchCols) > 0 {
		like := "%" + q + "%"
		ors := make([]string, len(spec.searchCols))
		for i, col := range spec.searchCols {
			ors[i] = col + " LIKE ?"
			args = append(args, like)
		}
		where = append(where, "("+strings.Join(ors, " OR ")+")")
	}

	return strings.Join(where, " AND "), args
}

// queryList runs the count and the page select for one list request and
// scans each row with scan. The returned total covers the full filtered set,
// not just this page.
func queryList[T any](db *sql.DB, spec listSpec, p ListParams, scan func(*sql.Rows) (T, error)) ([]T, int, error) {
	p = p.Normalize()
	where, args := buildWhere(spec, p)

	var total int
	countQuery := "SELECT COUNT(*) FROM " + spec.table + " WHERE " + where
	if err := db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := spec.order
	if order == "" {
		order = "id DESC"
	}
	query := "SELECT " + spec.selectCols + " FROM " + spec.table +
		" WHERE " + where + " ORDER BY " + order + " LIMIT ? OFFSET ?"
	pageArgs := append(append([]any{}, args...), p.PageSize, (p.Page-1)*p.PageSize)

	rows, err := db.Query(query, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// deleteByID removes one row, mapping zero affected rows to NotFoundError.
func deleteByID(db *sql.DB, table, resource string, id int64) error {
	res, err := db.Exec("DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: resource}
	}
	return nil
}

// updateField sets one column on one row, mapping zero affected rows to
// NotFoundError. MySQL reports affected=0 when the value is unchanged too,
// so the row's existence is checked on that path before deciding.
func updateField(db *sql.DB, table, column, resource string, id int64, value any) error {
	res, err := db.Exec("UPDATE "+table+" SET "+column+" = ?, updated_at = NOW() WHERE id = ?", value, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := db.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE id = ?", id).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return domain.NotFoundError{Resource: resource}
		}
	}
	return nil
}

// mapDupErr converts a MySQL duplicate-key error into a ConflictError with a
// user-facing message; other errors pass through.
func mapDupErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
		return domain.ConflictError{Msg: msg, Err: err}
	}
	return err
}

// NullIfEmpty stores optional strings as NULL instead of empty text.
func NullIfEmpty(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}
