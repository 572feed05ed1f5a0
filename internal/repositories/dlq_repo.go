package repositories

import (
	"database/sql"

	"opshub/internal/config"
	"opshub/internal/domain"
	"opshub/internal/domain/models"
)

var dlqSpec = listSpec{
	table:      "dlq_messages",
	selectCols: "id, queue, COALESCE(payload,''), COALESCE(last_error,''), attempts, status, first_failed_at, last_failed_at",
	searchCols: []string{"queue", "last_error"},
	filterCols: map[string]string{
		"queue":  "queue",
		"status": "status",
	},
	order: "last_failed_at DESC",
}

// DLQRepository views and drains the dead-letter table. The queue's own
// retry/backoff engine writes these rows; the dashboard only lists, replays,
// deletes, and purges.
type DLQRepository struct {
	DB *sql.DB
}

func (r DLQRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

func scanDLQ(rows *sql.Rows) (models.DLQMessage, error) {
	var m models.DLQMessage
	err := rows.Scan(&m.ID, &m.Queue, &m.Payload, &m.LastError, &m.Attempts, &m.Status, &m.FirstFailedAt, &m.LastFailedAt)
	return m, err
}

func (r DLQRepository) List(p ListParams) ([]models.DLQMessage, int, error) {
	return queryList(r.db(), dlqSpec, p, scanDLQ)
}

func (r DLQRepository) Get(id string) (models.DLQMessage, error) {
	var m models.DLQMessage
	err := r.db().QueryRow(`
		SELECT id, queue, COALESCE(payload,''), COALESCE(last_error,''), attempts, status, first_failed_at, last_failed_at
		FROM dlq_messages WHERE id = ?`, id).
		Scan(&m.ID, &m.Queue, &m.Payload, &m.LastError, &m.Attempts, &m.Status, &m.FirstFailedAt, &m.LastFailedAt)
	if err == sql.ErrNoRows {
		return m, domain.NotFoundError{Resource: "dlq message"}
	}
	return m, err
}

// Replay marks one dead message for redelivery. Only dead messages can be
// replayed; replaying twice is a conflict, not a second delivery.
func (r DLQRepository) Replay(id string) error {
	msg, err := r.Get(id)
	if err != nil {
		return err
	}
	if msg.Status != models.DLQDead {
		return domain.ConflictError{Resource: "dlq message", Msg: "already replayed"}
	}
	_, err = r.db().Exec(`UPDATE dlq_messages SET status = ? WHERE id = ?`, models.DLQReplayed, id)
	return err
}

func (r DLQRepository) Delete(id string) error {
	res, err := r.db().Exec(`DELETE FROM dlq_messages WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "dlq message"}
	}
	return nil
}

// Purge removes every dead message, returning how many were dropped.
func (r DLQRepository) Purge() (int64, error) {
	res, err := r.db().Exec(`DELETE FROM dlq_messages WHERE status = ?`, models.DLQDead)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
