package models

import "time"

// DLQ message statuses.
const (
	DLQDead     = "dead"
	DLQReplayed = "replayed"
)

// DLQMessage is one dead-lettered pipeline message. The dashboard only
// views, replays, and purges; the queue's retry/backoff engine lives
// elsewhere.
type DLQMessage struct {
	ID            string    `json:"id"`
	Queue         string    `json:"queue"`
	Payload       string    `json:"payload"`
	LastError     string    `json:"last_error"`
	Attempts      int       `json:"attempts"`
	Status        string    `json:"status"`
	FirstFailedAt time.Time `json:"first_failed_at"`
	LastFailedAt  time.Time `json:"last_failed_at"`
}
