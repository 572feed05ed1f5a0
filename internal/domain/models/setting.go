package models

import "time"

// Setting is one key/value dashboard setting.
type Setting struct {
	ID          int64     `json:"id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	UpdatedAt   time.Time `json:"updated_at"`
}
