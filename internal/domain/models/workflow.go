package models

import "time"

// Workflow is a multi-step publishing pipeline definition. Steps is an
// ordered JSON array owned by the pipeline runner; the dashboard treats it as
// opaque text.
type Workflow struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Steps       string    `json:"steps"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
