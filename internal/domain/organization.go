// Package domain contains the entities shared across all modules.
package domain

import "time"

// Organization is the tenant: every user, service and incident belongs to
// exactly one organization, and all lookups are filtered by its ID.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}
