// Package postgres provides the PostgreSQL implementation of the incidents repository.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/domain"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/incidents"
)

// Repository implements the incidents.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const incidentColumns = `id, title, description, status, impact, incident_type, service_id, organization_id, created_by, created_at, resolved_at`

const updateColumns = `id, message, status, incident_id, created_by, created_at`

// CreateIncident inserts a new incident.
func (r *Repository) CreateIncident(ctx context.Context, incident *domain.Incident) error {
	query := `
		INSERT INTO incidents (title, description, status, impact, incident_type, service_id, organization_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		incident.Title,
		incident.Description,
		incident.Status,
		incident.Impact,
		incident.Type,
		incident.ServiceID,
		incident.OrganizationID,
		incident.CreatedBy,
	).Scan(&incident.ID, &incident.CreatedAt)

	if err != nil {
		return fmt.Errorf("create incident: %w", err)
	}
	return nil
}

func scanIncident(row pgx.Row) (*domain.Incident, error) {
	var incident domain.Incident
	err := row.Scan(
		&incident.ID,
		&incident.Title,
		&incident.Description,
		&incident.Status,
		&incident.Impact,
		&incident.Type,
		&incident.ServiceID,
		&incident.OrganizationID,
		&incident.CreatedBy,
		&incident.CreatedAt,
		&incident.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &incident, nil
}

// GetIncident retrieves an incident scoped to the organization. Updates are
// not attached; callers fetch them separately when needed.
func (r *Repository) GetIncident(ctx context.Context, orgID, incidentID string) (*domain.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1 AND organization_id = $2`

	incident, err := scanIncident(r.db.QueryRow(ctx, query, incidentID, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, incidents.ErrIncidentNotFound
		}
		return nil, fmt.Errorf("get incident: %w", err)
	}
	return incident, nil
}

// ListIncidents retrieves the organization's incidents, newest first, with
// updates attached.
func (r *Repository) ListIncidents(ctx context.Context, orgID string) ([]domain.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE organization_id = $1 ORDER BY created_at DESC`
	return r.listWithUpdates(ctx, query, orgID)
}

// ListActiveIncidents retrieves the organization's unresolved incidents,
// newest first, with updates attached.
func (r *Repository) ListActiveIncidents(ctx context.Context, orgID string) ([]domain.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE organization_id = $1 AND status <> 'resolved' ORDER BY created_at DESC`
	return r.listWithUpdates(ctx, query, orgID)
}

// ListRecentIncidents retrieves the organization's newest incidents
// regardless of state, with updates attached.
func (r *Repository) ListRecentIncidents(ctx context.Context, orgID string, limit int) ([]domain.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE organization_id = $1 ORDER BY created_at DESC LIMIT $2`
	return r.listWithUpdates(ctx, query, orgID, limit)
}

func (r *Repository) listWithUpdates(ctx context.Context, query string, args ...interface{}) ([]domain.Incident, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	list := make([]domain.Incident, 0)
	index := make(map[string]int)
	ids := make([]string, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		incident.Updates = []domain.IncidentUpdate{}
		index[incident.ID] = len(list)
		ids = append(ids, incident.ID)
		list = append(list, *incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	if len(list) == 0 {
		return list, nil
	}

	// One pass over all updates instead of a query per incident.
	updatesQuery := `SELECT ` + updateColumns + ` FROM incident_updates WHERE incident_id = ANY($1) ORDER BY created_at DESC`
	updateRows, err := r.db.Query(ctx, updatesQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("list incident updates: %w", err)
	}
	defer updateRows.Close()

	for updateRows.Next() {
		var update domain.IncidentUpdate
		err := updateRows.Scan(
			&update.ID,
			&update.Message,
			&update.Status,
			&update.IncidentID,
			&update.CreatedBy,
			&update.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan incident update: %w", err)
		}
		if i, ok := index[update.IncidentID]; ok {
			list[i].Updates = append(list[i].Updates, update)
		}
	}
	if err := updateRows.Err(); err != nil {
		return nil, fmt.Errorf("list incident updates: %w", err)
	}
	return list, nil
}

// ListUpdates retrieves an incident's updates, newest first.
func (r *Repository) ListUpdates(ctx context.Context, incidentID string) ([]domain.IncidentUpdate, error) {
	query := `SELECT ` + updateColumns + ` FROM incident_updates WHERE incident_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, incidentID)
	if err != nil {
		return nil, fmt.Errorf("list incident updates: %w", err)
	}
	defer rows.Close()

	updates := make([]domain.IncidentUpdate, 0)
	for rows.Next() {
		var update domain.IncidentUpdate
		err := rows.Scan(
			&update.ID,
			&update.Message,
			&update.Status,
			&update.IncidentID,
			&update.CreatedBy,
			&update.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan incident update: %w", err)
		}
		updates = append(updates, update)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list incident updates: %w", err)
	}
	return updates, nil
}

// BeginTx starts a transaction.
func (r *Repository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.db.Begin(ctx)
}

// CreateUpdateTx inserts an incident update within a transaction.
func (r *Repository) CreateUpdateTx(ctx context.Context, tx pgx.Tx, update *domain.IncidentUpdate) error {
	query := `
		INSERT INTO incident_updates (message, status, incident_id, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := tx.QueryRow(ctx, query,
		update.Message,
		update.Status,
		update.IncidentID,
		update.CreatedBy,
	).Scan(&update.ID, &update.CreatedAt)
	if err != nil {
		return fmt.Errorf("create incident update: %w", err)
	}
	return nil
}

// SetIncidentStatusTx writes the incident status and resolved_at within a
// transaction. resolvedAt is passed as-is so an already-stamped value
// survives later transitions.
func (r *Repository) SetIncidentStatusTx(ctx context.Context, tx pgx.Tx, incidentID string, status domain.IncidentStatus, resolvedAt *time.Time) error {
	query := `UPDATE incidents SET status = $1, resolved_at = $2 WHERE id = $3`

	tag, err := tx.Exec(ctx, query, status, resolvedAt, incidentID)
	if err != nil {
		return fmt.Errorf("update incident status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return incidents.ErrIncidentNotFound
	}
	return nil
}
