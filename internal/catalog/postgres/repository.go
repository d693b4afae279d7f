// Package postgres provides the PostgreSQL implementation of the catalog repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/catalog"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/domain"
)

// Repository implements the catalog.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const serviceColumns = `id, name, description, status, organization_id, created_at, updated_at`

// CreateService inserts a new service.
func (r *Repository) CreateService(ctx context.Context, service *domain.Service) error {
	query := `
		INSERT INTO services (name, description, status, organization_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		service.Name,
		service.Description,
		service.Status,
		service.OrganizationID,
	).Scan(&service.ID, &service.CreatedAt, &service.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	return nil
}

// GetService retrieves a service scoped to the organization.
func (r *Repository) GetService(ctx context.Context, orgID, serviceID string) (*domain.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1 AND organization_id = $2`

	var service domain.Service
	err := r.db.QueryRow(ctx, query, serviceID, orgID).Scan(
		&service.ID,
		&service.Name,
		&service.Description,
		&service.Status,
		&service.OrganizationID,
		&service.CreatedAt,
		&service.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrServiceNotFound
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return &service, nil
}

// ListServices retrieves the organization's services, oldest first.
func (r *Repository) ListServices(ctx context.Context, orgID string) ([]domain.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE organization_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	services := make([]domain.Service, 0)
	for rows.Next() {
		var service domain.Service
		err := rows.Scan(
			&service.ID,
			&service.Name,
			&service.Description,
			&service.Status,
			&service.OrganizationID,
			&service.CreatedAt,
			&service.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, service)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

// ListStatusChanges retrieves the newest-first status changes across the
// organization's services. The join is what scopes the audit rows to the
// tenant: status_changes has no organization column of its own.
func (r *Repository) ListStatusChanges(ctx context.Context, orgID string, limit int) ([]domain.StatusChange, error) {
	query := `
		SELECT sc.id, sc.service_id, sc.old_status, sc.new_status, sc.changed_by, sc.created_at
		FROM status_changes sc
		JOIN services s ON s.id = sc.service_id
		WHERE s.organization_id = $1
		ORDER BY sc.created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, orgID, limit)
	if err != nil {
		return nil, fmt.Errorf("list status changes: %w", err)
	}
	defer rows.Close()

	changes := make([]domain.StatusChange, 0)
	for rows.Next() {
		var change domain.StatusChange
		err := rows.Scan(
			&change.ID,
			&change.ServiceID,
			&change.OldStatus,
			&change.NewStatus,
			&change.ChangedBy,
			&change.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan status change: %w", err)
		}
		changes = append(changes, change)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list status changes: %w", err)
	}
	return changes, nil
}

// BeginTx starts a transaction.
func (r *Repository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.db.Begin(ctx)
}

// UpdateServiceStatusTx writes the service status and touches updated_at
// within a transaction. updated_at moves even when the status is unchanged.
func (r *Repository) UpdateServiceStatusTx(ctx context.Context, tx pgx.Tx, service *domain.Service) error {
	query := `
		UPDATE services
		SET status = $1, updated_at = now()
		WHERE id = $2
		RETURNING updated_at
	`
	err := tx.QueryRow(ctx, query, service.Status, service.ID).Scan(&service.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update service status: %w", err)
	}
	return nil
}

// CreateStatusChangeTx inserts an audit row within a transaction.
func (r *Repository) CreateStatusChangeTx(ctx context.Context, tx pgx.Tx, change *domain.StatusChange) error {
	query := `
		INSERT INTO status_changes (service_id, old_status, new_status, changed_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := tx.QueryRow(ctx, query,
		change.ServiceID,
		change.OldStatus,
		change.NewStatus,
		change.ChangedBy,
	).Scan(&change.ID, &change.CreatedAt)
	if err != nil {
		return fmt.Errorf("create status change: %w", err)
	}
	return nil
}
