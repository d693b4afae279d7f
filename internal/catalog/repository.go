package catalog

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/domain"
)

// Repository defines the interface for catalog data operations. Every
// lookup is scoped by organization id; rows outside the tenant are
// reported as not found.
type Repository interface {
	CreateService(ctx context.Context, service *domain.Service) error
	GetService(ctx context.Context, orgID, serviceID string) (*domain.Service, error)
	ListServices(ctx context.Context, orgID string) ([]domain.Service, error)

	// ListStatusChanges returns the newest-first status change history
	// across all of the organization's services.
	ListStatusChanges(ctx context.Context, orgID string, limit int) ([]domain.StatusChange, error)

	// Transaction methods: a status transition writes the audit row and the
	// service update atomically.
	BeginTx(ctx context.Context) (pgx.Tx, error)
	UpdateServiceStatusTx(ctx context.Context, tx pgx.Tx, service *domain.Service) error
	CreateStatusChangeTx(ctx context.Context, tx pgx.Tx, change *domain.StatusChange) error
}
