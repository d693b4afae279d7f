package incidents

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/domain"
)

// Repository defines the data access contract for incidents. List methods
// return incidents with Updates populated newest first.
type Repository interface {
	CreateIncident(ctx context.Context, incident *domain.Incident) error
	GetIncident(ctx context.Context, orgID, incidentID string) (*domain.Incident, error)
	ListIncidents(ctx context.Context, orgID string) ([]domain.Incident, error)
	ListActiveIncidents(ctx context.Context, orgID string) ([]domain.Incident, error)
	ListRecentIncidents(ctx context.Context, orgID string, limit int) ([]domain.Incident, error)
	ListUpdates(ctx context.Context, incidentID string) ([]domain.IncidentUpdate, error)

	BeginTx(ctx context.Context) (pgx.Tx, error)
	CreateUpdateTx(ctx context.Context, tx pgx.Tx, update *domain.IncidentUpdate) error
	SetIncidentStatusTx(ctx context.Context, tx pgx.Tx, incidentID string, status domain.IncidentStatus, resolvedAt *time.Time) error
}
