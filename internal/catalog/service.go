package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/domain"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/realtime"
)

// Broadcast event names.
const (
	EventServiceCreated     = "service_created"
	EventServiceUpdated     = "service_updated"
	EventPublicStatusUpdate = "public_status_update"
)

// Broadcaster pushes an event to a subscription group. Delivery is
// best-effort and never affects the caller's result.
type Broadcaster interface {
	Publish(group, event string, payload interface{})
}

// Service implements the service catalog and status transition logic.
type Service struct {
	repo        Repository
	broadcaster Broadcaster
}

// NewService creates a new catalog service.
func NewService(repo Repository, broadcaster Broadcaster) *Service {
	return &Service{repo: repo, broadcaster: broadcaster}
}

// CreateService creates a service for the organization. Status defaults to
// operational.
func (s *Service) CreateService(ctx context.Context, org *domain.Organization, name, description string) (*domain.Service, error) {
	service := &domain.Service{
		Name:           name,
		Description:    description,
		Status:         domain.ServiceStatusOperational,
		OrganizationID: org.ID,
	}

	if err := s.repo.CreateService(ctx, service); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	s.broadcaster.Publish(realtime.OrganizationGroup(org.ID), EventServiceCreated, service)

	return service, nil
}

// GetService retrieves a service within the organization.
func (s *Service) GetService(ctx context.Context, orgID, serviceID string) (*domain.Service, error) {
	return s.repo.GetService(ctx, orgID, serviceID)
}

// ListServices lists the organization's services.
func (s *Service) ListServices(ctx context.Context, orgID string) ([]domain.Service, error) {
	return s.repo.ListServices(ctx, orgID)
}

// ListStatusChanges returns the newest-first status change history across
// the organization's services.
func (s *Service) ListStatusChanges(ctx context.Context, orgID string, limit int) ([]domain.StatusChange, error) {
	return s.repo.ListStatusChanges(ctx, orgID, limit)
}

// SetStatus applies a status transition to a service. Setting the current
// status again touches updated_at but records no StatusChange; a real
// transition appends exactly one StatusChange row in the same transaction
// as the service update. Both broadcasts fire after commit with the full
// updated service as payload.
func (s *Service) SetStatus(ctx context.Context, org *domain.Organization, actorID, serviceID string, newStatus domain.ServiceStatus) (*domain.Service, error) {
	if !newStatus.IsValid() {
		return nil, ErrInvalidStatus
	}

	service, err := s.repo.GetService(ctx, org.ID, serviceID)
	if err != nil {
		return nil, err
	}

	oldStatus := service.Status
	service.Status = newStatus

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	if oldStatus != newStatus {
		change := &domain.StatusChange{
			ServiceID: service.ID,
			OldStatus: oldStatus,
			NewStatus: newStatus,
			ChangedBy: actorID,
		}
		if err := s.repo.CreateStatusChangeTx(ctx, tx, change); err != nil {
			return nil, fmt.Errorf("create status change: %w", err)
		}
	}

	if err := s.repo.UpdateServiceStatusTx(ctx, tx, service); err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.broadcaster.Publish(realtime.OrganizationGroup(org.ID), EventServiceUpdated, service)
	s.broadcaster.Publish(realtime.PublicGroup(org.Slug), EventPublicStatusUpdate, service)

	return service, nil
}
