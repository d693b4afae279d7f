package incidents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/domain"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/realtime"
)

// Broadcast event names.
const (
	EventIncidentCreated      = "incident_created"
	EventIncidentUpdated      = "incident_updated"
	EventPublicIncidentUpdate = "public_incident_update"
)

// Broadcaster pushes an event to a subscription group. Delivery is
// best-effort and never affects the caller's result.
type Broadcaster interface {
	Publish(group, event string, payload interface{})
}

// Service implements incident lifecycle logic.
type Service struct {
	repo        Repository
	broadcaster Broadcaster
	now         func() time.Time
}

// NewService creates a new incidents service.
func NewService(repo Repository, broadcaster Broadcaster) *Service {
	return &Service{
		repo:        repo,
		broadcaster: broadcaster,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateIncidentInput carries the caller-supplied incident fields. Impact
// is mandatory; an empty Type falls back to "incident".
type CreateIncidentInput struct {
	Title       string
	Description string
	ServiceID   string
	Impact      domain.IncidentImpact
	Type        domain.IncidentType
}

// Create opens an incident against a service. Every incident starts at
// investigating. The referenced service id is stored as given; it is not
// checked against the organization's catalog.
func (s *Service) Create(ctx context.Context, org *domain.Organization, actorID string, in CreateIncidentInput) (*domain.Incident, error) {
	if !in.Impact.IsValid() {
		return nil, ErrInvalidImpact
	}
	if in.Type == "" {
		in.Type = domain.IncidentTypeIncident
	}

	incident := &domain.Incident{
		Title:          in.Title,
		Description:    in.Description,
		Status:         domain.IncidentStatusInvestigating,
		Impact:         in.Impact,
		Type:           in.Type,
		ServiceID:      in.ServiceID,
		OrganizationID: org.ID,
		CreatedBy:      actorID,
		Updates:        []domain.IncidentUpdate{},
	}

	if err := s.repo.CreateIncident(ctx, incident); err != nil {
		return nil, fmt.Errorf("create incident: %w", err)
	}

	s.broadcaster.Publish(realtime.OrganizationGroup(org.ID), EventIncidentCreated, incident)
	s.broadcaster.Publish(realtime.PublicGroup(org.Slug), EventPublicIncidentUpdate, incident)

	return incident, nil
}

// AddUpdate appends an update to an incident and returns the created row.
// The update snapshots the incident status as of this post: the new status
// when one is supplied, the current status otherwise. A supplied status
// overwrites the incident status even when unchanged, and the first
// transition to resolved stamps resolved_at; it is never cleared
// afterwards. Both broadcasts carry the full incident with its
// newest-first updates.
func (s *Service) AddUpdate(ctx context.Context, org *domain.Organization, actorID, incidentID, message string, newStatus domain.IncidentStatus) (*domain.IncidentUpdate, error) {
	if newStatus != "" && !newStatus.IsValid() {
		return nil, ErrInvalidStatus
	}

	incident, err := s.repo.GetIncident(ctx, org.ID, incidentID)
	if err != nil {
		return nil, err
	}

	statusSnapshot := incident.Status
	if newStatus != "" {
		statusSnapshot = newStatus
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	update := &domain.IncidentUpdate{
		Message:    message,
		Status:     statusSnapshot,
		IncidentID: incident.ID,
		CreatedBy:  actorID,
	}
	if err := s.repo.CreateUpdateTx(ctx, tx, update); err != nil {
		return nil, fmt.Errorf("create incident update: %w", err)
	}

	if newStatus != "" {
		incident.Status = newStatus
		if newStatus == domain.IncidentStatusResolved && incident.ResolvedAt == nil {
			resolvedAt := s.now()
			incident.ResolvedAt = &resolvedAt
		}
		if err := s.repo.SetIncidentStatusTx(ctx, tx, incident.ID, incident.Status, incident.ResolvedAt); err != nil {
			return nil, fmt.Errorf("update incident status: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	updates, err := s.repo.ListUpdates(ctx, incident.ID)
	if err != nil {
		return nil, fmt.Errorf("list incident updates: %w", err)
	}
	incident.Updates = updates

	s.broadcaster.Publish(realtime.OrganizationGroup(org.ID), EventIncidentUpdated, incident)
	s.broadcaster.Publish(realtime.PublicGroup(org.Slug), EventPublicIncidentUpdate, incident)

	return update, nil
}

// List returns the organization's incidents, newest first, each with its
// updates.
func (s *Service) List(ctx context.Context, orgID string) ([]domain.Incident, error) {
	return s.repo.ListIncidents(ctx, orgID)
}

// ListActive returns the organization's unresolved incidents, newest first.
func (s *Service) ListActive(ctx context.Context, orgID string) ([]domain.Incident, error) {
	return s.repo.ListActiveIncidents(ctx, orgID)
}

// ListRecent returns the organization's newest incidents regardless of
// state, capped at limit.
func (s *Service) ListRecent(ctx context.Context, orgID string, limit int) ([]domain.Incident, error) {
	return s.repo.ListRecentIncidents(ctx, orgID, limit)
}
