// Package public serves the anonymous read views of a tenant's status
// page, looked up by slug. No authentication is involved.
package public

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/satyansh-mittal/Plivo-Assignment/internal/domain"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/identity"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/pkg/ctxlog"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/pkg/httputil"
)

const (
	recentIncidentsLimit = 10
	statusChangesLimit   = 20
)

// OrganizationResolver looks a tenant up by its public slug.
type OrganizationResolver interface {
	GetOrganizationBySlug(ctx context.Context, slug string) (*domain.Organization, error)
}

// CatalogReader exposes the catalog views the public page needs.
type CatalogReader interface {
	ListServices(ctx context.Context, orgID string) ([]domain.Service, error)
	ListStatusChanges(ctx context.Context, orgID string, limit int) ([]domain.StatusChange, error)
}

// IncidentReader exposes the incident views the public page needs.
type IncidentReader interface {
	ListActive(ctx context.Context, orgID string) ([]domain.Incident, error)
	ListRecent(ctx context.Context, orgID string, limit int) ([]domain.Incident, error)
}

// Handler handles the public status page endpoints.
type Handler struct {
	orgs      OrganizationResolver
	catalog   CatalogReader
	incidents IncidentReader
}

// NewHandler creates a new public handler.
func NewHandler(orgs OrganizationResolver, catalog CatalogReader, incidents IncidentReader) *Handler {
	return &Handler{orgs: orgs, catalog: catalog, incidents: incidents}
}

// RegisterRoutes registers the anonymous routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/public/{slug}", func(r chi.Router) {
		r.Get("/status", h.GetStatus)
		r.Get("/timeline", h.GetTimeline)
	})
}

// StatusResponse is the public status page payload.
type StatusResponse struct {
	Organization    *domain.Organization `json:"organization"`
	Services        []domain.Service     `json:"services"`
	ActiveIncidents []domain.Incident    `json:"active_incidents"`
	RecentIncidents []domain.Incident    `json:"recent_incidents"`
}

// TimelineResponse is the public timeline payload.
type TimelineResponse struct {
	StatusChanges []domain.StatusChange `json:"status_changes"`
	Incidents     []domain.Incident     `json:"incidents"`
}

// GetStatus handles GET /public/{slug}/status.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	org, ok := h.resolveOrganization(w, r)
	if !ok {
		return
	}

	services, err := h.catalog.ListServices(r.Context(), org.ID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	active, err := h.incidents.ListActive(r.Context(), org.ID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	recent, err := h.incidents.ListRecent(r.Context(), org.ID, recentIncidentsLimit)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, StatusResponse{
		Organization:    org,
		Services:        services,
		ActiveIncidents: active,
		RecentIncidents: recent,
	})
}

// GetTimeline handles GET /public/{slug}/timeline.
func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	org, ok := h.resolveOrganization(w, r)
	if !ok {
		return
	}

	changes, err := h.catalog.ListStatusChanges(r.Context(), org.ID, statusChangesLimit)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	incidents, err := h.incidents.ListRecent(r.Context(), org.ID, recentIncidentsLimit)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, TimelineResponse{
		StatusChanges: changes,
		Incidents:     incidents,
	})
}

func (h *Handler) resolveOrganization(w http.ResponseWriter, r *http.Request) (*domain.Organization, bool) {
	slug := chi.URLParam(r, "slug")

	org, err := h.orgs.GetOrganizationBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, identity.ErrOrganizationNotFound) {
			httputil.Error(w, http.StatusNotFound, "organization not found")
			return nil, false
		}
		h.internalError(w, r, err)
		return nil, false
	}
	return org, true
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	ctxlog.FromContext(r.Context()).Error("internal error", "error", err)
	httputil.Error(w, http.StatusInternalServerError, "internal error")
}
