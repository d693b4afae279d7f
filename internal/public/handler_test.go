package public

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/domain"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrgs struct {
	org *domain.Organization
}

func (s *stubOrgs) GetOrganizationBySlug(_ context.Context, slug string) (*domain.Organization, error) {
	if s.org != nil && s.org.Slug == slug {
		return s.org, nil
	}
	return nil, identity.ErrOrganizationNotFound
}

type stubCatalog struct {
	services []domain.Service
	changes  []domain.StatusChange
}

func (s *stubCatalog) ListServices(_ context.Context, _ string) ([]domain.Service, error) {
	return s.services, nil
}

func (s *stubCatalog) ListStatusChanges(_ context.Context, _ string, limit int) ([]domain.StatusChange, error) {
	if len(s.changes) > limit {
		return s.changes[:limit], nil
	}
	return s.changes, nil
}

type stubIncidents struct {
	active []domain.Incident
	recent []domain.Incident
}

func (s *stubIncidents) ListActive(_ context.Context, _ string) ([]domain.Incident, error) {
	return s.active, nil
}

func (s *stubIncidents) ListRecent(_ context.Context, _ string, limit int) ([]domain.Incident, error) {
	if len(s.recent) > limit {
		return s.recent[:limit], nil
	}
	return s.recent, nil
}

func newTestRouter(orgs OrganizationResolver, catalog CatalogReader, incidents IncidentReader) http.Handler {
	r := chi.NewRouter()
	NewHandler(orgs, catalog, incidents).RegisterRoutes(r)
	return r
}

func TestGetStatus(t *testing.T) {
	org := &domain.Organization{ID: "org-1", Name: "Acme Corp", Slug: "acme-corp"}
	catalog := &stubCatalog{services: []domain.Service{{ID: "svc-1", Name: "API", Status: domain.ServiceStatusDegraded}}}
	incidents := &stubIncidents{
		active: []domain.Incident{{ID: "inc-2", Status: domain.IncidentStatusInvestigating}},
		recent: []domain.Incident{
			{ID: "inc-2", Status: domain.IncidentStatusInvestigating},
			{ID: "inc-1", Status: domain.IncidentStatusResolved},
		},
	}
	router := newTestRouter(&stubOrgs{org: org}, catalog, incidents)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/public/acme-corp/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "acme-corp", resp.Organization.Slug)
	require.Len(t, resp.Services, 1)
	assert.Equal(t, domain.ServiceStatusDegraded, resp.Services[0].Status)
	assert.Len(t, resp.ActiveIncidents, 1)
	assert.Len(t, resp.RecentIncidents, 2, "recent includes resolved incidents")
}

func TestGetStatus_UnknownSlug(t *testing.T) {
	router := newTestRouter(&stubOrgs{}, &stubCatalog{}, &stubIncidents{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/public/nobody/status", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"organization not found"}`, rec.Body.String())
}

func TestGetTimeline(t *testing.T) {
	org := &domain.Organization{ID: "org-1", Slug: "acme-corp"}
	changes := make([]domain.StatusChange, 25)
	for i := range changes {
		changes[i] = domain.StatusChange{ID: "chg", ServiceID: "svc-1"}
	}
	incidents := &stubIncidents{recent: []domain.Incident{{ID: "inc-1"}}}
	router := newTestRouter(&stubOrgs{org: org}, &stubCatalog{changes: changes}, incidents)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/public/acme-corp/timeline", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp TimelineResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.StatusChanges, statusChangesLimit)
	assert.Len(t, resp.Incidents, 1)
}
