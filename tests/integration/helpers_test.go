//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/satyansh-mittal/Plivo-Assignment/internal/testutil"
	"github.com/stretchr/testify/require"
)

var tenantSeq atomic.Int64

// registerTenant registers a fresh organization with a unique admin user
// and returns the authenticated client plus the org id and slug.
func registerTenant(t *testing.T) (client *testutil.Client, orgID, orgSlug string) {
	t.Helper()
	client = newTestClient(t)

	n := tenantSeq.Add(1)
	email := fmt.Sprintf("admin%d@example.com", n)
	orgName := fmt.Sprintf("Tenant %d", n)

	orgID, orgSlug = client.Register(t, email, "password123", "Admin", orgName)
	return client, orgID, orgSlug
}

type serviceJSON struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	OrganizationID string `json:"organization_id"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type incidentUpdateJSON struct {
	ID         string `json:"id"`
	Message    string `json:"message"`
	Status     string `json:"status"`
	IncidentID string `json:"incident_id"`
	CreatedBy  string `json:"created_by"`
}

type incidentJSON struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	Status         string               `json:"status"`
	Impact         string               `json:"impact"`
	Type           string               `json:"incident_type"`
	ServiceID      string               `json:"service_id"`
	OrganizationID string               `json:"organization_id"`
	CreatedBy      string               `json:"created_by"`
	ResolvedAt     *string              `json:"resolved_at"`
	Updates        []incidentUpdateJSON `json:"updates"`
}

// createService creates a service through the API and returns it.
func createService(t *testing.T, client *testutil.Client, name string) serviceJSON {
	t.Helper()

	resp, err := client.POST("/api/services", map[string]string{"name": name})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var svc serviceJSON
	testutil.DecodeJSON(t, resp, &svc)
	return svc
}

// createIncident opens an incident through the API and returns it.
func createIncident(t *testing.T, client *testutil.Client, serviceID, title string) incidentJSON {
	t.Helper()

	resp, err := client.POST("/api/incidents", map[string]string{
		"title":      title,
		"service_id": serviceID,
		"impact":     "minor",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var inc incidentJSON
	testutil.DecodeJSON(t, resp, &inc)
	return inc
}

// fetchIncident reads the incident back through the list endpoint.
func fetchIncident(t *testing.T, client *testutil.Client, incidentID string) incidentJSON {
	t.Helper()

	resp, err := client.GET("/api/incidents")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var incidents []incidentJSON
	testutil.DecodeJSON(t, resp, &incidents)
	for _, inc := range incidents {
		if inc.ID == incidentID {
			return inc
		}
	}
	t.Fatalf("incident %s not found in list", incidentID)
	return incidentJSON{}
}
