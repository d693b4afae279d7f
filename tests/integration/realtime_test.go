//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func dialWS(t *testing.T, token string) *websocket.Conn {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := testServer.URL + "/ws"
	if token != "" {
		url += "?token=" + token
	}

	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) wsEnvelope {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var envelope wsEnvelope
	require.NoError(t, wsjson.Read(ctx, conn, &envelope))
	return envelope
}

func sendMessage(t *testing.T, conn *websocket.Conn, msg map[string]string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, wsjson.Write(ctx, conn, msg))
}

func TestRealtime_OrganizationEvents(t *testing.T) {
	client, orgID, _ := registerTenant(t)

	conn := dialWS(t, client.Token)
	sendMessage(t, conn, map[string]string{
		"event":           "join_organization",
		"organization_id": orgID,
	})

	joined := readEnvelope(t, conn)
	assert.Equal(t, "joined", joined.Event)
	assert.JSONEq(t, `{"room":"org_`+orgID+`"}`, string(joined.Data))

	svc := createService(t, client, "Realtime API")

	created := readEnvelope(t, conn)
	assert.Equal(t, "service_created", created.Event)
	var payload serviceJSON
	require.NoError(t, json.Unmarshal(created.Data, &payload))
	assert.Equal(t, svc.ID, payload.ID)
}

func TestRealtime_PublicStatusUpdates(t *testing.T) {
	client, _, slug := registerTenant(t)
	svc := createService(t, client, "API")

	// Public viewers join anonymously by slug.
	conn := dialWS(t, "")
	sendMessage(t, conn, map[string]string{
		"event":    "join_public",
		"org_slug": slug,
	})

	joined := readEnvelope(t, conn)
	assert.Equal(t, "joined", joined.Event)

	resp, err := client.PUT("/api/services/"+svc.ID, map[string]string{"status": "major_outage"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	update := readEnvelope(t, conn)
	assert.Equal(t, "public_status_update", update.Event)
	var payload serviceJSON
	require.NoError(t, json.Unmarshal(update.Data, &payload))
	assert.Equal(t, "major_outage", payload.Status)
}

func TestRealtime_PublicIncidentUpdates(t *testing.T) {
	client, _, slug := registerTenant(t)
	svc := createService(t, client, "API")

	conn := dialWS(t, "")
	sendMessage(t, conn, map[string]string{
		"event":    "join_public",
		"org_slug": slug,
	})
	readEnvelope(t, conn) // joined

	inc := createIncident(t, client, svc.ID, "Visible to viewers")

	event := readEnvelope(t, conn)
	assert.Equal(t, "public_incident_update", event.Event)
	var payload incidentJSON
	require.NoError(t, json.Unmarshal(event.Data, &payload))
	assert.Equal(t, inc.ID, payload.ID)
}

func TestRealtime_PrivateJoinRequiresMatchingToken(t *testing.T) {
	_, orgID, _ := registerTenant(t)

	// Anonymous connections cannot join a private group.
	conn := dialWS(t, "")
	sendMessage(t, conn, map[string]string{
		"event":           "join_organization",
		"organization_id": orgID,
	})
	errEnvelope := readEnvelope(t, conn)
	assert.Equal(t, "error", errEnvelope.Event)

	// Neither can an authenticated user from a different tenant.
	other, _, _ := registerTenant(t)
	otherConn := dialWS(t, other.Token)
	sendMessage(t, otherConn, map[string]string{
		"event":           "join_organization",
		"organization_id": orgID,
	})
	errEnvelope = readEnvelope(t, otherConn)
	assert.Equal(t, "error", errEnvelope.Event)
}

func TestRealtime_LeaveStopsDelivery(t *testing.T) {
	client, _, slug := registerTenant(t)
	svc := createService(t, client, "API")

	conn := dialWS(t, "")
	sendMessage(t, conn, map[string]string{
		"event":    "join_public",
		"org_slug": slug,
	})
	readEnvelope(t, conn) // joined

	sendMessage(t, conn, map[string]string{
		"event": "leave",
		"room":  "public_" + slug,
	})

	// Give the leave a moment to land before triggering a broadcast.
	time.Sleep(100 * time.Millisecond)

	resp, err := client.PUT("/api/services/"+svc.ID, map[string]string{"status": "degraded"})
	require.NoError(t, err)
	_ = resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	var envelope wsEnvelope
	err = wsjson.Read(ctx, conn, &envelope)
	assert.Error(t, err, "no events after leaving the group")
}
