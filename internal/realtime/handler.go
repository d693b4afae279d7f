package realtime

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"

	"github.com/satyansh-mittal/Plivo-Assignment/internal/domain"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/pkg/ctxlog"
)

// writeTimeout caps a single frame write to a slow client.
const writeTimeout = 5 * time.Second

// Authenticator resolves a bearer token to the user and organization it
// belongs to. Private group joins are gated on it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, *domain.Organization, error)
}

// Handler upgrades HTTP requests to websocket sessions backed by the hub.
type Handler struct {
	hub            *Hub
	auth           Authenticator
	originPatterns []string
}

// NewHandler creates a websocket handler. originPatterns is passed through
// to the websocket accept options; empty means same-origin only.
func NewHandler(hub *Hub, auth Authenticator, originPatterns []string) *Handler {
	return &Handler{hub: hub, auth: auth, originPatterns: originPatterns}
}

// RegisterRoutes attaches the websocket endpoint to the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.serve)
}

// clientMessage is a frame received from the client. Only the fields
// relevant to the named event are set.
type clientMessage struct {
	Event          string `json:"event"`
	OrganizationID string `json:"organization_id,omitempty"`
	OrgSlug        string `json:"org_slug,omitempty"`
	Room           string `json:"room,omitempty"`
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(r.Context())

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		logger.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "connection closed")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Auth is optional at connect time. An anonymous session can still
	// join public groups; private joins require a valid token.
	var user *domain.User
	if token := bearerToken(r); token != "" {
		authUser, _, err := h.auth.Authenticate(ctx, token)
		if err != nil {
			conn.Close(websocket.StatusPolicyViolation, "invalid token")
			return
		}
		user = authUser
	}

	connID, events := h.hub.Register()
	defer h.hub.Deregister(connID)

	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		for envelope := range events {
			writeCtx, writeCancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, conn, envelope)
			writeCancel()
			if err != nil {
				cancel()
				return
			}
		}
	}()

	for {
		var msg clientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			status := websocket.CloseStatus(err)
			if status == -1 && !errors.Is(err, context.Canceled) {
				logger.Debug("websocket read failed", "error", err)
			}
			break
		}
		h.handleMessage(connID, user, msg)
	}

	// Deregister closes the events channel, which stops the writer.
	h.hub.Deregister(connID)
	<-writeDone

	conn.Close(websocket.StatusNormalClosure, "")
}

func (h *Handler) handleMessage(connID string, user *domain.User, msg clientMessage) {
	switch msg.Event {
	case "join_organization":
		if user == nil || user.OrganizationID != msg.OrganizationID {
			h.hub.sendError(connID, "unauthorized")
			return
		}
		h.hub.Subscribe(connID, OrganizationGroup(msg.OrganizationID))
	case "join_public":
		if msg.OrgSlug == "" {
			h.hub.sendError(connID, "org_slug is required")
			return
		}
		h.hub.Subscribe(connID, PublicGroup(msg.OrgSlug))
	case "leave":
		if msg.Room != "" {
			h.hub.Unsubscribe(connID, msg.Room)
		}
	default:
		h.hub.sendError(connID, "unknown event")
	}
}

// bearerToken extracts the token from the Authorization header or, for
// browser clients that cannot set headers on websocket upgrades, from the
// token query parameter.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return r.URL.Query().Get("token")
}
