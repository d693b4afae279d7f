// Package incidents provides HTTP handlers and business logic for the
// incident lifecycle: opening incidents and posting timeline updates.
package incidents

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/domain"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/pkg/ctxlog"
	"github.com/satyansh-mittal/Plivo-Assignment/internal/pkg/httputil"
)

// Handler handles HTTP requests for the incidents module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new incidents handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: httputil.NewValidator(),
	}
}

// RegisterRoutes registers the authenticated incident routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/incidents", func(r chi.Router) {
		r.Get("/", h.ListIncidents)
		r.Post("/", h.CreateIncident)
		r.Post("/{id}/updates", h.AddUpdate)
	})
}

// CreateIncidentRequest represents the request body for opening an incident.
// New incidents always start at investigating, so no status field exists here.
type CreateIncidentRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	ServiceID   string `json:"service_id" validate:"required"`
	Impact      string `json:"impact" validate:"required,oneof=minor major critical"`
	Type        string `json:"incident_type" validate:"omitempty,oneof=incident maintenance"`
}

// AddUpdateRequest represents the request body for posting an incident
// update. Status is optional; when present it moves the incident.
type AddUpdateRequest struct {
	Message string `json:"message" validate:"required"`
	Status  string `json:"status" validate:"omitempty,oneof=investigating identified monitoring resolved"`
}

// ListIncidents handles GET /incidents.
func (h *Handler) ListIncidents(w http.ResponseWriter, r *http.Request) {
	org := httputil.GetOrganization(r.Context())

	incidents, err := h.service.List(r.Context(), org.ID)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, incidents)
}

// CreateIncident handles POST /incidents.
func (h *Handler) CreateIncident(w http.ResponseWriter, r *http.Request) {
	org := httputil.GetOrganization(r.Context())
	actor := httputil.GetUser(r.Context())

	var req CreateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	incident, err := h.service.Create(r.Context(), org, actor.ID, CreateIncidentInput{
		Title:       req.Title,
		Description: req.Description,
		ServiceID:   req.ServiceID,
		Impact:      domain.IncidentImpact(req.Impact),
		Type:        domain.IncidentType(req.Type),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, incident)
}

// AddUpdate handles POST /incidents/{id}/updates.
func (h *Handler) AddUpdate(w http.ResponseWriter, r *http.Request) {
	org := httputil.GetOrganization(r.Context())
	actor := httputil.GetUser(r.Context())
	incidentID := chi.URLParam(r, "id")

	var req AddUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	update, err := h.service.AddUpdate(r.Context(), org, actor.ID, incidentID, req.Message, domain.IncidentStatus(req.Status))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, update)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrIncidentNotFound):
		httputil.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidImpact):
		httputil.Error(w, http.StatusBadRequest, err.Error())
	default:
		ctxlog.FromContext(r.Context()).Error("internal error", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "internal error")
	}
}
