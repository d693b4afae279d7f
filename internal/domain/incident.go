package domain

import "time"

type IncidentStatus string

const (
	IncidentStatusInvestigating IncidentStatus = "investigating"
	IncidentStatusIdentified    IncidentStatus = "identified"
	IncidentStatusMonitoring    IncidentStatus = "monitoring"
	IncidentStatusResolved      IncidentStatus = "resolved"
)

func (s IncidentStatus) IsValid() bool {
	switch s {
	case IncidentStatusInvestigating, IncidentStatusIdentified,
		IncidentStatusMonitoring, IncidentStatusResolved:
		return true
	}
	return false
}

// IsActive reports whether the status counts toward the public page's
// active incident list.
func (s IncidentStatus) IsActive() bool {
	return s != IncidentStatusResolved
}

type IncidentImpact string

const (
	IncidentImpactMinor    IncidentImpact = "minor"
	IncidentImpactMajor    IncidentImpact = "major"
	IncidentImpactCritical IncidentImpact = "critical"
)

func (i IncidentImpact) IsValid() bool {
	return i == IncidentImpactMinor || i == IncidentImpactMajor || i == IncidentImpactCritical
}

type IncidentType string

const (
	IncidentTypeIncident    IncidentType = "incident"
	IncidentTypeMaintenance IncidentType = "maintenance"
)

func (t IncidentType) IsValid() bool {
	return t == IncidentTypeIncident || t == IncidentTypeMaintenance
}

// Incident belongs to one organization and references a single service.
// Updates are ordered newest first. ResolvedAt is stamped when the status
// transitions to resolved and is never cleared afterwards.
type Incident struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Status         IncidentStatus   `json:"status"`
	Impact         IncidentImpact   `json:"impact"`
	Type           IncidentType     `json:"incident_type"`
	ServiceID      string           `json:"service_id"`
	OrganizationID string           `json:"organization_id"`
	CreatedBy      string           `json:"created_by"`
	CreatedAt      time.Time        `json:"created_at"`
	ResolvedAt     *time.Time       `json:"resolved_at"`
	Updates        []IncidentUpdate `json:"updates"`
}

// IncidentUpdate is immutable once created. Status is a snapshot of the
// incident status at the time the update was posted.
type IncidentUpdate struct {
	ID         string         `json:"id"`
	Message    string         `json:"message"`
	Status     IncidentStatus `json:"status"`
	IncidentID string         `json:"incident_id"`
	CreatedBy  string         `json:"created_by"`
	CreatedAt  time.Time      `json:"created_at"`
}
