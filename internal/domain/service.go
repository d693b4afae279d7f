package domain

import "time"

// ServiceStatus represents the operational status of a service.
// It is a flat severity enum with no ordering constraint: any value may be
// set at any time by an authenticated member of the owning organization.
type ServiceStatus string

// Service statuses.
const (
	ServiceStatusOperational   ServiceStatus = "operational"
	ServiceStatusDegraded      ServiceStatus = "degraded"
	ServiceStatusPartialOutage ServiceStatus = "partial_outage"
	ServiceStatusMajorOutage   ServiceStatus = "major_outage"
)

// IsValid checks if the service status is valid.
func (s ServiceStatus) IsValid() bool {
	switch s {
	case ServiceStatusOperational, ServiceStatusDegraded,
		ServiceStatusPartialOutage, ServiceStatusMajorOutage:
		return true
	}
	return false
}

// Service represents a monitored service owned by one organization.
type Service struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Status         ServiceStatus `json:"status"`
	OrganizationID string        `json:"organization_id"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// StatusChange is an immutable audit record of a service status transition.
// A row exists only for transitions where the old and new statuses differ.
type StatusChange struct {
	ID        string        `json:"id"`
	ServiceID string        `json:"service_id"`
	OldStatus ServiceStatus `json:"old_status"`
	NewStatus ServiceStatus `json:"new_status"`
	ChangedBy string        `json:"changed_by"`
	CreatedAt time.Time     `json:"created_at"`
}
