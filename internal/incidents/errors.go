package incidents

import "errors"

var (
	// ErrIncidentNotFound covers both a missing incident and an incident
	// owned by another tenant; callers cannot tell the two apart.
	ErrIncidentNotFound = errors.New("incident not found")
	// ErrInvalidStatus is returned for a status outside the incident lifecycle.
	ErrInvalidStatus = errors.New("invalid incident status")
	// ErrInvalidImpact is returned when an incident is opened without a
	// recognized impact level.
	ErrInvalidImpact = errors.New("invalid incident impact")
)
