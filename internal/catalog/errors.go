package catalog

import "errors"

var (
	// ErrServiceNotFound is returned when a service does not exist or
	// belongs to another organization. The two cases are indistinguishable
	// on purpose: cross-tenant lookups must look like missing rows.
	ErrServiceNotFound = errors.New("service not found")

	// ErrInvalidStatus is returned for a status value outside the enum.
	ErrInvalidStatus = errors.New("invalid service status")
)
