package tracking

import "github.com/shiptrack/backend/internal/domain/shared"

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	shared.Repository[Customer]
}

// ShipmentRepository defines the interface for shipment persistence.
// Reads always load the Customer association.
type ShipmentRepository interface {
	shared.Repository[Shipment]
}

// PackageRepository defines the interface for package persistence.
// Reads always load the Customer and Shipment associations.
type PackageRepository interface {
	shared.Repository[Package]
}

// DeviceRepository defines the interface for device persistence.
// Reads always load the Package association.
type DeviceRepository interface {
	shared.Repository[Device]
}

// Repositories groups the store handles of the tracking context
type Repositories struct {
	Customers CustomerRepository
	Shipments ShipmentRepository
	Packages  PackageRepository
	Devices   DeviceRepository
}
