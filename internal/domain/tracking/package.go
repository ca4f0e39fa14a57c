package tracking

import "github.com/shiptrack/backend/internal/domain/shared"

// Package is a box travelling in a shipment on behalf of a customer
type Package struct {
	shared.BaseEntity
	Type       string
	Status     string
	CustomerID uint
	ShipmentID uint

	Customer *Customer
	Shipment *Shipment
}

// NewPackage creates an unsaved package referencing a customer and a shipment
func NewPackage(packageType, status string, customerID, shipmentID uint) *Package {
	return &Package{
		Type:       packageType,
		Status:     status,
		CustomerID: customerID,
		ShipmentID: shipmentID,
	}
}
