package tracking

import "github.com/shiptrack/backend/internal/domain/shared"

// Shipment is a carrier consignment belonging to exactly one customer
type Shipment struct {
	shared.BaseEntity
	ShippingLabel  *string
	TrackingNumber string
	Shipper        string
	CustomerID     uint

	// Customer is populated when the association is loaded
	Customer *Customer
}

// NewShipment creates an unsaved shipment for customerID.
// The reference is checked by the store on insert.
func NewShipment(shippingLabel *string, trackingNumber, shipper string, customerID uint) *Shipment {
	return &Shipment{
		ShippingLabel:  shippingLabel,
		TrackingNumber: trackingNumber,
		Shipper:        shipper,
		CustomerID:     customerID,
	}
}
