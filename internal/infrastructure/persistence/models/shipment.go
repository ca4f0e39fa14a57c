package models

import "github.com/shiptrack/backend/internal/domain/tracking"

// ShipmentModel is the persistence model for the shipments table
type ShipmentModel struct {
	BaseModel
	ShippingLabel  *string `gorm:"column:shipping_label;type:varchar(255)"`
	TrackingNumber string  `gorm:"column:tracking_number;type:varchar(255);not null"`
	Shipper        string  `gorm:"column:shipper;type:varchar(255);not null"`
	CustomerID     uint    `gorm:"column:customer_id;not null;index"`

	Customer *CustomerModel `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (ShipmentModel) TableName() string {
	return "shipments"
}

// ToDomain converts the persistence model to a domain Shipment.
// The Customer association is carried over when it was loaded.
func (m *ShipmentModel) ToDomain() *tracking.Shipment {
	s := &tracking.Shipment{
		BaseEntity:     m.BaseModel.ToDomain(),
		ShippingLabel:  m.ShippingLabel,
		TrackingNumber: m.TrackingNumber,
		Shipper:        m.Shipper,
		CustomerID:     m.CustomerID,
	}
	if m.Customer != nil {
		s.Customer = m.Customer.ToDomain()
	}
	return s
}

// ShipmentModelFromDomain converts a domain Shipment to its persistence model.
// Associations are never written through the model.
func ShipmentModelFromDomain(s *tracking.Shipment) *ShipmentModel {
	m := &ShipmentModel{
		ShippingLabel:  s.ShippingLabel,
		TrackingNumber: s.TrackingNumber,
		Shipper:        s.Shipper,
		CustomerID:     s.CustomerID,
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}
