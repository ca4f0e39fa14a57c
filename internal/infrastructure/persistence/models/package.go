package models

import "github.com/shiptrack/backend/internal/domain/tracking"

// PackageModel is the persistence model for the packages table
type PackageModel struct {
	BaseModel
	PackageType   string `gorm:"column:package_type;type:varchar(255);not null"`
	PackageStatus string `gorm:"column:package_status;type:varchar(255);not null"`
	CustomerID    uint   `gorm:"column:customer_id;not null;index"`
	ShipmentID    uint   `gorm:"column:shipment_id;not null;index"`

	Customer *CustomerModel `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Shipment *ShipmentModel `gorm:"foreignKey:ShipmentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (PackageModel) TableName() string {
	return "packages"
}

// ToDomain converts the persistence model to a domain Package
func (m *PackageModel) ToDomain() *tracking.Package {
	p := &tracking.Package{
		BaseEntity: m.BaseModel.ToDomain(),
		Type:       m.PackageType,
		Status:     m.PackageStatus,
		CustomerID: m.CustomerID,
		ShipmentID: m.ShipmentID,
	}
	if m.Customer != nil {
		p.Customer = m.Customer.ToDomain()
	}
	if m.Shipment != nil {
		p.Shipment = m.Shipment.ToDomain()
	}
	return p
}

// PackageModelFromDomain converts a domain Package to its persistence model
func PackageModelFromDomain(p *tracking.Package) *PackageModel {
	m := &PackageModel{
		PackageType:   p.Type,
		PackageStatus: p.Status,
		CustomerID:    p.CustomerID,
		ShipmentID:    p.ShipmentID,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}
