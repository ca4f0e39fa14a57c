package models

import "github.com/shiptrack/backend/internal/domain/tracking"

// DeviceModel is the persistence model for the devices table
type DeviceModel struct {
	BaseModel
	SerialNumber    string  `gorm:"column:serial_number;type:varchar(255);not null"`
	ResinUUID       *string `gorm:"column:resin_uuid;type:varchar(255)"`
	QRCode          *string `gorm:"column:qr_code;type:varchar(255)"`
	Notes           *string `gorm:"column:notes;type:text"`
	MACAddress      *string `gorm:"column:mac_address;type:varchar(255)"`
	IMEINumber      *string `gorm:"column:imei_number;type:varchar(255)"`
	SIMSerialNumber *string `gorm:"column:sim_serial_number;type:varchar(255)"`
	DeviceType      string  `gorm:"column:device_type;type:varchar(255);not null"`
	DeviceStatus    string  `gorm:"column:device_status;type:varchar(255);not null"`
	PackageID       uint    `gorm:"column:package_id;not null;index"`

	Package *PackageModel `gorm:"foreignKey:PackageID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (DeviceModel) TableName() string {
	return "devices"
}

// ToDomain converts the persistence model to a domain Device
func (m *DeviceModel) ToDomain() *tracking.Device {
	d := &tracking.Device{
		BaseEntity:      m.BaseModel.ToDomain(),
		SerialNumber:    m.SerialNumber,
		ResinUUID:       m.ResinUUID,
		QRCode:          m.QRCode,
		Notes:           m.Notes,
		MACAddress:      m.MACAddress,
		IMEINumber:      m.IMEINumber,
		SIMSerialNumber: m.SIMSerialNumber,
		Type:            m.DeviceType,
		Status:          m.DeviceStatus,
		PackageID:       m.PackageID,
	}
	if m.Package != nil {
		d.Package = m.Package.ToDomain()
	}
	return d
}

// DeviceModelFromDomain converts a domain Device to its persistence model
func DeviceModelFromDomain(d *tracking.Device) *DeviceModel {
	m := &DeviceModel{
		SerialNumber:    d.SerialNumber,
		ResinUUID:       d.ResinUUID,
		QRCode:          d.QRCode,
		Notes:           d.Notes,
		MACAddress:      d.MACAddress,
		IMEINumber:      d.IMEINumber,
		SIMSerialNumber: d.SIMSerialNumber,
		DeviceType:      d.Type,
		DeviceStatus:    d.Status,
		PackageID:       d.PackageID,
	}
	m.FromDomainBaseEntity(d.BaseEntity)
	return m
}
