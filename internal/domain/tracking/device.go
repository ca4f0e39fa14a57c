package tracking

import "github.com/shiptrack/backend/internal/domain/shared"

// Device is a tracked unit packed into a package
type Device struct {
	shared.BaseEntity
	SerialNumber    string
	ResinUUID       *string
	QRCode          *string
	Notes           *string
	MACAddress      *string
	IMEINumber      *string
	SIMSerialNumber *string
	Type            string
	Status          string

	// PackageID is kept for writes only; readers get the Package object.
	PackageID uint
	Package   *Package
}

// DeviceDetails holds the scalar fields supplied when a device is created
type DeviceDetails struct {
	SerialNumber    string
	ResinUUID       *string
	QRCode          *string
	Notes           *string
	MACAddress      *string
	IMEINumber      *string
	SIMSerialNumber *string
	Type            string
	Status          string
}

// NewDevice creates an unsaved device inside packageID
func NewDevice(d DeviceDetails, packageID uint) *Device {
	return &Device{
		SerialNumber:    d.SerialNumber,
		ResinUUID:       d.ResinUUID,
		QRCode:          d.QRCode,
		Notes:           d.Notes,
		MACAddress:      d.MACAddress,
		IMEINumber:      d.IMEINumber,
		SIMSerialNumber: d.SIMSerialNumber,
		Type:            d.Type,
		Status:          d.Status,
		PackageID:       packageID,
	}
}
