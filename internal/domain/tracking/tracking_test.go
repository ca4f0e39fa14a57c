package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewShipment(t *testing.T) {
	label := "LBL-1"
	s := NewShipment(&label, "TRK1", "UPS", 3)

	assert.False(t, s.IsPersisted())
	assert.Equal(t, "TRK1", s.TrackingNumber)
	assert.Equal(t, "UPS", s.Shipper)
	assert.Equal(t, uint(3), s.CustomerID)
	assert.Equal(t, &label, s.ShippingLabel)
	assert.Nil(t, s.Customer)
}

func TestNewPackage(t *testing.T) {
	p := NewPackage("box", "pending", 1, 2)

	assert.Equal(t, "box", p.Type)
	assert.Equal(t, "pending", p.Status)
	assert.Equal(t, uint(1), p.CustomerID)
	assert.Equal(t, uint(2), p.ShipmentID)
}

func TestNewDevice_KeepsOptionalFields(t *testing.T) {
	mac := "00:1B:44:11:3A:B7"
	d := NewDevice(DeviceDetails{
		SerialNumber: "SN-1",
		MACAddress:   &mac,
		Type:         "drone",
		Status:       "new",
	}, 9)

	assert.Equal(t, "SN-1", d.SerialNumber)
	assert.Equal(t, &mac, d.MACAddress)
	assert.Nil(t, d.ResinUUID)
	assert.Nil(t, d.IMEINumber)
	assert.Equal(t, uint(9), d.PackageID)
}

func TestNewCustomer(t *testing.T) {
	c := NewCustomer(CustomerDetails{Name: "Acme", City: "Oakland", SalesRep: "Dana"})

	assert.Equal(t, "Acme", c.Name)
	assert.Equal(t, "Oakland", c.City)
	assert.Equal(t, "Dana", c.SalesRep)
	assert.Zero(t, c.ID)
}
