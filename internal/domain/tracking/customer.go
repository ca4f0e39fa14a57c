package tracking

import "github.com/shiptrack/backend/internal/domain/shared"

// Customer is an organisation that ships packages of devices
type Customer struct {
	shared.BaseEntity
	Name                      string
	Address                   string
	City                      string
	State                     string
	Country                   string
	Zipcode                   string
	PrimaryContactName        string
	PrimaryContactPhoneNumber string
	PrimaryContactEmail       string
	SalesRep                  string
}

// CustomerDetails holds the scalar fields supplied when a customer is created
type CustomerDetails struct {
	Name                      string
	Address                   string
	City                      string
	State                     string
	Country                   string
	Zipcode                   string
	PrimaryContactName        string
	PrimaryContactPhoneNumber string
	PrimaryContactEmail       string
	SalesRep                  string
}

// NewCustomer creates an unsaved customer from its details
func NewCustomer(d CustomerDetails) *Customer {
	return &Customer{
		Name:                      d.Name,
		Address:                   d.Address,
		City:                      d.City,
		State:                     d.State,
		Country:                   d.Country,
		Zipcode:                   d.Zipcode,
		PrimaryContactName:        d.PrimaryContactName,
		PrimaryContactPhoneNumber: d.PrimaryContactPhoneNumber,
		PrimaryContactEmail:       d.PrimaryContactEmail,
		SalesRep:                  d.SalesRep,
	}
}
