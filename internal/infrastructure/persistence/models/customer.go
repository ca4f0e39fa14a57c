package models

import "github.com/shiptrack/backend/internal/domain/tracking"

// CustomerModel is the persistence model for the customers table
type CustomerModel struct {
	BaseModel
	CustomerName              string `gorm:"column:customer_name;type:varchar(255);not null"`
	CustomerAddress           string `gorm:"column:customer_address;type:varchar(255);not null"`
	CustomerCity              string `gorm:"column:customer_city;type:varchar(255);not null"`
	CustomerState             string `gorm:"column:customer_state;type:varchar(255);not null"`
	CustomerCountry           string `gorm:"column:customer_country;type:varchar(255);not null"`
	CustomerZipcode           string `gorm:"column:customer_zipcode;type:varchar(255);not null"`
	PrimaryContactName        string `gorm:"column:primary_contact_name;type:varchar(255);not null"`
	PrimaryContactPhoneNumber string `gorm:"column:primary_contact_phone_number;type:varchar(255);not null"`
	PrimaryContactEmail       string `gorm:"column:primary_contact_email;type:varchar(255);not null"`
	SkycatchSalesRep          string `gorm:"column:skycatch_sales_rep;type:varchar(255);not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *tracking.Customer {
	return &tracking.Customer{
		BaseEntity:                m.BaseModel.ToDomain(),
		Name:                      m.CustomerName,
		Address:                   m.CustomerAddress,
		City:                      m.CustomerCity,
		State:                     m.CustomerState,
		Country:                   m.CustomerCountry,
		Zipcode:                   m.CustomerZipcode,
		PrimaryContactName:        m.PrimaryContactName,
		PrimaryContactPhoneNumber: m.PrimaryContactPhoneNumber,
		PrimaryContactEmail:       m.PrimaryContactEmail,
		SalesRep:                  m.SkycatchSalesRep,
	}
}

// CustomerModelFromDomain converts a domain Customer to its persistence model
func CustomerModelFromDomain(c *tracking.Customer) *CustomerModel {
	m := &CustomerModel{
		CustomerName:              c.Name,
		CustomerAddress:           c.Address,
		CustomerCity:              c.City,
		CustomerState:             c.State,
		CustomerCountry:           c.Country,
		CustomerZipcode:           c.Zipcode,
		PrimaryContactName:        c.PrimaryContactName,
		PrimaryContactPhoneNumber: c.PrimaryContactPhoneNumber,
		PrimaryContactEmail:       c.PrimaryContactEmail,
		SkycatchSalesRep:          c.SalesRep,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}
