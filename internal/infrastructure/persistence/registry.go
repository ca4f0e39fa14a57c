package persistence

import (
	"fmt"

	"github.com/shiptrack/backend/internal/infrastructure/persistence/models"
)

// Entity names as published in the GraphQL schema
const (
	EntityCustomer = "Customer"
	EntityShipment = "Shipment"
	EntityPackage  = "Package"
	EntityDevice   = "Device"
)

// EntityDefinition binds a GraphQL object type to its table and model
type EntityDefinition struct {
	// Name is the GraphQL object type name
	Name  string
	Table string
	Model any
	// Associations are eager-loaded on every read. Each name is both the
	// GORM association field and the GraphQL field of the related object.
	Associations []string
	// SortFields maps sortable GraphQL field names to column names
	SortFields map[string]string
}

// HasAssociation reports whether name is a declared association
func (d EntityDefinition) HasAssociation(name string) bool {
	for _, a := range d.Associations {
		if a == name {
			return true
		}
	}
	return false
}

// Preloads returns every association path reachable from d, parents
// before children. Package yields Customer, Shipment and Shipment.Customer.
func (d EntityDefinition) Preloads() []string {
	var out []string
	for _, name := range d.Associations {
		out = append(out, name)
		related, err := LookupEntity(name)
		if err != nil {
			continue
		}
		for _, nested := range related.Preloads() {
			out = append(out, name+"."+nested)
		}
	}
	return out
}

var baseSortFields = map[string]string{
	"id":         "id",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func sortFields(fields ...string) map[string]string {
	out := make(map[string]string, len(baseSortFields)+len(fields))
	for k, v := range baseSortFields {
		out[k] = v
	}
	for _, f := range fields {
		out[f] = f
	}
	return out
}

// Entities is the static registry of every entity backed by the store, in
// foreign-key dependency order.
var Entities = []EntityDefinition{
	{
		Name:  EntityCustomer,
		Table: models.CustomerModel{}.TableName(),
		Model: &models.CustomerModel{},
		SortFields: sortFields(
			"customer_name", "customer_address", "customer_city", "customer_state",
			"customer_country", "customer_zipcode", "primary_contact_name",
			"primary_contact_phone_number", "primary_contact_email", "skycatch_sales_rep",
		),
	},
	{
		Name:         EntityShipment,
		Table:        models.ShipmentModel{}.TableName(),
		Model:        &models.ShipmentModel{},
		Associations: []string{EntityCustomer},
		SortFields:   sortFields("shipping_label", "tracking_number", "shipper"),
	},
	{
		Name:         EntityPackage,
		Table:        models.PackageModel{}.TableName(),
		Model:        &models.PackageModel{},
		Associations: []string{EntityCustomer, EntityShipment},
		SortFields:   sortFields("package_type", "package_status"),
	},
	{
		Name:         EntityDevice,
		Table:        models.DeviceModel{}.TableName(),
		Model:        &models.DeviceModel{},
		Associations: []string{EntityPackage},
		SortFields: withAlias(sortFields(
			"serial_number", "resin_uuid", "qr_code", "notes", "imei_number",
			"sim_serial_number", "device_type", "device_status",
		), "mac_Address", "mac_address"),
	},
}

func withAlias(m map[string]string, field, column string) map[string]string {
	m[field] = column
	return m
}

// LookupEntity returns the definition registered under name
func LookupEntity(name string) (EntityDefinition, error) {
	for _, def := range Entities {
		if def.Name == name {
			return def, nil
		}
	}
	return EntityDefinition{}, fmt.Errorf("entity %q is not registered", name)
}

// mustEntity is LookupEntity for names fixed at compile time
func mustEntity(name string) EntityDefinition {
	def, err := LookupEntity(name)
	if err != nil {
		panic(err)
	}
	return def
}

// Models returns the persistence models of every registered entity
func Models() []any {
	out := make([]any, 0, len(Entities))
	for _, def := range Entities {
		out = append(out, def.Model)
	}
	return out
}
