package graph

import (
	"context"
	"strconv"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/shiptrack/backend/internal/domain/tracking"
)

// objectFields collects the selected fields of an object type and fills a
// field set with the value returned by field for each of them
func (ec *executionContext) objectFields(sel ast.SelectionSet, typeName string, field func(f graphql.CollectedField) graphql.Marshaler) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, []string{typeName})
	out := graphql.NewFieldSet(fields)
	for i, f := range fields {
		if f.Name == "__typename" {
			out.Values[i] = graphql.MarshalString(typeName)
			continue
		}
		out.Values[i] = field(f)
	}
	return out
}

func (ec *executionContext) marshalCustomer(_ context.Context, sel ast.SelectionSet, c *tracking.Customer) graphql.Marshaler {
	if c == nil {
		return graphql.Null
	}
	return ec.objectFields(sel, "Customer", func(f graphql.CollectedField) graphql.Marshaler {
		switch f.Name {
		case "id":
			return marshalID(c.ID)
		case "customer_name":
			return graphql.MarshalString(c.Name)
		case "customer_address":
			return graphql.MarshalString(c.Address)
		case "customer_city":
			return graphql.MarshalString(c.City)
		case "customer_state":
			return graphql.MarshalString(c.State)
		case "customer_country":
			return graphql.MarshalString(c.Country)
		case "customer_zipcode":
			return graphql.MarshalString(c.Zipcode)
		case "primary_contact_name":
			return graphql.MarshalString(c.PrimaryContactName)
		case "primary_contact_phone_number":
			return graphql.MarshalString(c.PrimaryContactPhoneNumber)
		case "primary_contact_email":
			return graphql.MarshalString(c.PrimaryContactEmail)
		case "skycatch_sales_rep":
			return graphql.MarshalString(c.SalesRep)
		default:
			return graphql.Null
		}
	})
}

func (ec *executionContext) marshalShipment(ctx context.Context, sel ast.SelectionSet, s *tracking.Shipment) graphql.Marshaler {
	if s == nil {
		return graphql.Null
	}
	return ec.objectFields(sel, "Shipment", func(f graphql.CollectedField) graphql.Marshaler {
		switch f.Name {
		case "id":
			return marshalID(s.ID)
		case "shipping_label":
			return marshalOptionalString(s.ShippingLabel)
		case "tracking_number":
			return graphql.MarshalString(s.TrackingNumber)
		case "shipper":
			return graphql.MarshalString(s.Shipper)
		case "Customer":
			return ec.marshalCustomer(ctx, f.Selections, s.Customer)
		default:
			return graphql.Null
		}
	})
}

func (ec *executionContext) marshalPackage(ctx context.Context, sel ast.SelectionSet, p *tracking.Package) graphql.Marshaler {
	if p == nil {
		return graphql.Null
	}
	return ec.objectFields(sel, "Package", func(f graphql.CollectedField) graphql.Marshaler {
		switch f.Name {
		case "id":
			return marshalID(p.ID)
		case "package_type":
			return graphql.MarshalString(p.Type)
		case "package_status":
			return graphql.MarshalString(p.Status)
		case "Customer":
			return ec.marshalCustomer(ctx, f.Selections, p.Customer)
		case "Shipment":
			return ec.marshalShipment(ctx, f.Selections, p.Shipment)
		default:
			return graphql.Null
		}
	})
}

// marshalDevice never exposes the package_id column; the package is
// reachable only through the Package field.
func (ec *executionContext) marshalDevice(ctx context.Context, sel ast.SelectionSet, d *tracking.Device) graphql.Marshaler {
	if d == nil {
		return graphql.Null
	}
	return ec.objectFields(sel, "Device", func(f graphql.CollectedField) graphql.Marshaler {
		switch f.Name {
		case "id":
			return marshalID(d.ID)
		case "serial_number":
			return graphql.MarshalString(d.SerialNumber)
		case "resin_uuid":
			return marshalOptionalString(d.ResinUUID)
		case "qr_code":
			return marshalOptionalString(d.QRCode)
		case "notes":
			return marshalOptionalString(d.Notes)
		case "mac_Address":
			return marshalOptionalString(d.MACAddress)
		case "imei_number":
			return marshalOptionalString(d.IMEINumber)
		case "sim_serial_number":
			return marshalOptionalString(d.SIMSerialNumber)
		case "device_type":
			return graphql.MarshalString(d.Type)
		case "device_status":
			return graphql.MarshalString(d.Status)
		case "Package":
			return ec.marshalPackage(ctx, f.Selections, d.Package)
		default:
			return graphql.Null
		}
	})
}

func marshalList[T any](
	ctx context.Context,
	ec *executionContext,
	sel ast.SelectionSet,
	rows []T,
	marshal func(*executionContext, context.Context, ast.SelectionSet, *T) graphql.Marshaler,
) graphql.Marshaler {
	out := make(graphql.Array, len(rows))
	for i := range rows {
		out[i] = marshal(ec, ctx, sel, &rows[i])
	}
	return out
}

func marshalID(id uint) graphql.Marshaler {
	return graphql.MarshalID(strconv.FormatUint(uint64(id), 10))
}

func marshalOptionalString(s *string) graphql.Marshaler {
	if s == nil {
		return graphql.Null
	}
	return graphql.MarshalString(*s)
}
