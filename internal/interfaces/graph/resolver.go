package graph

import (
	"context"
	"fmt"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"

	apptracking "github.com/shiptrack/backend/internal/application/tracking"
	"github.com/shiptrack/backend/internal/domain/shared"
	"github.com/shiptrack/backend/internal/domain/tracking"
)

// Resolver binds the root fields of the schema to the tracking services
type Resolver struct {
	Queries   *apptracking.QueryService
	Mutations *apptracking.MutationService
}

// NewResolver creates a new Resolver
func NewResolver(queries *apptracking.QueryService, mutations *apptracking.MutationService) *Resolver {
	return &Resolver{Queries: queries, Mutations: mutations}
}

// rootField resolves one field of Query or Mutation. resolve returns an
// untyped nil when there is no row; marshal is only called with a value.
type rootField struct {
	nonNull bool
	resolve func(ctx context.Context, args map[string]any) (any, error)
	marshal func(ctx context.Context, ec *executionContext, sel ast.SelectionSet, v any) graphql.Marshaler
}

func (r *Resolver) queryFields() map[string]rootField {
	return map[string]rootField{
		"customer": {
			resolve: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := idArg(args, "id")
				if err != nil {
					return nil, err
				}
				return orNil(r.Queries.Customer(ctx, id))
			},
			marshal: func(ctx context.Context, ec *executionContext, sel ast.SelectionSet, v any) graphql.Marshaler {
				return ec.marshalCustomer(ctx, sel, v.(*tracking.Customer))
			},
		},
		"customers": {
			resolve: func(ctx context.Context, args map[string]any) (any, error) {
				req, err := listArgs(args)
				if err != nil {
					return nil, err
				}
				return r.Queries.Customers(ctx, req)
			},
			marshal: func(ctx context.Context, ec *executionContext, sel ast.SelectionSet, v any) graphql.Marshaler {
				return marshalList(ctx, ec, sel, v.([]tracking.Customer), (*executionContext).marshalCustomer)
			},
		},
		"shipment": {
			resolve: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := idArg(args, "id")
				if err != nil {
					return nil, err
				}
				return orNil(r.Queries.Shipment(ctx, id))
			},
			marshal: func(ctx context.Context, ec *executionContext, sel ast.SelectionSet, v any) graphql.Marshaler {
				return ec.marshalShipment(ctx, sel, v.(*tracking.Shipment))
			},
		},
		"shipments": {
			resolve: func(ctx context.Context, args map[string]any) (any, error) {
				req, err := listArgs(args)
				if err != nil {
					return nil, err
				}
				return r.Queries.Shipments(ctx, req)
			},
			marshal: func(ctx context.Context, ec *executionContext, sel ast.SelectionSet, v any) graphql.Marshaler {
				return marshalList(ctx, ec, sel, v.([]tracking.Shipment), (*executionContext).marshalShipment)
			},
		},
		"package": {
			resolve: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := idArg(args, "id")
				if err != nil {
					return nil, err
				}
				return orNil(r.Queries.Package(ctx, id))
			},
			marshal: func(ctx context.Context, ec *executionContext, sel ast.SelectionSet, v any) graphql.Marshaler {
				return ec.marshalPackage(ctx, sel, v.(*tracking.Package))
			},
		},
		"packages": {
			resolve: func(ctx context.Context, args map[string]any) (any, error) {
				req, err := listArgs(args)
				if err != nil {
					return nil, err
				}
				return r.Queries.Packages(ctx, req)
			},
			marshal: func(ctx context.Context, ec *executionContext, sel ast.SelectionSet, v any) graphql.Marshaler {
				return marshalList(ctx, ec, sel, v.([]tracking.Package), (*executionContext).marshalPackage)
			},
		},
		"device": {
			resolve: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := idArg(args, "id")
				if err != nil {
					return nil, err
				}
				return orNil(r.Queries.Device(ctx, id))
			},
			marshal: func(ctx context.Context, ec *executionContext, sel ast.SelectionSet, v any) graphql.Marshaler {
				return ec.marshalDevice(ctx, sel, v.(*tracking.Device))
			},
		},
		"devices": {
			resolve: func(ctx context.Context, args map[string]any) (any, error) {
				req, err := listArgs(args)
				if err != nil {
					return nil, err
				}
				return r.Queries.Devices(ctx, req)
			},
			marshal: func(ctx context.Context, ec *executionContext, sel ast.SelectionSet, v any) graphql.Marshaler {
				return marshalList(ctx, ec, sel, v.([]tracking.Device), (*executionContext).marshalDevice)
			},
		},
	}
}

func (r *Resolver) mutationFields() map[string]rootField {
	return map[string]rootField{
		"createCustomer": {
			nonNull: true,
			resolve: func(ctx context.Context, args map[string]any) (any, error) {
				var req apptracking.CreateCustomerRequest
				err := decodeArgs(args,
					stringInto("customer_name", &req.CustomerName),
					stringInto("customer_address", &req.CustomerAddress),
					stringInto("customer_city", &req.CustomerCity),
					stringInto("customer_state", &req.CustomerState),
					stringInto("customer_country", &req.CustomerCountry),
					stringInto("customer_zipcode", &req.CustomerZipcode),
					stringInto("primary_contact_name", &req.PrimaryContactName),
					stringInto("primary_contact_phone_number", &req.PrimaryContactPhoneNumber),
					stringInto("primary_contact_email", &req.PrimaryContactEmail),
					stringInto("skycatch_sales_rep", &req.SalesRep),
				)
				if err != nil {
					return nil, err
				}
				return orNil(r.Mutations.CreateCustomer(ctx, req))
			},
			marshal: func(ctx context.Context, ec *executionContext, sel ast.SelectionSet, v any) graphql.Marshaler {
				return ec.marshalCustomer(ctx, sel, v.(*tracking.Customer))
			},
		},
		"createShipment": {
			nonNull: true,
			resolve: func(ctx context.Context, args map[string]any) (any, error) {
				var req apptracking.CreateShipmentRequest
				err := decodeArgs(args,
					optionalStringInto("shipping_label", &req.ShippingLabel),
					stringInto("tracking_number", &req.TrackingNumber),
					stringInto("shipper", &req.Shipper),
					intInto("customer_id", &req.CustomerID),
				)
				if err != nil {
					return nil, err
				}
				return orNil(r.Mutations.CreateShipment(ctx, req))
			},
			marshal: func(ctx context.Context, ec *executionContext, sel ast.SelectionSet, v any) graphql.Marshaler {
				return ec.marshalShipment(ctx, sel, v.(*tracking.Shipment))
			},
		},
		"createPackage": {
			nonNull: true,
			resolve: func(ctx context.Context, args map[string]any) (any, error) {
				var req apptracking.CreatePackageRequest
				err := decodeArgs(args,
					stringInto("package_type", &req.PackageType),
					stringInto("package_status", &req.PackageStatus),
					intInto("customer_id", &req.CustomerID),
					intInto("shipment_id", &req.ShipmentID),
				)
				if err != nil {
					return nil, err
				}
				return orNil(r.Mutations.CreatePackage(ctx, req))
			},
			marshal: func(ctx context.Context, ec *executionContext, sel ast.SelectionSet, v any) graphql.Marshaler {
				return ec.marshalPackage(ctx, sel, v.(*tracking.Package))
			},
		},
		"createDevice": {
			nonNull: true,
			resolve: func(ctx context.Context, args map[string]any) (any, error) {
				var req apptracking.CreateDeviceRequest
				err := decodeArgs(args,
					stringInto("serial_number", &req.SerialNumber),
					optionalStringInto("resin_uuid", &req.ResinUUID),
					optionalStringInto("qr_code", &req.QRCode),
					optionalStringInto("notes", &req.Notes),
					optionalStringInto("mac_address", &req.MACAddress),
					optionalStringInto("imei_number", &req.IMEINumber),
					optionalStringInto("sim_serial_number", &req.SIMSerialNumber),
					stringInto("device_type", &req.DeviceType),
					stringInto("device_status", &req.DeviceStatus),
					intInto("package_id", &req.PackageID),
				)
				if err != nil {
					return nil, err
				}
				return orNil(r.Mutations.CreateDevice(ctx, req))
			},
			marshal: func(ctx context.Context, ec *executionContext, sel ast.SelectionSet, v any) graphql.Marshaler {
				return ec.marshalDevice(ctx, sel, v.(*tracking.Device))
			},
		},
	}
}

// orNil turns a typed nil pointer into an untyped nil result
func orNil[T any](v *T, err error) (any, error) {
	if v == nil {
		return nil, err
	}
	return v, err
}

// argDecoder reads one argument out of a field's argument map
type argDecoder func(args map[string]any) error

func decodeArgs(args map[string]any, decoders ...argDecoder) error {
	for _, decode := range decoders {
		if err := decode(args); err != nil {
			return err
		}
	}
	return nil
}

func stringInto(name string, dst *string) argDecoder {
	return func(args map[string]any) error {
		s, err := graphql.UnmarshalString(args[name])
		if err != nil {
			return invalidArgument(name, err)
		}
		*dst = s
		return nil
	}
}

func optionalStringInto(name string, dst **string) argDecoder {
	return func(args map[string]any) error {
		raw, ok := args[name]
		if !ok || raw == nil {
			return nil
		}
		s, err := graphql.UnmarshalString(raw)
		if err != nil {
			return invalidArgument(name, err)
		}
		*dst = &s
		return nil
	}
}

func intInto(name string, dst *int) argDecoder {
	return func(args map[string]any) error {
		n, err := graphql.UnmarshalInt(args[name])
		if err != nil {
			return invalidArgument(name, err)
		}
		*dst = n
		return nil
	}
}

func optionalIntInto(name string, dst **int) argDecoder {
	return func(args map[string]any) error {
		raw, ok := args[name]
		if !ok || raw == nil {
			return nil
		}
		n, err := graphql.UnmarshalInt(raw)
		if err != nil {
			return invalidArgument(name, err)
		}
		*dst = &n
		return nil
	}
}

func idArg(args map[string]any, name string) (string, error) {
	id, err := graphql.UnmarshalID(args[name])
	if err != nil {
		return "", invalidArgument(name, err)
	}
	return id, nil
}

func listArgs(args map[string]any) (apptracking.ListRequest, error) {
	var req apptracking.ListRequest
	err := decodeArgs(args,
		optionalIntInto("limit", &req.Limit),
		optionalStringInto("sort_order", &req.SortOrder),
		optionalStringInto("sort_field", &req.SortField),
	)
	return req, err
}

func invalidArgument(name string, err error) error {
	return shared.ErrInvalidInput.WithMessage(fmt.Sprintf("invalid value for argument %s", name)).Wrap(err)
}
