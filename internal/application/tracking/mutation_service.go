package tracking

import (
	"context"

	"github.com/shiptrack/backend/internal/domain/shared"
	"github.com/shiptrack/backend/internal/domain/tracking"
	"github.com/shiptrack/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// MutationService creates tracking entities. Each call performs exactly one
// insert; referential integrity is left to the store's foreign keys. The
// created row is read back so its associations are populated.
type MutationService struct {
	repos   tracking.Repositories
	queries *QueryService
}

// NewMutationService creates a new MutationService reading back through queries
func NewMutationService(repos tracking.Repositories, queries *QueryService) *MutationService {
	return &MutationService{repos: repos, queries: queries}
}

// CreateCustomer creates a new customer
func (s *MutationService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*tracking.Customer, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "tracking", "create_customer")
	defer span.End()

	customer := tracking.NewCustomer(tracking.CustomerDetails{
		Name:                      req.CustomerName,
		Address:                   req.CustomerAddress,
		City:                      req.CustomerCity,
		State:                     req.CustomerState,
		Country:                   req.CustomerCountry,
		Zipcode:                   req.CustomerZipcode,
		PrimaryContactName:        req.PrimaryContactName,
		PrimaryContactPhoneNumber: req.PrimaryContactPhoneNumber,
		PrimaryContactEmail:       req.PrimaryContactEmail,
		SalesRep:                  req.SalesRep,
	})
	if err := s.repos.Customers.Create(ctx, customer); err != nil {
		return nil, s.failed(ctx, span, "customer", err)
	}
	s.created(ctx, span, "customer", customer.ID)

	return readBack[tracking.Customer](ctx, s.queries, "customer", s.repos.Customers, customer, customer.ID)
}

// CreateShipment creates a new shipment for an existing customer
func (s *MutationService) CreateShipment(ctx context.Context, req CreateShipmentRequest) (*tracking.Shipment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "tracking", "create_shipment",
		telemetry.WithAttribute(telemetry.SpanAttrCustomerID, req.CustomerID))
	defer span.End()

	customerID, err := foreignKey(req.CustomerID, "customer_id")
	if err != nil {
		return nil, s.failed(ctx, span, "shipment", err)
	}

	shipment := tracking.NewShipment(req.ShippingLabel, req.TrackingNumber, req.Shipper, customerID)
	if err := s.repos.Shipments.Create(ctx, shipment); err != nil {
		return nil, s.failed(ctx, span, "shipment", err)
	}
	s.created(ctx, span, "shipment", shipment.ID)

	return readBack[tracking.Shipment](ctx, s.queries, "shipment", s.repos.Shipments, shipment, shipment.ID)
}

// CreatePackage creates a new package for an existing customer and shipment
func (s *MutationService) CreatePackage(ctx context.Context, req CreatePackageRequest) (*tracking.Package, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "tracking", "create_package",
		telemetry.WithAttribute(telemetry.SpanAttrCustomerID, req.CustomerID),
		telemetry.WithAttribute(telemetry.SpanAttrShipmentID, req.ShipmentID))
	defer span.End()

	customerID, err := foreignKey(req.CustomerID, "customer_id")
	if err != nil {
		return nil, s.failed(ctx, span, "package", err)
	}
	shipmentID, err := foreignKey(req.ShipmentID, "shipment_id")
	if err != nil {
		return nil, s.failed(ctx, span, "package", err)
	}

	pkg := tracking.NewPackage(req.PackageType, req.PackageStatus, customerID, shipmentID)
	if err := s.repos.Packages.Create(ctx, pkg); err != nil {
		return nil, s.failed(ctx, span, "package", err)
	}
	s.created(ctx, span, "package", pkg.ID)

	return readBack[tracking.Package](ctx, s.queries, "package", s.repos.Packages, pkg, pkg.ID)
}

// CreateDevice creates a new device inside an existing package
func (s *MutationService) CreateDevice(ctx context.Context, req CreateDeviceRequest) (*tracking.Device, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "tracking", "create_device",
		telemetry.WithAttribute(telemetry.SpanAttrPackageID, req.PackageID))
	defer span.End()

	packageID, err := foreignKey(req.PackageID, "package_id")
	if err != nil {
		return nil, s.failed(ctx, span, "device", err)
	}

	device := tracking.NewDevice(tracking.DeviceDetails{
		SerialNumber:    req.SerialNumber,
		ResinUUID:       req.ResinUUID,
		QRCode:          req.QRCode,
		Notes:           req.Notes,
		MACAddress:      req.MACAddress,
		IMEINumber:      req.IMEINumber,
		SIMSerialNumber: req.SIMSerialNumber,
		Type:            req.DeviceType,
		Status:          req.DeviceStatus,
	}, packageID)
	if err := s.repos.Devices.Create(ctx, device); err != nil {
		return nil, s.failed(ctx, span, "device", err)
	}
	s.created(ctx, span, "device", device.ID)

	return readBack[tracking.Device](ctx, s.queries, "device", s.repos.Devices, device, device.ID)
}

// foreignKey rejects ids that no row can have
func foreignKey(id int, field string) (uint, error) {
	if id <= 0 {
		return 0, shared.ErrReferenceNotFound.WithMessage(field + " does not reference an existing record")
	}
	return uint(id), nil
}

// readBack reloads a created row with its associations. The row is already
// committed, so the inserted entity is returned as is when the reload fails
// or finds nothing.
func readBack[T any](ctx context.Context, q *QueryService, entity string, repo shared.Repository[T], created *T, id uint) (*T, error) {
	loaded, err := byID(ctx, q, "reload_"+entity, repo, id)
	if err != nil {
		q.log(ctx).Warn("Read back of created row failed",
			zap.String("entity", entity),
			zap.Uint("id", id),
			zap.Error(err),
		)
		return created, nil
	}
	if loaded == nil {
		q.log(ctx).Warn("Created row not visible on read back",
			zap.String("entity", entity),
			zap.Uint("id", id),
		)
		return created, nil
	}
	return loaded, nil
}

func (s *MutationService) created(ctx context.Context, span trace.Span, entity string, id uint) {
	telemetry.SetAttributes(span, telemetry.SpanAttrEntity, entity, telemetry.SpanAttrEntityID, id)
	s.queries.log(ctx).Info("Tracking entity created",
		zap.String("entity", entity),
		zap.Uint("id", id),
	)
}

func (s *MutationService) failed(ctx context.Context, span trace.Span, entity string, err error) error {
	telemetry.RecordError(span, err)
	s.queries.log(ctx).Warn("Failed to create tracking entity",
		zap.String("entity", entity),
		zap.Error(err),
	)
	return err
}
