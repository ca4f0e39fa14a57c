package tracking

import (
	"context"
	"errors"
	"strconv"

	"github.com/shiptrack/backend/internal/domain/shared"
	"github.com/shiptrack/backend/internal/domain/tracking"
	"github.com/shiptrack/backend/internal/infrastructure/logger"
	"github.com/shiptrack/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// QueryServiceOption configures a QueryService
type QueryServiceOption func(*QueryService)

// WithLegacyListArguments makes list queries ignore limit and sort arguments
func WithLegacyListArguments(enabled bool) QueryServiceOption {
	return func(s *QueryService) {
		s.legacyListArguments = enabled
	}
}

// QueryService serves the read-only lookups of the tracking entities.
// A missing row is reported as (nil, nil), never as an error.
type QueryService struct {
	repos               tracking.Repositories
	logger              *zap.Logger
	legacyListArguments bool
}

// NewQueryService creates a new QueryService
func NewQueryService(repos tracking.Repositories, zapLogger *zap.Logger, opts ...QueryServiceOption) *QueryService {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	s := &QueryService{repos: repos, logger: zapLogger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Customer returns the customer with the given id
func (s *QueryService) Customer(ctx context.Context, id string) (*tracking.Customer, error) {
	return findOne[tracking.Customer](ctx, s, "customer", s.repos.Customers, id)
}

// Customers lists customers
func (s *QueryService) Customers(ctx context.Context, req ListRequest) ([]tracking.Customer, error) {
	return findMany[tracking.Customer](ctx, s, "customers", s.repos.Customers, req)
}

// Shipment returns the shipment with the given id and its customer
func (s *QueryService) Shipment(ctx context.Context, id string) (*tracking.Shipment, error) {
	return findOne[tracking.Shipment](ctx, s, "shipment", s.repos.Shipments, id)
}

// Shipments lists shipments with their customers
func (s *QueryService) Shipments(ctx context.Context, req ListRequest) ([]tracking.Shipment, error) {
	return findMany[tracking.Shipment](ctx, s, "shipments", s.repos.Shipments, req)
}

// Package returns the package with the given id, its customer and shipment
func (s *QueryService) Package(ctx context.Context, id string) (*tracking.Package, error) {
	return findOne[tracking.Package](ctx, s, "package", s.repos.Packages, id)
}

// Packages lists packages with their customers and shipments
func (s *QueryService) Packages(ctx context.Context, req ListRequest) ([]tracking.Package, error) {
	return findMany[tracking.Package](ctx, s, "packages", s.repos.Packages, req)
}

// Device returns the device with the given id and its package
func (s *QueryService) Device(ctx context.Context, id string) (*tracking.Device, error) {
	return findOne[tracking.Device](ctx, s, "device", s.repos.Devices, id)
}

// Devices lists devices with their packages
func (s *QueryService) Devices(ctx context.Context, req ListRequest) ([]tracking.Device, error) {
	return findMany[tracking.Device](ctx, s, "devices", s.repos.Devices, req)
}

// ListOptions converts list arguments to repository options. Legacy mode
// returns the zero options so every row is returned in id order.
func (s *QueryService) ListOptions(req ListRequest) shared.ListOptions {
	if s.legacyListArguments {
		return shared.ListOptions{}
	}
	var opts shared.ListOptions
	if req.Limit != nil && *req.Limit > 0 {
		opts.Limit = *req.Limit
	}
	if req.SortField != nil {
		opts.SortField = *req.SortField
	}
	if req.SortOrder != nil {
		opts.SortOrder = *req.SortOrder
	}
	return opts
}

// ParseID parses a GraphQL ID into a primary key. Ids that are not
// positive integers cannot name a row.
func ParseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func findOne[T any](ctx context.Context, s *QueryService, method string, repo shared.Repository[T], rawID string) (*T, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "tracking", method,
		telemetry.WithAttribute(telemetry.SpanAttrEntityID, rawID))
	defer span.End()

	id, ok := ParseID(rawID)
	if !ok {
		return nil, nil
	}
	return byID(ctx, s, method, repo, id)
}

// byID loads one row, mapping not-found to (nil, nil)
func byID[T any](ctx context.Context, s *QueryService, method string, repo shared.Repository[T], id uint) (*T, error) {
	entity, err := repo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		telemetry.RecordError(telemetry.SpanFromContext(ctx), err)
		s.log(ctx).Error("Failed to load tracking entity",
			zap.String("query", method),
			zap.Uint("id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return entity, nil
}

func findMany[T any](ctx context.Context, s *QueryService, method string, repo shared.Repository[T], req ListRequest) ([]T, error) {
	opts := s.ListOptions(req)
	ctx, span := telemetry.StartServiceSpan(ctx, "tracking", method,
		telemetry.WithAttribute(telemetry.SpanAttrLimit, opts.Limit),
		telemetry.WithAttribute(telemetry.SpanAttrSortField, opts.SortField),
	)
	defer span.End()

	rows, err := repo.FindAll(ctx, opts)
	if err != nil {
		telemetry.RecordError(span, err)
		s.log(ctx).Error("Failed to list tracking entities",
			zap.String("query", method),
			zap.Error(err),
		)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrResultSize, len(rows))
	return rows, nil
}

// log prefers the request logger carried by ctx
func (s *QueryService) log(ctx context.Context) *logger.ContextLogger {
	if _, ok := ctx.Value(logger.LoggerKey).(*zap.Logger); ok {
		return logger.L(ctx)
	}
	return logger.L(logger.WithContext(ctx, s.logger))
}
