package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics constructor is given no meter
var ErrMeterNil = errors.New("telemetry: meter is nil")

// GraphQLMetrics records operation and resolver level measurements for the
// GraphQL endpoint.
type GraphQLMetrics struct {
	operationsTotal   *Counter
	operationDuration *Histogram
	errorsTotal       *Counter
	resolverDuration  *Histogram
}

// NewGraphQLMetrics creates the GraphQL instruments on meter.
func NewGraphQLMetrics(meter metric.Meter) (*GraphQLMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &GraphQLMetrics{}
	var err error

	if m.operationsTotal, err = NewCounter(meter,
		"graphql_operations_total",
		"Total number of executed GraphQL operations",
		"{operation}",
	); err != nil {
		return nil, err
	}
	if m.errorsTotal, err = NewCounter(meter,
		"graphql_errors_total",
		"Total number of errors reported in GraphQL responses",
		"{error}",
	); err != nil {
		return nil, err
	}
	if m.operationDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "graphql_operation_duration_seconds",
		Description: "GraphQL operation latency distribution in seconds",
		Unit:        "s",
		Boundaries:  RequestDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.resolverDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "graphql_resolver_duration_seconds",
		Description: "Root field resolver latency distribution in seconds",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordOperation records one executed operation.
func (m *GraphQLMetrics) RecordOperation(ctx context.Context, opType, opName string, d time.Duration) {
	if m == nil {
		return
	}
	if opName == "" {
		opName = "anonymous"
	}
	attrs := []attribute.KeyValue{
		AttrGraphQLOperationType.String(opType),
		AttrGraphQLOperationName.String(opName),
	}
	m.operationsTotal.Inc(ctx, attrs...)
	m.operationDuration.RecordDuration(ctx, d, attrs...)
}

// RecordResolver records the latency of one root field.
func (m *GraphQLMetrics) RecordResolver(ctx context.Context, field string, d time.Duration) {
	if m == nil {
		return
	}
	m.resolverDuration.RecordDuration(ctx, d, AttrGraphQLField.String(field))
}

// RecordError counts one response error by its extension code.
func (m *GraphQLMetrics) RecordError(ctx context.Context, code string) {
	if m == nil {
		return
	}
	if code == "" {
		code = "UNKNOWN"
	}
	m.errorsTotal.Inc(ctx, AttrErrorCode.String(code))
}
