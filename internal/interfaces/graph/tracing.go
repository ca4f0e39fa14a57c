package graph

import (
	"context"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"go.opentelemetry.io/otel/codes"

	"github.com/shiptrack/backend/internal/infrastructure/logger"
	"github.com/shiptrack/backend/internal/infrastructure/telemetry"
)

// Tracer is a handler extension that opens a span per operation and per
// resolver field, and feeds the GraphQL metrics
type Tracer struct {
	metrics *telemetry.GraphQLMetrics
}

var _ interface {
	graphql.HandlerExtension
	graphql.ResponseInterceptor
	graphql.FieldInterceptor
} = Tracer{}

// NewTracer creates the extension. metrics may be nil.
func NewTracer(metrics *telemetry.GraphQLMetrics) Tracer {
	return Tracer{metrics: metrics}
}

// ExtensionName implements graphql.HandlerExtension
func (Tracer) ExtensionName() string {
	return "OpenTelemetryTracer"
}

// Validate implements graphql.HandlerExtension
func (Tracer) Validate(graphql.ExecutableSchema) error {
	return nil
}

// InterceptResponse implements graphql.ResponseInterceptor
func (t Tracer) InterceptResponse(ctx context.Context, next graphql.ResponseHandler) *graphql.Response {
	if !graphql.HasOperationContext(ctx) {
		return next(ctx)
	}
	opCtx := graphql.GetOperationContext(ctx)
	opType, opName := operationLabels(opCtx)

	ctx = logger.WithOperation(ctx, opType+" "+opName)
	ctx, span := telemetry.StartSpan(ctx, "graphql."+opType,
		telemetry.WithAttribute(string(telemetry.AttrGraphQLOperationType), opType),
		telemetry.WithAttribute(string(telemetry.AttrGraphQLOperationName), opName),
	)
	defer span.End()

	start := time.Now()
	resp := next(ctx)
	t.metrics.RecordOperation(ctx, opType, opName, time.Since(start))

	if resp == nil {
		return nil
	}
	for _, err := range resp.Errors {
		t.metrics.RecordError(ctx, errorCode(err))
	}
	if len(resp.Errors) > 0 {
		span.SetStatus(codes.Error, resp.Errors.Error())
		telemetry.SetAttributes(span, "graphql.errors", len(resp.Errors))
	}
	return resp
}

// InterceptField implements graphql.FieldInterceptor. Only resolver fields
// are traced; object fields are plain struct reads.
func (t Tracer) InterceptField(ctx context.Context, next graphql.Resolver) (any, error) {
	fc := graphql.GetFieldContext(ctx)
	if fc == nil || !fc.IsResolver {
		return next(ctx)
	}

	field := fc.Object + "." + fc.Field.Name
	ctx, span := telemetry.StartSpan(ctx, "graphql.resolve "+field,
		telemetry.WithAttribute(string(telemetry.AttrGraphQLField), field),
	)
	defer span.End()

	start := time.Now()
	res, err := next(ctx)
	t.metrics.RecordResolver(ctx, field, time.Since(start))
	if err != nil {
		telemetry.RecordError(span, err)
	}
	return res, err
}

// operationLabels prefers the operationName request parameter and falls
// back to the name written in the document
func operationLabels(opCtx *graphql.OperationContext) (string, string) {
	opType, opName := "unknown", opCtx.OperationName
	if opCtx.Operation != nil {
		opType = string(opCtx.Operation.Operation)
		if opName == "" {
			opName = opCtx.Operation.Name
		}
	}
	return opType, opName
}
