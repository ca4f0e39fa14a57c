package graph

import (
	"bytes"
	"context"
	"reflect"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// listFields are the Query fields whose cost scales with their limit argument
var listFields = map[string]bool{
	"customers": true,
	"shipments": true,
	"packages":  true,
	"devices":   true,
}

// ExecutableSchema serves the tracking schema to the gqlgen handler
type ExecutableSchema struct {
	schema    *ast.Schema
	queries   map[string]rootField
	mutations map[string]rootField
}

var _ graphql.ExecutableSchema = (*ExecutableSchema)(nil)

// NewExecutableSchema creates an executable schema over resolver
func NewExecutableSchema(schema *ast.Schema, resolver *Resolver) *ExecutableSchema {
	return &ExecutableSchema{
		schema:    schema,
		queries:   resolver.queryFields(),
		mutations: resolver.mutationFields(),
	}
}

// Schema returns the parsed schema
func (e *ExecutableSchema) Schema() *ast.Schema {
	return e.schema
}

// Complexity weighs list fields by their limit. Unlimited lists use the
// default cost of one per selected field.
func (e *ExecutableSchema) Complexity(_ context.Context, typeName, field string, childComplexity int, args map[string]any) (int, bool) {
	if typeName != "Query" || !listFields[field] {
		return 0, false
	}
	limit, err := graphql.UnmarshalInt(args["limit"])
	if err != nil || limit <= 0 {
		return 0, false
	}
	return 1 + limit*childComplexity, true
}

// Exec runs the operation stored in ctx and returns a single response
func (e *ExecutableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	opCtx := graphql.GetOperationContext(ctx)
	ec := &executionContext{OperationContext: opCtx, schema: e.schema}

	var fields map[string]rootField
	switch opCtx.Operation.Operation {
	case ast.Query:
		fields = e.queries
	case ast.Mutation:
		fields = e.mutations
	default:
		return graphql.OneShot(graphql.ErrorResponse(ctx, "unsupported GraphQL operation"))
	}

	done := false
	return func(ctx context.Context) *graphql.Response {
		if done {
			return nil
		}
		done = true

		data := ec.executeRoot(ctx, fields)
		var buf bytes.Buffer
		data.MarshalGQL(&buf)
		return &graphql.Response{Data: buf.Bytes()}
	}
}

type executionContext struct {
	*graphql.OperationContext
	schema *ast.Schema
}

// executeRoot resolves the root fields one after another, in document
// order. A failed non-null root field nulls the whole data object.
func (ec *executionContext) executeRoot(ctx context.Context, fields map[string]rootField) graphql.Marshaler {
	object := rootTypeName(ec.schema, ec.Operation.Operation)
	collected := graphql.CollectFields(ec.OperationContext, ec.Operation.SelectionSet, []string{object})
	out := graphql.NewFieldSet(collected)
	invalid := false

	for i, field := range collected {
		ctx := graphql.WithRootFieldContext(ctx, &graphql.RootFieldContext{Object: object, Field: field})

		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString(object)
			continue
		case "__schema", "__type":
			if object == "Query" {
				out.Values[i] = ec.resolveIntrospection(ctx, object, field)
				continue
			}
		}

		rf, ok := fields[field.Name]
		if !ok {
			out.Values[i] = graphql.Null
			continue
		}
		out.Values[i] = ec.rootMiddleware(ctx, func(ctx context.Context) graphql.Marshaler {
			return ec.resolveRootField(ctx, object, field, rf)
		})
		if rf.nonNull && out.Values[i] == graphql.Null {
			invalid = true
		}
	}

	if invalid {
		return graphql.Null
	}
	return out
}

func (ec *executionContext) rootMiddleware(ctx context.Context, next graphql.RootResolver) graphql.Marshaler {
	if ec.RootResolverMiddleware == nil {
		return next(ctx)
	}
	return ec.RootResolverMiddleware(ctx, next)
}

func (ec *executionContext) resolveRootField(ctx context.Context, object string, field graphql.CollectedField, rf rootField) (ret graphql.Marshaler) {
	fc := &graphql.FieldContext{
		Object:     object,
		Field:      field,
		Args:       field.ArgumentMap(ec.Variables),
		IsMethod:   true,
		IsResolver: true,
	}
	ctx = graphql.WithFieldContext(ctx, fc)

	defer func() {
		if r := recover(); r != nil {
			graphql.AddError(ctx, ec.Recover(ctx, r))
			ret = graphql.Null
		}
	}()

	res, err := ec.resolve(ctx, func(rctx context.Context) (any, error) {
		ctx = rctx
		return rf.resolve(rctx, fc.Args)
	})
	if err != nil {
		graphql.AddError(ctx, err)
		return graphql.Null
	}
	if isNil(res) {
		if rf.nonNull && !graphql.HasFieldError(ctx, fc) {
			graphql.AddError(ctx, gqlerror.Errorf("must not be null"))
		}
		return graphql.Null
	}
	fc.Result = res
	return rf.marshal(ctx, ec, field.Selections, res)
}

// resolve runs next through the field interceptors of the handler extensions
func (ec *executionContext) resolve(ctx context.Context, next graphql.Resolver) (any, error) {
	if ec.ResolverMiddleware == nil {
		return next(ctx)
	}
	return ec.ResolverMiddleware(ctx, next)
}

func rootTypeName(schema *ast.Schema, op ast.Operation) string {
	switch op {
	case ast.Mutation:
		return schema.Mutation.Name
	case ast.Subscription:
		return schema.Subscription.Name
	default:
		return schema.Query.Name
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
