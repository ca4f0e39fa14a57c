package graph

import (
	"context"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/introspection"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

func (ec *executionContext) resolveIntrospection(ctx context.Context, object string, field graphql.CollectedField) graphql.Marshaler {
	fc := &graphql.FieldContext{
		Object:   object,
		Field:    field,
		Args:     field.ArgumentMap(ec.Variables),
		IsMethod: true,
	}
	ctx = graphql.WithFieldContext(ctx, fc)

	if ec.DisableIntrospection {
		graphql.AddError(ctx, gqlerror.Errorf("introspection disabled"))
		return graphql.Null
	}

	if field.Name == "__schema" {
		return ec.marshalIntrospectionSchema(field.Selections, introspection.WrapSchema(ec.schema))
	}
	name, err := graphql.UnmarshalString(fc.Args["name"])
	if err != nil {
		graphql.AddError(ctx, invalidArgument("name", err))
		return graphql.Null
	}
	return ec.marshalIntrospectionType(field.Selections, introspection.WrapTypeFromDef(ec.schema, ec.schema.Types[name]))
}

func (ec *executionContext) marshalIntrospectionSchema(sel ast.SelectionSet, s *introspection.Schema) graphql.Marshaler {
	return ec.objectFields(sel, "__Schema", func(f graphql.CollectedField) graphql.Marshaler {
		switch f.Name {
		case "description":
			return marshalOptionalString(s.Description())
		case "types":
			return ec.marshalIntrospectionTypes(f.Selections, s.Types())
		case "queryType":
			return ec.marshalIntrospectionType(f.Selections, s.QueryType())
		case "mutationType":
			return ec.marshalIntrospectionType(f.Selections, s.MutationType())
		case "subscriptionType":
			return ec.marshalIntrospectionType(f.Selections, s.SubscriptionType())
		case "directives":
			directives := s.Directives()
			out := make(graphql.Array, len(directives))
			for i := range directives {
				out[i] = ec.marshalIntrospectionDirective(f.Selections, &directives[i])
			}
			return out
		default:
			return graphql.Null
		}
	})
}

func (ec *executionContext) marshalIntrospectionType(sel ast.SelectionSet, t *introspection.Type) graphql.Marshaler {
	if t == nil {
		return graphql.Null
	}
	return ec.objectFields(sel, "__Type", func(f graphql.CollectedField) graphql.Marshaler {
		switch f.Name {
		case "kind":
			return graphql.MarshalString(t.Kind())
		case "name":
			return marshalOptionalString(t.Name())
		case "description":
			return marshalOptionalString(t.Description())
		case "specifiedByURL":
			return marshalOptionalString(t.SpecifiedByURL())
		case "fields":
			fields := t.Fields(ec.includeDeprecated(f))
			if fields == nil {
				return graphql.Null
			}
			out := make(graphql.Array, len(fields))
			for i := range fields {
				out[i] = ec.marshalIntrospectionField(f.Selections, &fields[i])
			}
			return out
		case "interfaces":
			return ec.marshalIntrospectionTypes(f.Selections, t.Interfaces())
		case "possibleTypes":
			return ec.marshalIntrospectionTypes(f.Selections, t.PossibleTypes())
		case "enumValues":
			values := t.EnumValues(ec.includeDeprecated(f))
			if values == nil {
				return graphql.Null
			}
			out := make(graphql.Array, len(values))
			for i := range values {
				out[i] = ec.marshalIntrospectionEnumValue(f.Selections, &values[i])
			}
			return out
		case "inputFields":
			return ec.marshalIntrospectionInputValues(f.Selections, t.InputFields())
		case "ofType":
			return ec.marshalIntrospectionType(f.Selections, t.OfType())
		case "isOneOf":
			if t.Kind() != "INPUT_OBJECT" {
				return graphql.Null
			}
			return graphql.MarshalBoolean(false)
		default:
			return graphql.Null
		}
	})
}

// marshalIntrospectionTypes keeps nil lists null, as the introspection
// types report fields that do not apply to a kind as nil.
func (ec *executionContext) marshalIntrospectionTypes(sel ast.SelectionSet, types []introspection.Type) graphql.Marshaler {
	if types == nil {
		return graphql.Null
	}
	out := make(graphql.Array, len(types))
	for i := range types {
		out[i] = ec.marshalIntrospectionType(sel, &types[i])
	}
	return out
}

func (ec *executionContext) marshalIntrospectionField(sel ast.SelectionSet, field *introspection.Field) graphql.Marshaler {
	return ec.objectFields(sel, "__Field", func(f graphql.CollectedField) graphql.Marshaler {
		switch f.Name {
		case "name":
			return graphql.MarshalString(field.Name)
		case "description":
			return marshalOptionalString(field.Description())
		case "args":
			return ec.marshalIntrospectionInputValues(f.Selections, field.Args)
		case "type":
			return ec.marshalIntrospectionType(f.Selections, field.Type)
		case "isDeprecated":
			return graphql.MarshalBoolean(field.IsDeprecated())
		case "deprecationReason":
			return marshalOptionalString(field.DeprecationReason())
		default:
			return graphql.Null
		}
	})
}

func (ec *executionContext) marshalIntrospectionInputValues(sel ast.SelectionSet, values []introspection.InputValue) graphql.Marshaler {
	if values == nil {
		return graphql.Array{}
	}
	out := make(graphql.Array, len(values))
	for i := range values {
		v := &values[i]
		out[i] = ec.objectFields(sel, "__InputValue", func(f graphql.CollectedField) graphql.Marshaler {
			switch f.Name {
			case "name":
				return graphql.MarshalString(v.Name)
			case "description":
				return marshalOptionalString(v.Description())
			case "type":
				return ec.marshalIntrospectionType(f.Selections, v.Type)
			case "defaultValue":
				return marshalOptionalString(v.DefaultValue)
			case "isDeprecated":
				return graphql.MarshalBoolean(false)
			default:
				return graphql.Null
			}
		})
	}
	return out
}

func (ec *executionContext) marshalIntrospectionEnumValue(sel ast.SelectionSet, v *introspection.EnumValue) graphql.Marshaler {
	return ec.objectFields(sel, "__EnumValue", func(f graphql.CollectedField) graphql.Marshaler {
		switch f.Name {
		case "name":
			return graphql.MarshalString(v.Name)
		case "description":
			return marshalOptionalString(v.Description())
		case "isDeprecated":
			return graphql.MarshalBoolean(v.IsDeprecated())
		case "deprecationReason":
			return marshalOptionalString(v.DeprecationReason())
		default:
			return graphql.Null
		}
	})
}

func (ec *executionContext) marshalIntrospectionDirective(sel ast.SelectionSet, d *introspection.Directive) graphql.Marshaler {
	return ec.objectFields(sel, "__Directive", func(f graphql.CollectedField) graphql.Marshaler {
		switch f.Name {
		case "name":
			return graphql.MarshalString(d.Name)
		case "description":
			return marshalOptionalString(d.Description())
		case "locations":
			out := make(graphql.Array, len(d.Locations))
			for i, loc := range d.Locations {
				out[i] = graphql.MarshalString(loc)
			}
			return out
		case "args":
			return ec.marshalIntrospectionInputValues(f.Selections, d.Args)
		case "isRepeatable":
			return graphql.MarshalBoolean(d.IsRepeatable)
		default:
			return graphql.Null
		}
	})
}

func (ec *executionContext) includeDeprecated(f graphql.CollectedField) bool {
	v, ok := f.ArgumentMap(ec.Variables)["includeDeprecated"].(bool)
	return ok && v
}
