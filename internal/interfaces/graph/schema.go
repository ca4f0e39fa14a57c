package graph

import (
	_ "embed"
	"fmt"

	"github.com/shiptrack/backend/internal/infrastructure/persistence"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

//go:embed schema.graphqls
var schemaSDL string

// LoadSchema parses the embedded SDL together with the GraphQL prelude
func LoadSchema() (*ast.Schema, error) {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphqls", Input: schemaSDL})
	if err != nil {
		return nil, fmt.Errorf("failed to load graphql schema: %w", err)
	}
	return schema, nil
}

// VerifyRegistry checks that every object type of the schema is backed by a
// registered entity and that every declared association is a field of the
// related object type. It runs once at startup.
func VerifyRegistry(schema *ast.Schema, entities []persistence.EntityDefinition) error {
	registered := make(map[string]persistence.EntityDefinition, len(entities))
	for _, def := range entities {
		registered[def.Name] = def
	}

	for name, def := range schema.Types {
		if def.BuiltIn || def.Kind != ast.Object || isRootType(schema, name) {
			continue
		}
		if _, ok := registered[name]; !ok {
			return fmt.Errorf("object type %s has no registered entity", name)
		}
	}

	for _, entity := range entities {
		def := schema.Types[entity.Name]
		if def == nil || def.Kind != ast.Object {
			return fmt.Errorf("entity %s is not an object type of the schema", entity.Name)
		}
		for _, assoc := range entity.Associations {
			field := def.Fields.ForName(assoc)
			if field == nil {
				return fmt.Errorf("association %s.%s is not a schema field", entity.Name, assoc)
			}
			if field.Type.Name() != assoc {
				return fmt.Errorf("association %s.%s has type %s", entity.Name, assoc, field.Type.Name())
			}
		}
	}
	return nil
}

func isRootType(schema *ast.Schema, name string) bool {
	return (schema.Query != nil && schema.Query.Name == name) ||
		(schema.Mutation != nil && schema.Mutation.Name == name) ||
		(schema.Subscription != nil && schema.Subscription.Name == name)
}
