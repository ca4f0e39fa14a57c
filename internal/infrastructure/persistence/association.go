package persistence

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Include eager-loads the named associations of entity onto query.
// A name is either a declared association ("Shipment") or a dotted path
// through declared associations of the related entities ("Shipment.Customer").
func Include(query *gorm.DB, entity string, names ...string) (*gorm.DB, error) {
	def, err := LookupEntity(entity)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if err := checkAssociationPath(def, name); err != nil {
			return nil, err
		}
		query = query.Preload(name)
	}
	return query, nil
}

func checkAssociationPath(def EntityDefinition, path string) error {
	current := def
	for _, step := range strings.Split(path, ".") {
		if !current.HasAssociation(step) {
			return fmt.Errorf("%s has no association %q", current.Name, step)
		}
		next, err := LookupEntity(step)
		if err != nil {
			return err
		}
		current = next
	}
	return nil
}

// includeDeclared eager-loads the full association tree of entity
func includeDeclared(query *gorm.DB, entity string) (*gorm.DB, error) {
	def, err := LookupEntity(entity)
	if err != nil {
		return nil, err
	}
	return Include(query, entity, def.Preloads()...)
}
