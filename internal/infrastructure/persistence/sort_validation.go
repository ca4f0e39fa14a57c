package persistence

import (
	"strings"

	"github.com/shiptrack/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "ASC" if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "DESC" {
		return "DESC"
	}
	return "ASC"
}

// ValidateSortField maps a requested sort field to a column through the
// whitelist. Returns defaultColumn if the input is empty or not allowed.
func ValidateSortField(sortField string, allowedFields map[string]string, defaultColumn string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultColumn
	}
	if column, ok := allowedFields[trimmed]; ok {
		return column
	}
	return defaultColumn
}

// applyListOptions orders and limits query for entity. A non-positive limit
// returns every row. Ties are broken by id so results are deterministic.
func applyListOptions(query *gorm.DB, def EntityDefinition, opts shared.ListOptions) *gorm.DB {
	column := ValidateSortField(opts.SortField, def.SortFields, "id")
	desc := ValidateSortOrder(opts.SortOrder) == "DESC"

	query = query.Order(clause.OrderByColumn{
		Column: clause.Column{Table: def.Table, Name: column},
		Desc:   desc,
	})
	if column != "id" {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Table: def.Table, Name: "id"}})
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	return query
}
