// Package query builds ORDER BY clauses from user-supplied sort fields.
package query

import "strings"

// SortFilter is a requested ordering. SortBy must be resolved against a
// whitelist before it reaches SQL.
type SortFilter struct {
	SortBy   string
	SortDesc bool
}

// OrderClause maps SortBy through allowed (request field to column) and
// falls back to fallback when the field is empty or unknown. The primary key
// is appended as a tie-breaker so paging is stable.
func (f SortFilter) OrderClause(allowed map[string]string, fallback string) string {
	column, ok := allowed[strings.ToLower(strings.TrimSpace(f.SortBy))]
	if !ok {
		column = fallback
	}
	order := "ASC"
	if f.SortDesc {
		order = "DESC"
	}
	if column == "id" {
		return "id " + order
	}
	return column + " " + order + ", id " + order
}
