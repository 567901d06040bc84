// Package query builds positional-parameter SQL from a projection of
// logical field names onto qualified table columns.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap ties a table (schema, name, alias) to the mapping from
// logical field names to alias-qualified columns.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	byField map[string]string
	ordered []string
}

// NewProjectionMap starts an empty projection for schema.table with alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		byField: make(map[string]string),
		ordered: make([]string, 0),
	}
}

// Project maps one database column to a logical field name, preserving
// declaration order in the column list.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.byField[field] = qualified
	p.ordered = append(p.ordered, qualified)
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// From renders the FROM target as "schema.table alias".
func (p *ProjectionMap) From() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Column resolves a logical field to its qualified column. Unmapped names
// pass through unchanged.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.byField[field]; ok {
		return col
	}
	return field
}

// Columns renders the projected columns in declaration order.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ordered, ", ")
}
