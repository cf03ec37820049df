package profile

import (
	"fmt"
	"strings"

	"github.com/etylermoss/sql-bulk-import-profile/constants"
	"github.com/rs/xid"
)

// DeletionPolicy controls what happens to a source file once its mapper has
// merged successfully.
type DeletionPolicy string

const (
	DeletionUnset  DeletionPolicy = ""
	DeletionRetain DeletionPolicy = constants.DeletionRetain
	DeletionDelete DeletionPolicy = constants.DeletionDelete
)

// RequiredAction is the behaviour when a required field is empty after
// formatting: drop skips the record, error fails the mapper.
type RequiredAction string

const (
	RequiredNone  RequiredAction = ""
	RequiredDrop  RequiredAction = "drop"
	RequiredError RequiredAction = "error"
)

// Profile is the typed, validated form of an import profile.
type Profile struct {
	Name        string
	Description string
	Source      Source
	FieldGroups map[string]*FieldGroup
	Deletion    DeletionPolicy
	TableMappers []*TableMapper
}

// Source names the directory that holds the flat files and how to parse them.
type Source struct {
	Path    string
	Format  string
	Options map[string]interface{}
}

// FieldGroup is an ordered list of source fields shared by one or more mappers.
type FieldGroup struct {
	Name   string
	Fields []*Field
}

// GetField returns the named field or nil.
func (g *FieldGroup) GetField(name string) *Field {
	for _, f := range g.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Field is a single source field with optional formatting and required
// semantics applied before type coercion.
type Field struct {
	Name       string
	Formatters []*Formatter
	Required   RequiredAction
}

// Format runs the field's formatters over the raw cell value in order.
func (f *Field) Format(s string) string {
	for _, fm := range f.Formatters {
		s = fm.Apply(s)
	}
	return s
}

// Formatter transforms a raw cell value.
type Formatter struct {
	Type     string
	Default  string
	Mappings map[string]string
}

const (
	FormatterTrim      = "trim"
	FormatterUppercase = "uppercase"
	FormatterLowercase = "lowercase"
	FormatterMap       = "map"
)

func (f *Formatter) Apply(s string) string {
	switch f.Type {
	case FormatterTrim:
		return strings.TrimSpace(s)
	case FormatterUppercase:
		return strings.ToUpper(s)
	case FormatterLowercase:
		return strings.ToLower(s)
	case FormatterMap:
		if v, ok := f.Mappings[s]; ok {
			return v
		}
		return f.Default
	}
	return s
}

// TableMapper binds one source file to one target table.
type TableMapper struct {
	Name       string
	File       string
	FieldGroup string
	Table      string // [schema.]table
	KeyColumns []string
	Deletion   DeletionPolicy
	Columns    []*ColumnMapping
}

// ColumnMapping maps one source field, or one static value, to a target column.
type ColumnMapping struct {
	Field  string  // source field name; empty for a static column.
	Value  *string // static value bound once per run; nil for a field column.
	Column string  // target column name.
	Type   string  // declared SQL type.
}

// IsStatic reports whether the mapping is a static value column.
func (c *ColumnMapping) IsStatic() bool {
	return c.Value != nil
}

// IsKeyColumn reports whether the mapped target column is one of the mapper's
// key columns.
func (m *TableMapper) IsKeyColumn(column string) bool {
	for _, k := range m.KeyColumns {
		if k == column {
			return true
		}
	}
	return false
}

// StagingTableName returns a staging table name unique to this run and mapper,
// derived from the target table name plus a fresh guid.
func (m *TableMapper) StagingTableName(targetTable string) string {
	return fmt.Sprintf("%v_%v", targetTable, xid.New().String())
}

// EffectiveDeletion resolves the deletion policy: mapper override, then
// profile default, then the supplied run-level fallback.
func (m *TableMapper) EffectiveDeletion(p *Profile, fallback DeletionPolicy) DeletionPolicy {
	if m.Deletion != DeletionUnset {
		return m.Deletion
	}
	if p.Deletion != DeletionUnset {
		return p.Deletion
	}
	if fallback != DeletionUnset {
		return fallback
	}
	return DeletionRetain
}
