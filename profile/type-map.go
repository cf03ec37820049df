package profile

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Declared column types are SQL Server types, optionally with a length or
// precision suffix e.g. nvarchar(100), decimal(10,2). The staging table reuses
// the declared type verbatim; coercion of raw cell values is keyed on the base
// type name.

var reNumeric = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)
var reGuid = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// BaseType returns the lower-case type name with any length suffix removed.
func BaseType(declaredType string) string {
	t := strings.ToLower(strings.TrimSpace(declaredType))
	if i := strings.Index(t, "("); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}

// IsSupportedType reports whether the declared type has a coercion.
func IsSupportedType(declaredType string) bool {
	switch BaseType(declaredType) {
	case "int", "smallint", "tinyint", "bigint",
		"bit",
		"float", "real",
		"decimal", "numeric", "money",
		"char", "varchar", "nchar", "nvarchar", "text",
		"date", "datetime", "datetime2",
		"uniqueidentifier":
		return true
	}
	return false
}

// CoerceValue converts a formatted cell value to the Go value loaded into the
// staging table. An empty cell loads as NULL. A value that cannot be coerced
// to the declared type returns a SchemaError.
func CoerceValue(column string, declaredType string, raw string) (interface{}, error) {
	if raw == "" { // if the cell is empty...
		return nil, nil
	}
	base := BaseType(declaredType)
	switch base {
	case "int", "smallint", "tinyint", "bigint":
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, &SchemaError{Column: column, Type: declaredType, Reason: fmt.Sprintf("%q is not an integer", raw)}
		}
		return v, nil
	case "bit":
		switch strings.ToLower(raw) {
		case "1", "true":
			return true, nil
		case "0", "false":
			return false, nil
		}
		return nil, &SchemaError{Column: column, Type: declaredType, Reason: fmt.Sprintf("%q is not a bit value", raw)}
	case "float", "real":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &SchemaError{Column: column, Type: declaredType, Reason: fmt.Sprintf("%q is not a number", raw)}
		}
		return v, nil
	case "decimal", "numeric", "money":
		// Passed through as a validated string so the server parses the exact
		// decimal value.
		if !reNumeric.MatchString(raw) {
			return nil, &SchemaError{Column: column, Type: declaredType, Reason: fmt.Sprintf("%q is not a numeric value", raw)}
		}
		return raw, nil
	case "char", "varchar", "nchar", "nvarchar", "text":
		return raw, nil
	case "date", "datetime", "datetime2":
		for _, layout := range dateTimeLayouts {
			if v, err := time.Parse(layout, raw); err == nil {
				return v, nil
			}
		}
		return nil, &SchemaError{Column: column, Type: declaredType, Reason: fmt.Sprintf("%q is not a recognised date/time", raw)}
	case "uniqueidentifier":
		if !reGuid.MatchString(raw) {
			return nil, &SchemaError{Column: column, Type: declaredType, Reason: fmt.Sprintf("%q is not a uniqueidentifier", raw)}
		}
		return raw, nil
	}
	return nil, &SchemaError{Column: column, Type: declaredType, Reason: "unsupported column type"}
}
