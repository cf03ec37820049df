package rdbms

import (
	"fmt"
	"regexp"
	"strings"
)

// SchemaTable holds a target table reference of the form [<schema>.]<table>,
// where either part may be bracket-quoted SQL Server style.
type SchemaTable struct {
	SchemaTable string `errorTxt:"[<schema>.]<object>" mandatory:"yes"`
}

func NewSchemaTable(schema string, table string) SchemaTable {
	if schema == "" {
		return SchemaTable{table}
	} else {
		return SchemaTable{schema + "." + table}
	}
}

func (st *SchemaTable) isQuotedTable() bool {
	re1 := regexp.MustCompile(`\[.+\..+\]`)     // [random.table]
	re2 := regexp.MustCompile(`\[.+\]\.\[.+\]`) // [schema].[table]
	if re1.MatchString(st.SchemaTable) && !re2.MatchString(st.SchemaTable) {
		// if the schemaTable is a quoted [random.table] and not a regular [schema].[table]...
		return true
	} else {
		return false
	}
}

// GetTable returns the table part with any bracket quoting removed.
func (st *SchemaTable) GetTable() string {
	if st.isQuotedTable() {
		// if the schemaTable is a quoted [random.table] and not a regular [schema].[table]...
		return trimBrackets(st.SchemaTable)
	}
	// else we have a schema.table...
	sep := "."
	i := strings.Index(st.SchemaTable, sep)
	if i < 0 { // if we have just a table...
		return trimBrackets(st.SchemaTable)
	} // else we have schema.table...
	return trimBrackets(st.SchemaTable[i+len(sep):]) // return table
}

// GetSchema returns the schema part with any bracket quoting removed,
// or empty string when there is no schema.
func (st *SchemaTable) GetSchema() string {
	if st.isQuotedTable() {
		// if the schemaTable is a quoted [random.table] and not a regular [schema].[table]...
		return ""
	}
	// else we have a schema.table...
	sep := "."
	i := strings.Index(st.SchemaTable, sep)
	if i < 0 { // if we have just a table...
		return ""
	} // else we have schema.table...
	return trimBrackets(st.SchemaTable[:i]) // return schema
}

// AppendSuffix returns the unquoted table name with the suffix appended.
func (st *SchemaTable) AppendSuffix(suffix string) string {
	return fmt.Sprintf("%v%v", st.GetTable(), suffix)
}

func (st *SchemaTable) String() string {
	return st.SchemaTable
}

func trimBrackets(s string) string {
	return strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
}
