package shared

import (
	"fmt"
	"strings"

	om "github.com/cevaris/ordered_map"
	"github.com/etylermoss/sql-bulk-import-profile/logger"
)

// DmlGeneratorSqlServer produces T-SQL statements for the import stages.
type DmlGeneratorSqlServer struct{}

type SqlStatementGeneratorConfig struct {
	Log             logger.Logger
	OutputSchema    string
	SchemaSeparator string
	OutputTable     string
	StagingSchema   string
	StagingTable    string
	TargetKeyCols   *om.OrderedMap // ordered map of: key = staging column name; value = target table column name
	TargetOtherCols *om.OrderedMap // ordered map of: key = staging column name; value = target table column name
	StagingCols     *om.OrderedMap // ordered map of: key = staging column name; value = SQL type declaration (DDL only)
}

func FixSqlStatementGeneratorConfig(cfg *SqlStatementGeneratorConfig) {
	if cfg.OutputTable == "" && cfg.StagingTable == "" {
		cfg.Log.Fatal("Error, missing output table name.")
	}
	if cfg.OutputSchema == "" {
		cfg.SchemaSeparator = ""
		cfg.Log.Debug("No output schema supplied; setting a blank separator.")
	} else {
		cfg.SchemaSeparator = "."
	}
}

// QuoteIdentifier wraps the supplied identifier in brackets, escaping any
// closing bracket it contains.
func QuoteIdentifier(s string) string {
	return "[" + strings.Replace(s, "]", "]]", -1) + "]"
}

// QuoteIdentifiers bracket-quotes each identifier in s.
func QuoteIdentifiers(s []string) []string {
	retval := make([]string, len(s), len(s))
	for idx, v := range s {
		retval[idx] = QuoteIdentifier(v)
	}
	return retval
}

// SchemaTableName returns [schema].[table], or just [table] when schema is empty.
func SchemaTableName(schema string, table string) string {
	if schema == "" {
		return QuoteIdentifier(table)
	}
	return fmt.Sprintf("%v.%v", QuoteIdentifier(schema), QuoteIdentifier(table))
}
