package shared

import (
	"fmt"

	"github.com/etylermoss/sql-bulk-import-profile/helper"
)

// SqlDupKeyCheckSqlServer generates a query that returns one row per key that
// appears more than once in the staging table. A non-empty result means the
// merge would raise a duplicate key error, so we check first and report the
// offending keys instead.
type SqlDupKeyCheckSqlServer struct {
	SqlStatementGeneratorConfig // mandatory to be populated.
	sqlStmt                     string
}

func (o *DmlGeneratorSqlServer) NewDupKeyCheckGenerator(cfg *SqlStatementGeneratorConfig) SqlStmtGenerator {
	FixSqlStatementGeneratorConfig(cfg)
	cfg.Log.Debug("Creating new SqlDupKeyCheckSqlServer")
	return &SqlDupKeyCheckSqlServer{SqlStatementGeneratorConfig: *cfg}
}

func (o *SqlDupKeyCheckSqlServer) GetStatement() string {
	if o.sqlStmt != "" {
		return o.sqlStmt
	}
	keyCols := QuoteIdentifiers(helper.OrderedMapKeysToStringSlice(o.Log, o.TargetKeyCols))
	keyCsv := helper.StringsToCsv(keyCols)
	o.sqlStmt = fmt.Sprintf("select %v, count(*) from %v group by %v having count(*) > 1",
		keyCsv,
		SchemaTableName(o.StagingSchema, o.StagingTable),
		keyCsv)
	o.Log.Debug("SQL Dup Key Check Generator returning SQL: ", o.sqlStmt)
	return o.sqlStmt
}

// SqlColumnMismatchSqlServer generates a query that counts staging rows where
// two columns hold different values. The "not exists (select a intersect
// select b)" idiom gives null-safe comparison, so a pair of nulls counts as
// equal. A zero count means the columns are duplicates of one another.
type SqlColumnMismatchSqlServer struct {
	SqlStatementGeneratorConfig
	colA    string
	colB    string
	sqlStmt string
}

func (o *DmlGeneratorSqlServer) NewColumnMismatchGenerator(cfg *SqlStatementGeneratorConfig, colA string, colB string) SqlStmtGenerator {
	FixSqlStatementGeneratorConfig(cfg)
	cfg.Log.Debug("Creating new SqlColumnMismatchSqlServer for columns ", colA, " and ", colB)
	return &SqlColumnMismatchSqlServer{SqlStatementGeneratorConfig: *cfg, colA: colA, colB: colB}
}

func (o *SqlColumnMismatchSqlServer) GetStatement() string {
	if o.sqlStmt != "" {
		return o.sqlStmt
	}
	o.sqlStmt = fmt.Sprintf("select count(*) from %v where not exists (select %v intersect select %v)",
		SchemaTableName(o.StagingSchema, o.StagingTable),
		QuoteIdentifier(o.colA),
		QuoteIdentifier(o.colB))
	o.Log.Debug("SQL Column Mismatch Generator returning SQL: ", o.sqlStmt)
	return o.sqlStmt
}
