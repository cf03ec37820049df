package shared

import (
	"fmt"
	"strings"
)

// SqlCreateStagingSqlServer generates the CREATE TABLE statement for a
// per-run staging table. Columns come from StagingCols in declaration order.
type SqlCreateStagingSqlServer struct {
	SqlStatementGeneratorConfig // mandatory to be populated.
	sqlStmt                     string
}

func (o *DmlGeneratorSqlServer) NewCreateStagingGenerator(cfg *SqlStatementGeneratorConfig) SqlStmtGenerator {
	FixSqlStatementGeneratorConfig(cfg)
	cfg.Log.Debug("Creating new SqlCreateStagingSqlServer")
	return &SqlCreateStagingSqlServer{SqlStatementGeneratorConfig: *cfg}
}

func (o *SqlCreateStagingSqlServer) GetStatement() string {
	if o.sqlStmt != "" {
		return o.sqlStmt
	}
	cols := make([]string, 0, o.StagingCols.Len())
	iter := o.StagingCols.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		cols = append(cols, fmt.Sprintf("%v %v null", QuoteIdentifier(kv.Key.(string)), kv.Value.(string)))
	}
	o.sqlStmt = fmt.Sprintf("create table %v (%v)",
		SchemaTableName(o.StagingSchema, o.StagingTable),
		strings.Join(cols, ","))
	o.Log.Debug("SQL Create Staging Generator returning SQL: ", o.sqlStmt)
	return o.sqlStmt
}

// SqlDropTableSqlServer generates the DROP statement used when cleaning up a
// staging table. "if exists" keeps the drop idempotent if a retry has already
// removed it.
type SqlDropTableSqlServer struct {
	SqlStatementGeneratorConfig
	sqlStmt string
}

func (o *DmlGeneratorSqlServer) NewDropTableGenerator(cfg *SqlStatementGeneratorConfig) SqlStmtGenerator {
	FixSqlStatementGeneratorConfig(cfg)
	cfg.Log.Debug("Creating new SqlDropTableSqlServer")
	return &SqlDropTableSqlServer{SqlStatementGeneratorConfig: *cfg}
}

func (o *SqlDropTableSqlServer) GetStatement() string {
	if o.sqlStmt != "" {
		return o.sqlStmt
	}
	o.sqlStmt = fmt.Sprintf("drop table if exists %v", SchemaTableName(o.StagingSchema, o.StagingTable))
	o.Log.Debug("SQL Drop Table Generator returning SQL: ", o.sqlStmt)
	return o.sqlStmt
}
