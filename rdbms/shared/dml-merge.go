package shared

import (
	"fmt"
	"strings"

	"github.com/etylermoss/sql-bulk-import-profile/helper"
)

// SqlMergeSqlServer generates a MERGE statement that folds the staging table
// into the target table, matching on the key columns.
type SqlMergeSqlServer struct {
	SqlStatementGeneratorConfig // mandatory to be populated.
	sqlStmt                     string
}

// NewMergeGenerator
// Configure defaults in SqlStatementGeneratorConfig.
func (o *DmlGeneratorSqlServer) NewMergeGenerator(cfg *SqlStatementGeneratorConfig) SqlStmtGenerator {
	FixSqlStatementGeneratorConfig(cfg)
	cfg.Log.Debug("Creating new SqlMergeSqlServer")
	return &SqlMergeSqlServer{SqlStatementGeneratorConfig: *cfg}
}

func (o *SqlMergeSqlServer) getSqlTemplate() string {
	// Keep this on one line per clause so unit tests can normalise white space.
	return `merge into <TARGET> <TGT-ALIAS>
using <STAGING> <SRC-ALIAS>
on <KEY-COLS-EQUALS>
<WHEN-MATCHED>when not matched by target then insert
(<ALL-COLS>)
values (<SRC-COLS>);`
}

func (o *SqlMergeSqlServer) GetStatement() string {
	if o.sqlStmt != "" { // if the SQL was generated already...
		return o.sqlStmt
	}
	srcAlias := "S"
	tgtAlias := "T"
	keyTerms := make([]string, 0, o.TargetKeyCols.Len())
	iter := o.TargetKeyCols.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		keyTerms = append(keyTerms, fmt.Sprintf("%v.%v = %v.%v",
			srcAlias, QuoteIdentifier(kv.Key.(string)), tgtAlias, QuoteIdentifier(kv.Value.(string))))
	}
	updateTerms := make([]string, 0, o.TargetOtherCols.Len())
	iter = o.TargetOtherCols.IterFunc()
	for kv, ok := iter(); ok; kv, ok = iter() {
		updateTerms = append(updateTerms, fmt.Sprintf("%v.%v = %v.%v",
			tgtAlias, QuoteIdentifier(kv.Value.(string)), srcAlias, QuoteIdentifier(kv.Key.(string))))
	}
	// Columns are listed key columns first, in declaration order within each map.
	stagingCols := append(helper.OrderedMapKeysToStringSlice(o.Log, o.TargetKeyCols),
		helper.OrderedMapKeysToStringSlice(o.Log, o.TargetOtherCols)...)
	targetCols := append(helper.OrderedMapValuesToStringSlice(o.Log, o.TargetKeyCols),
		helper.OrderedMapValuesToStringSlice(o.Log, o.TargetOtherCols)...)
	allCols := QuoteIdentifiers(targetCols)
	srcCols := helper.PrefixStrings(QuoteIdentifiers(stagingCols), srcAlias+".")
	whenMatched := ""
	if len(updateTerms) > 0 { // if there are non-key columns to update...
		whenMatched = fmt.Sprintf("when matched then update set \n%v \n", strings.Join(updateTerms, ","))
	}
	o.sqlStmt = o.getSqlTemplate()
	o.sqlStmt = strings.Replace(o.sqlStmt, "<TARGET>", SchemaTableName(o.OutputSchema, o.OutputTable), 1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<STAGING>", SchemaTableName(o.StagingSchema, o.StagingTable), 1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<SRC-ALIAS>", srcAlias, -1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<TGT-ALIAS>", tgtAlias, -1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<KEY-COLS-EQUALS>", strings.Join(keyTerms, " and "), 1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<WHEN-MATCHED>", whenMatched, 1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<ALL-COLS>", helper.StringsToCsv(allCols), 1)
	o.sqlStmt = strings.Replace(o.sqlStmt, "<SRC-COLS>", helper.StringsToCsv(srcCols), 1)
	o.Log.Debug("SQL Merge Generator returning SQL: ", o.sqlStmt)
	return o.sqlStmt
}
