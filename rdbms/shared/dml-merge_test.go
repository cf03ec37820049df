package shared

import (
	"regexp"
	"testing"

	"github.com/cevaris/ordered_map"
	"github.com/etylermoss/sql-bulk-import-profile/logger"
)

var reWhiteSpace = regexp.MustCompile(`\s+`)

func TestSqlServerMerge(t *testing.T) {
	log := logger.NewLogger("dml-test", "info", false)

	omKeys := ordered_map.NewOrderedMap()
	omKeys.Set("id", "id")
	omCols := ordered_map.NewOrderedMap()
	omCols.Set("name", "name")
	omCols.Set("email_1", "email") // staging column email_1 feeds target column email.

	db, _ := NewMockConnectionWithMockTx(log, "sqlserver")
	dml := db.GetDmlGenerator()

	o := dml.NewMergeGenerator(&SqlStatementGeneratorConfig{
		Log:             log,
		OutputSchema:    "dbo",
		OutputTable:     "people",
		StagingSchema:   "import",
		StagingTable:    "people_abc123",
		TargetKeyCols:   omKeys,
		TargetOtherCols: omCols})

	const sql = `merge into [dbo].[people] T using [import].[people_abc123] S on S.[id] = T.[id] when matched then update set T.[name] = S.[name],T.[email] = S.[email_1] when not matched by target then insert ([id],[name],[email]) values (S.[id],S.[name],S.[email_1]);`
	sqlToTest := reWhiteSpace.ReplaceAllString(o.GetStatement(), " ")
	if sqlToTest != sql {
		t.Fatalf("Bad SQL MERGE generated:\n%v\nexpected:\n%v", sqlToTest, sql)
	}
}

func TestSqlServerMergeKeyOnlyTable(t *testing.T) {
	log := logger.NewLogger("dml-test", "info", false)

	omKeys := ordered_map.NewOrderedMap()
	omKeys.Set("id", "id")
	omCols := ordered_map.NewOrderedMap() // no non-key columns.

	db, _ := NewMockConnectionWithMockTx(log, "sqlserver")
	o := db.GetDmlGenerator().NewMergeGenerator(&SqlStatementGeneratorConfig{
		Log:             log,
		OutputSchema:    "dbo",
		OutputTable:     "tags",
		StagingSchema:   "import",
		StagingTable:    "tags_abc123",
		TargetKeyCols:   omKeys,
		TargetOtherCols: omCols})

	// The update clause must be omitted when every column is a key.
	const sql = `merge into [dbo].[tags] T using [import].[tags_abc123] S on S.[id] = T.[id] when not matched by target then insert ([id]) values (S.[id]);`
	sqlToTest := reWhiteSpace.ReplaceAllString(o.GetStatement(), " ")
	if sqlToTest != sql {
		t.Fatalf("Bad SQL MERGE generated:\n%v\nexpected:\n%v", sqlToTest, sql)
	}
}

func TestSqlServerMergeCompositeKeys(t *testing.T) {
	log := logger.NewLogger("dml-test", "info", false)

	omKeys := ordered_map.NewOrderedMap()
	omKeys.Set("order_id", "order_id")
	omKeys.Set("line_no", "line_no")
	omCols := ordered_map.NewOrderedMap()
	omCols.Set("qty", "qty")

	db, _ := NewMockConnectionWithMockTx(log, "sqlserver")
	o := db.GetDmlGenerator().NewMergeGenerator(&SqlStatementGeneratorConfig{
		Log:             log,
		OutputSchema:    "dbo",
		OutputTable:     "order_lines",
		StagingSchema:   "import",
		StagingTable:    "order_lines_abc123",
		TargetKeyCols:   omKeys,
		TargetOtherCols: omCols})

	const sql = `merge into [dbo].[order_lines] T using [import].[order_lines_abc123] S on S.[order_id] = T.[order_id] and S.[line_no] = T.[line_no] when matched then update set T.[qty] = S.[qty] when not matched by target then insert ([order_id],[line_no],[qty]) values (S.[order_id],S.[line_no],S.[qty]);`
	sqlToTest := reWhiteSpace.ReplaceAllString(o.GetStatement(), " ")
	if sqlToTest != sql {
		t.Fatalf("Bad SQL MERGE generated:\n%v\nexpected:\n%v", sqlToTest, sql)
	}
}
