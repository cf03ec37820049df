package shared

import (
	"context"
)

// Connector abstracts all access to Go SQL functionality.
type Connector interface {
	// Go SQL entry points:
	Begin() (Transacter, error)
	Exec(query string, args ...interface{}) (Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error)
	Query(query string, args ...interface{}) (Rows, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (Rows, error)
	Close()
	// Import functionality:
	GetType() string
	GetDmlGenerator() DmlGenerator
}

type Transacter interface {
	Prepare(query string) (Statement, error)
	PrepareContext(ctx context.Context, query string) (Statement, error)
	Exec(query string, args ...interface{}) (Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error)
	Commit() error
	Rollback() error
}

// Statement is a prepared statement inside a transaction.
// Bulk loads prepare the driver's bulk-copy statement and call Exec once per row,
// then Exec with no args to flush.
type Statement interface {
	Exec(args ...interface{}) (Result, error)
	ExecContext(ctx context.Context, args ...interface{}) (Result, error)
	Close() error
}

// Interfaces to abstract Go SQL library return values so mock connections can
// supply canned rows in tests.

type Result interface {
	LastInsertId() (int64, error)
	RowsAffected() (int64, error)
}

type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Columns() ([]string, error)
	Err() error
	Close() error
}

// More import specific interfaces.

type DmlGenerator interface {
	NewCreateStagingGenerator(cfg *SqlStatementGeneratorConfig) SqlStmtGenerator
	NewDropTableGenerator(cfg *SqlStatementGeneratorConfig) SqlStmtGenerator
	NewMergeGenerator(cfg *SqlStatementGeneratorConfig) SqlStmtGenerator
	NewDupKeyCheckGenerator(cfg *SqlStatementGeneratorConfig) SqlStmtGenerator
	NewColumnMismatchGenerator(cfg *SqlStatementGeneratorConfig, colA string, colB string) SqlStmtGenerator
}

// SqlStmtGenerator is implemented by all SQL generators returned via
// Connector.GetDmlGenerator() DmlGenerator.
type SqlStmtGenerator interface {
	GetStatement() string
}
