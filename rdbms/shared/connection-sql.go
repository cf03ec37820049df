package shared

import (
	"context"
	"database/sql"
)

// SqlConnection is a wrapper around Go native sql.DB.
// It also adds the DmlGenerator interface for use by the import stages that
// generate SQL against the target database.
type SqlConnection struct {
	DbSql  *sql.DB
	Dml    DmlGenerator
	DbType string
}

// Connector:

func (c *SqlConnection) Begin() (Transacter, error) {
	tx, err := c.DbSql.Begin()
	return &SqlTx{tx: tx}, err
}

func (c *SqlConnection) Exec(query string, args ...interface{}) (Result, error) {
	return c.ExecContext(context.Background(), query, args...)
}

func (c *SqlConnection) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	return c.DbSql.ExecContext(ctx, query, args...)
}

func (c *SqlConnection) Query(query string, args ...interface{}) (Rows, error) {
	return c.QueryContext(context.Background(), query, args...)
}

func (c *SqlConnection) QueryContext(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	r, err := c.DbSql.QueryContext(ctx, query, args...)
	return &SqlRows{rows: r}, err
}

func (c *SqlConnection) Close() {
	_ = c.DbSql.Close()
}

func (c *SqlConnection) GetDmlGenerator() DmlGenerator {
	return c.Dml
}

func (c *SqlConnection) GetType() string {
	return c.DbType
}

// Transacter:

type SqlTx struct {
	tx *sql.Tx
}

func (t *SqlTx) Prepare(query string) (Statement, error) {
	return t.PrepareContext(context.Background(), query)
}

func (t *SqlTx) PrepareContext(ctx context.Context, query string) (Statement, error) {
	s, err := t.tx.PrepareContext(ctx, query)
	return &SqlStmt{stmt: s}, err
}

func (t *SqlTx) Exec(query string, args ...interface{}) (Result, error) {
	return t.ExecContext(context.Background(), query, args...)
}

func (t *SqlTx) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	return t.tx.ExecContext(ctx, query, args...)
}

func (t *SqlTx) Commit() error {
	return t.tx.Commit()
}

func (t *SqlTx) Rollback() error {
	return t.tx.Rollback()
}

// Statement:

type SqlStmt struct {
	stmt *sql.Stmt
}

func (s *SqlStmt) Close() error {
	return s.stmt.Close()
}

func (s *SqlStmt) Exec(args ...interface{}) (Result, error) {
	return s.ExecContext(context.Background(), args...)
}

func (s *SqlStmt) ExecContext(ctx context.Context, args ...interface{}) (Result, error) {
	return s.stmt.ExecContext(ctx, args...)
}

// Rows:

type SqlRows struct {
	rows *sql.Rows
}

func (r *SqlRows) Close() error {
	return r.rows.Close()
}

func (r *SqlRows) Columns() ([]string, error) {
	return r.rows.Columns()
}

func (r *SqlRows) Err() error {
	return r.rows.Err()
}

func (r *SqlRows) Next() bool {
	return r.rows.Next()
}

func (r *SqlRows) Scan(dest ...interface{}) error {
	return r.rows.Scan(dest...)
}
