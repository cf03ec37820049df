package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/etylermoss/sql-bulk-import-profile/logger"
)

// MockConnection implements Connector for unit tests.
// All SQL executed via the connection, its transactions and its prepared
// statements is recorded on the channel returned by NewMockConnectionWithMockTx,
// including the literal strings "commit" and "rollback".
type MockConnection struct {
	Log     logger.Logger
	DbType  string
	sqlChan chan string
	queue   []*MockRows
	// ExecErr allows tests to inject a failure for a matching statement.
	ExecErr func(query string) error
}

// NewMockConnectionWithMockTx returns a mock Connector and a buffered channel
// that receives every SQL statement executed against it.
func NewMockConnectionWithMockTx(log logger.Logger, dbType string) (*MockConnection, chan string) {
	c := &MockConnection{
		Log:     log,
		DbType:  dbType,
		sqlChan: make(chan string, 1000),
	}
	return c, c.sqlChan
}

// QueueQueryResult adds a canned result set returned by the next call to Query.
// Results are consumed in FIFO order; when the queue is empty, queries return
// an empty result set.
func (c *MockConnection) QueueQueryResult(columns []string, rows [][]interface{}) {
	c.queue = append(c.queue, &MockRows{columns: columns, rows: rows})
}

func (c *MockConnection) record(query string) {
	select {
	case c.sqlChan <- query:
	default:
		c.Log.Panic("mock connection SQL channel is full")
	}
}

func (c *MockConnection) execErr(query string) error {
	if c.ExecErr != nil {
		return c.ExecErr(query)
	}
	return nil
}

func (c *MockConnection) Begin() (Transacter, error) {
	return &MockTx{conn: c}, nil
}

func (c *MockConnection) Exec(query string, args ...interface{}) (Result, error) {
	return c.ExecContext(context.Background(), query, args...)
}

func (c *MockConnection) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	c.record(query)
	if err := c.execErr(query); err != nil {
		return nil, err
	}
	return &MockResult{}, nil
}

func (c *MockConnection) Query(query string, args ...interface{}) (Rows, error) {
	return c.QueryContext(context.Background(), query, args...)
}

func (c *MockConnection) QueryContext(ctx context.Context, query string, args ...interface{}) (Rows, error) {
	c.record(query)
	if err := c.execErr(query); err != nil {
		return nil, err
	}
	if len(c.queue) > 0 { // if a canned result is waiting...
		r := c.queue[0]
		c.queue = c.queue[1:]
		return r, nil
	}
	return &MockRows{}, nil
}

func (c *MockConnection) Close() {}

func (c *MockConnection) GetType() string {
	return c.DbType
}

func (c *MockConnection) GetDmlGenerator() DmlGenerator {
	return &DmlGeneratorSqlServer{}
}

// MockTx records statements via its parent connection.
type MockTx struct {
	conn *MockConnection
}

func (t *MockTx) Prepare(query string) (Statement, error) {
	return t.PrepareContext(context.Background(), query)
}

func (t *MockTx) PrepareContext(ctx context.Context, query string) (Statement, error) {
	t.conn.record(query)
	if err := t.conn.execErr(query); err != nil {
		return nil, err
	}
	return &MockStmt{conn: t.conn}, nil
}

func (t *MockTx) Exec(query string, args ...interface{}) (Result, error) {
	return t.ExecContext(context.Background(), query, args...)
}

func (t *MockTx) ExecContext(ctx context.Context, query string, args ...interface{}) (Result, error) {
	t.conn.record(query)
	if err := t.conn.execErr(query); err != nil {
		return nil, err
	}
	return &MockResult{}, nil
}

func (t *MockTx) Commit() error {
	t.conn.record("commit")
	return nil
}

func (t *MockTx) Rollback() error {
	t.conn.record("rollback")
	return nil
}

// MockStmt mimics the bulk-copy statement flow: each Exec with args buffers a
// row, and the final Exec with no args reports the number of rows buffered.
type MockStmt struct {
	conn     *MockConnection
	rowCount int64
}

func (s *MockStmt) Close() error {
	return nil
}

func (s *MockStmt) Exec(args ...interface{}) (Result, error) {
	return s.ExecContext(context.Background(), args...)
}

func (s *MockStmt) ExecContext(ctx context.Context, args ...interface{}) (Result, error) {
	if len(args) == 0 { // if this is the final flush...
		return &MockResult{rowsAffected: s.rowCount}, nil
	}
	s.rowCount++
	return &MockResult{}, nil
}

// MockResult implements Result.
type MockResult struct {
	rowsAffected int64
}

func (r *MockResult) LastInsertId() (int64, error) {
	return 0, nil
}

func (r *MockResult) RowsAffected() (int64, error) {
	return r.rowsAffected, nil
}

// MockRows implements Rows over a canned result set.
type MockRows struct {
	columns []string
	rows    [][]interface{}
	idx     int
}

func (r *MockRows) Next() bool {
	if r.idx < len(r.rows) {
		r.idx++
		return true
	}
	return false
}

func (r *MockRows) Columns() ([]string, error) {
	return r.columns, nil
}

func (r *MockRows) Err() error {
	return nil
}

func (r *MockRows) Close() error {
	return nil
}

func (r *MockRows) Scan(dest ...interface{}) error {
	row := r.rows[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("expected %v scan targets; got %v", len(row), len(dest))
	}
	for i, src := range row {
		switch d := dest[i].(type) {
		case *interface{}:
			*d = src
		case *string:
			*d = src.(string)
		case *int64:
			switch v := src.(type) {
			case int:
				*d = int64(v)
			case int64:
				*d = v
			default:
				return fmt.Errorf("cannot scan %T into *int64", src)
			}
		case *float64:
			*d = src.(float64)
		case *bool:
			*d = src.(bool)
		case *time.Time:
			*d = src.(time.Time)
		default:
			return fmt.Errorf("unsupported scan target type %T", dest[i])
		}
	}
	return nil
}
