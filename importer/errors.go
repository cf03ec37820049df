package importer

import (
	"fmt"
)

// ConnectionError reports a failure to reach or converse with the target
// database outside of a classified stage failure.
type ConnectionError struct {
	Reason string
	Err    error
}

func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("database connection error: %v: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("database connection error: %v", e.Reason)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// LoadError reports a failed staging bulk load. RowsSent is the number of
// rows sent before the failure; the staging table holds zero rows because the
// load transaction rolls back.
type LoadError struct {
	Mapper   string
	RowsSent int64
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("table mapper %q: load failed after %v row(s) sent (staging rolled back): %v", e.Mapper, e.RowsSent, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// InvariantViolation reports an internal inconsistency, such as the duplicate
// column optimizer attempting to collapse a key column.
type InvariantViolation struct {
	Mapper string
	Column string
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("table mapper %q column %q: invariant violation: %v", e.Mapper, e.Column, e.Reason)
}

// MergeError reports a merge that cannot proceed, e.g. duplicate key values
// in the staged data.
type MergeError struct {
	Mapper string
	Reason string
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("table mapper %q: merge failed: %v", e.Mapper, e.Reason)
}

// ConstraintError reports a merge rejected by a target table constraint.
type ConstraintError struct {
	Mapper string
	Number int32 // SQL Server error number.
	Err    error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("table mapper %q: merge rejected by constraint (error %v): %v", e.Mapper, e.Number, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// DeletionError reports a source file that could not be deleted after a
// successful merge. It never fails the mapper.
type DeletionError struct {
	Mapper string
	Path   string
	Err    error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("table mapper %q: unable to delete source file %q: %v", e.Mapper, e.Path, e.Err)
}

func (e *DeletionError) Unwrap() error { return e.Err }
