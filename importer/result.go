package importer

import (
	"time"
)

// MapperResult is the outcome of one table mapper.
type MapperResult struct {
	Mapper           string
	Table            string
	State            State
	LastState        State // last state reached before Failed; says how far the mapper got.
	RowsRead         int64 // records read from the source file.
	RowsDropped      int64 // records dropped by required=drop fields.
	RowsLoaded       int64 // rows committed to the staging table.
	RowsMerged       int64 // rows affected by the merge.
	ColumnsCollapsed int   // duplicate columns removed by the optimizer.
	StagingTable     string // set when the staging table was retained.
	SourceDeleted    bool
	Duration         time.Duration
	Err              error // terminal error when State == Failed.
}

// Failed reports whether the mapper ended in the Failed state.
func (r *MapperResult) Failed() bool {
	return r.State == StateFailed
}

// RunResult is the outcome of a whole profile run, one entry per table mapper
// in profile order.
type RunResult struct {
	Profile string
	Mappers []*MapperResult
}

// Failed reports whether any mapper failed.
func (r *RunResult) Failed() bool {
	for _, m := range r.Mappers {
		if m.Failed() {
			return true
		}
	}
	return false
}
