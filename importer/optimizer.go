package importer

import (
	"context"
	"fmt"

	"github.com/etylermoss/sql-bulk-import-profile/profile"
	"github.com/pkg/errors"
)

// optimize collapses staged columns that hold identical data. Candidate pairs
// are non-key columns with the same base type; each pair costs one
// mismatch-count query over the staging table. When a later column matches an
// earlier one, its merge source is remapped to the earlier column's staging
// column, so the merge output is identical with or without the optimization.
func (mr *mapperRun) optimize(ctx context.Context) error {
	if mr.opts.NoDuplicateOptimization {
		mr.log.Debug("duplicate column optimization disabled")
		return nil
	}
	candidates := make([]*columnBinding, 0, len(mr.bindings))
	for _, b := range mr.bindings {
		if mr.mapper.IsKeyColumn(b.mapping.Column) { // key columns are never collapsed...
			continue
		}
		candidates = append(candidates, b)
	}
	collapsed := 0
	for i := 0; i < len(candidates); i++ { // earliest-declared column survives...
		bi := candidates[i]
		if bi.mergeSource != bi.stagingCol { // already collapsed into an earlier column...
			continue
		}
		for j := i + 1; j < len(candidates); j++ {
			bj := candidates[j]
			if bj.mergeSource != bj.stagingCol {
				continue
			}
			if profile.BaseType(bi.mapping.Type) != profile.BaseType(bj.mapping.Type) {
				continue
			}
			mismatches, err := mr.countMismatches(ctx, bi.stagingCol, bj.stagingCol)
			if err != nil {
				return err
			}
			if mismatches != 0 { // the columns differ...
				continue
			}
			bj.mergeSource = bi.mergeSource
			collapsed++
			mr.log.Info("column ", bj.mapping.Column, " duplicates ", bi.mapping.Column, "; merge will read ", bi.stagingCol)
		}
	}
	mr.result.ColumnsCollapsed = collapsed
	return nil
}

// validateMergeBindings checks that the optimizer left every key column
// merging from its own staging column. A remapped key column would silently
// match target rows on the wrong data, so it fails the mapper before the
// merge statement is built.
func (mr *mapperRun) validateMergeBindings() error {
	for _, b := range mr.bindings {
		if mr.mapper.IsKeyColumn(b.mapping.Column) && b.mergeSource != b.stagingCol {
			return &InvariantViolation{
				Mapper: mr.mapper.Name,
				Column: b.mapping.Column,
				Reason: fmt.Sprintf("key column collapsed into staging column %q", b.mergeSource),
			}
		}
	}
	return nil
}

func (mr *mapperRun) countMismatches(ctx context.Context, colA string, colB string) (int64, error) {
	gen := mr.db.GetDmlGenerator().NewColumnMismatchGenerator(mr.generatorConfig(), colA, colB)
	rows, err := mr.db.QueryContext(ctx, gen.GetStatement())
	if err != nil {
		return 0, &ConnectionError{Reason: "mismatch count query failed", Err: err}
	}
	defer func() {
		_ = rows.Close()
	}()
	var n int64
	if !rows.Next() {
		return 0, errors.New("mismatch count query returned no rows")
	}
	if err := rows.Scan(&n); err != nil {
		return 0, errors.Wrap(err, "unable to scan mismatch count")
	}
	return n, rows.Err()
}
