package importer

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	om "github.com/cevaris/ordered_map"
	mssql "github.com/denisenkom/go-mssqldb"
	"github.com/pkg/errors"
)

// SQL Server error numbers raised by constraint violations during a merge:
// 547 = FK/check constraint, 2601 = duplicate key in unique index,
// 2627 = unique/primary key constraint.
var constraintErrorNumbers = map[int32]struct{}{
	547:  {},
	2601: {},
	2627: {},
}

// merge folds the staging table into the target table with a single MERGE
// statement in its own transaction. Duplicate key values in the staged data
// are detected first so the mapper fails with the offending keys instead of a
// driver error.
func (mr *mapperRun) merge(ctx context.Context) error {
	if mr.opts.NoMerge {
		mr.log.Info("merge skipped; staging table ", mr.stagingTable, " retained")
		return nil
	}
	if err := mr.validateMergeBindings(); err != nil {
		return err
	}
	if err := mr.checkDuplicateKeys(ctx); err != nil {
		return err
	}
	cfg := mr.generatorConfig()
	cfg.TargetKeyCols, cfg.TargetOtherCols = mr.mergeColumnMaps()
	gen := mr.db.GetDmlGenerator().NewMergeGenerator(cfg)
	tx, err := mr.db.Begin()
	if err != nil {
		return &ConnectionError{Reason: "unable to begin merge transaction", Err: err}
	}
	res, err := tx.ExecContext(ctx, gen.GetStatement())
	if err != nil {
		_ = tx.Rollback()
		var sqlErr mssql.Error
		if stderrors.As(err, &sqlErr) {
			if _, ok := constraintErrorNumbers[sqlErr.Number]; ok {
				return &ConstraintError{Mapper: mr.mapper.Name, Number: sqlErr.Number, Err: err}
			}
		}
		return &MergeError{Mapper: mr.mapper.Name, Reason: err.Error()}
	}
	if err := tx.Commit(); err != nil {
		return &MergeError{Mapper: mr.mapper.Name, Reason: err.Error()}
	}
	merged, err := res.RowsAffected()
	if err != nil {
		merged = 0
	}
	mr.result.RowsMerged = merged
	mr.merged = true
	mr.log.Info("merged ", merged, " row(s) into ", mr.mapper.Table)
	return nil
}

// mergeColumnMaps builds the ordered staging-to-target column maps for the
// merge generator, honouring any optimizer remaps.
func (mr *mapperRun) mergeColumnMaps() (keyCols *om.OrderedMap, otherCols *om.OrderedMap) {
	keyCols = om.NewOrderedMap()
	otherCols = om.NewOrderedMap()
	for _, b := range mr.bindings {
		if mr.mapper.IsKeyColumn(b.mapping.Column) {
			keyCols.Set(b.mergeSource, b.mapping.Column)
		} else {
			otherCols.Set(b.mergeSource, b.mapping.Column)
		}
	}
	return keyCols, otherCols
}

// checkDuplicateKeys fails the merge when the staged data holds more than one
// row for the same key.
func (mr *mapperRun) checkDuplicateKeys(ctx context.Context) error {
	cfg := mr.generatorConfig()
	cfg.TargetKeyCols, _ = mr.mergeColumnMaps()
	gen := mr.db.GetDmlGenerator().NewDupKeyCheckGenerator(cfg)
	rows, err := mr.db.QueryContext(ctx, gen.GetStatement())
	if err != nil {
		return &ConnectionError{Reason: "duplicate key check failed", Err: err}
	}
	defer func() {
		_ = rows.Close()
	}()
	numKeyCols := cfg.TargetKeyCols.Len()
	var dups []string
	for rows.Next() {
		scanVals := make([]interface{}, numKeyCols+1) // key columns plus the count.
		scanPtrs := make([]interface{}, len(scanVals))
		for i := range scanVals {
			scanPtrs[i] = &scanVals[i]
		}
		if err := rows.Scan(scanPtrs...); err != nil {
			return errors.Wrap(err, "unable to scan duplicate key row")
		}
		keyVals := make([]string, numKeyCols)
		for i := 0; i < numKeyCols; i++ {
			keyVals[i] = fmt.Sprint(scanVals[i])
		}
		dups = append(dups, strings.Join(keyVals, "/"))
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "duplicate key check failed")
	}
	if len(dups) > 0 {
		return &MergeError{
			Mapper: mr.mapper.Name,
			Reason: fmt.Sprintf("staged data holds duplicate key value(s): %v", strings.Join(dups, ", ")),
		}
	}
	return nil
}
