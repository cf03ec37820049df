package importer

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync/atomic"

	om "github.com/cevaris/ordered_map"
	mssql "github.com/denisenkom/go-mssqldb"
	"github.com/etylermoss/sql-bulk-import-profile/constants"
	"github.com/etylermoss/sql-bulk-import-profile/datasource"
	"github.com/etylermoss/sql-bulk-import-profile/profile"
	"github.com/etylermoss/sql-bulk-import-profile/rdbms/shared"
	"github.com/etylermoss/sql-bulk-import-profile/stats"
	"github.com/pkg/errors"
)

// load creates the staging table and bulk-loads every source record into it
// inside a single transaction. Any failure rolls the transaction back, so the
// staging table is either complete or empty.
func (mr *mapperRun) load(ctx context.Context) error {
	r, err := mr.open()
	if err != nil {
		return err
	}
	defer func() {
		_ = r.Close()
	}()
	if err := mr.createStagingTable(ctx); err != nil {
		return err
	}
	tx, err := mr.db.Begin()
	if err != nil {
		return &ConnectionError{Reason: "unable to begin load transaction", Err: err}
	}
	cols := make([]string, 0, len(mr.bindings))
	for _, b := range mr.bindings {
		cols = append(cols, b.stagingCol)
	}
	bulk := mssql.CopyIn(shared.SchemaTableName(constants.StagingSchema, mr.stagingTable), mssql.BulkOptions{}, cols...)
	stmt, err := tx.PrepareContext(ctx, bulk)
	if err != nil {
		_ = tx.Rollback()
		return &LoadError{Mapper: mr.mapper.Name, Err: err}
	}
	var rowsSent int64
	watcher := stats.NewLoadWatcher(mr.log, mr.mapper.Name)
	watcher.StartWatching(&rowsSent)
	defer watcher.StopWatching()
	// Track mapped fields until each has been seen in a record, so a field
	// missing from the source fails the mapper instead of loading NULLs.
	unseenFields := make(map[string]struct{})
	for _, b := range mr.bindings {
		if !b.mapping.IsStatic() {
			unseenFields[b.mapping.Field] = struct{}{}
		}
	}
	for { // for each source record...
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil { // source read/parse failure...
			_ = tx.Rollback()
			return err
		}
		mr.result.RowsRead++
		for f := range unseenFields {
			if _, ok := rec.Values[f]; ok {
				delete(unseenFields, f)
			}
		}
		vals, drop, err := mr.bindRecord(rec)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if drop { // record dropped by a required=drop field...
			mr.result.RowsDropped++
			continue
		}
		if _, err := stmt.Exec(vals...); err != nil {
			_ = tx.Rollback()
			return &LoadError{Mapper: mr.mapper.Name, RowsSent: rowsSent, Err: err}
		}
		atomic.AddInt64(&rowsSent, 1)
	}
	if mr.result.RowsRead > 0 && len(unseenFields) > 0 { // a mapped field never appeared in the source...
		_ = tx.Rollback()
		fields := make([]string, 0, len(unseenFields))
		for f := range unseenFields {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		return &datasource.SourceFormatError{
			Path:   mr.mapper.SourceFilePath(mr.sourceDir),
			Reason: fmt.Sprintf("mapped field(s) %v never appear in the source", strings.Join(fields, ", ")),
		}
	}
	res, err := stmt.Exec() // flush the bulk copy.
	if err != nil {
		_ = tx.Rollback()
		return &LoadError{Mapper: mr.mapper.Name, RowsSent: rowsSent, Err: err}
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return &LoadError{Mapper: mr.mapper.Name, RowsSent: rowsSent, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &LoadError{Mapper: mr.mapper.Name, RowsSent: rowsSent, Err: err}
	}
	loaded, err := res.RowsAffected()
	if err != nil {
		loaded = rowsSent
	}
	mr.result.RowsLoaded = loaded
	mr.log.Info("loaded ", loaded, " row(s) into staging table ", mr.stagingTable)
	return nil
}

func (mr *mapperRun) createStagingTable(ctx context.Context) error {
	stagingCols := om.NewOrderedMap()
	for _, b := range mr.bindings {
		stagingCols.Set(b.stagingCol, b.mapping.Type)
	}
	cfg := mr.generatorConfig()
	cfg.StagingCols = stagingCols
	ddl := mr.db.GetDmlGenerator().NewCreateStagingGenerator(cfg)
	if _, err := mr.db.ExecContext(ctx, ddl.GetStatement()); err != nil {
		return errors.Wrap(err, "unable to create staging table")
	}
	mr.stagingCreated = true
	return nil
}

// bindRecord turns one source record into the ordered staging row values.
// It applies the field formatters and required semantics before coercing each
// cell to its declared type. drop is true when a required=drop field is empty.
func (mr *mapperRun) bindRecord(rec *datasource.Record) (vals []interface{}, drop bool, err error) {
	vals = make([]interface{}, 0, len(mr.bindings))
	for _, b := range mr.bindings {
		if b.mapping.IsStatic() {
			vals = append(vals, b.staticVal)
			continue
		}
		raw := rec.Values[b.mapping.Field]
		if b.field != nil {
			raw = b.field.Format(raw)
			if raw == "" && b.field.Required != profile.RequiredNone { // if a required field is empty...
				if b.field.Required == profile.RequiredDrop {
					return nil, true, nil
				}
				return nil, false, &LoadError{
					Mapper: mr.mapper.Name,
					Err:    fmt.Errorf("required field %q is empty at record %v", b.mapping.Field, rec.Index),
				}
			}
		}
		v, err := profile.CoerceValue(b.mapping.Column, b.mapping.Type, raw)
		if err != nil {
			return nil, false, errors.Wrapf(err, "record %v", rec.Index)
		}
		vals = append(vals, v)
	}
	return vals, false, nil
}
