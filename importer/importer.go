// Package importer executes an import profile against a SQL Server target:
// per table mapper it reads the source file, bulk-loads a unique staging
// table, optionally collapses duplicate staged columns, merges into the
// target table and cleans up.
package importer

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/etylermoss/sql-bulk-import-profile/constants"
	"github.com/etylermoss/sql-bulk-import-profile/datasource"
	"github.com/etylermoss/sql-bulk-import-profile/logger"
	"github.com/etylermoss/sql-bulk-import-profile/profile"
	"github.com/etylermoss/sql-bulk-import-profile/rdbms"
	"github.com/etylermoss/sql-bulk-import-profile/rdbms/shared"
	"github.com/pkg/errors"
)

// Options are the run-level switches supplied by the CLI.
type Options struct {
	PathOverride            string
	Deletion                profile.DeletionPolicy // fallback when neither mapper nor profile set one.
	NoMerge                 bool
	NoDrop                  bool
	NoDuplicateOptimization bool
	AbortOnFailure          bool
}

// Validate rejects inconsistent option combinations.
func (o *Options) Validate() error {
	if o.NoMerge && !o.NoDrop { // retained staging is the whole point of no-merge...
		return errors.New("--no-merge requires --no-drop")
	}
	return nil
}

// RunProfile executes every table mapper of the profile in order and returns
// one result per mapper. A mapper failure does not stop the run unless
// AbortOnFailure is set; the caller decides the exit code from RunResult.Failed().
func RunProfile(ctx context.Context, log logger.Logger, db shared.Connector, p *profile.Profile, opts *Options) (*RunResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	sourceDir, err := p.ResolveSourceDir(opts.PathOverride)
	if err != nil {
		return nil, err
	}
	if err := ensureStagingSchema(ctx, db); err != nil {
		return nil, err
	}
	result := &RunResult{Profile: p.Name}
	for _, m := range p.TableMappers { // for each table mapper in profile order...
		r := runMapper(ctx, log, db, p, m, opts, sourceDir)
		result.Mappers = append(result.Mappers, r)
		if r.Failed() && opts.AbortOnFailure {
			log.Warn("aborting run after failure of table mapper ", m.Name)
			break
		}
		if ctx.Err() != nil { // if the run was cancelled, mappers not yet started are skipped...
			log.Warn("run cancelled after table mapper ", m.Name)
			break
		}
	}
	return result, nil
}

// ensureStagingSchema creates the staging schema when it does not exist.
func ensureStagingSchema(ctx context.Context, db shared.Connector) error {
	stmt := fmt.Sprintf("if schema_id(N'%v') is null exec(N'create schema %v')",
		constants.StagingSchema, shared.QuoteIdentifier(constants.StagingSchema))
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return &ConnectionError{Reason: "unable to ensure staging schema", Err: err}
	}
	return nil
}

// columnBinding joins one column mapping to its source field and staging
// column. mergeSource starts as the column's own staging column and is
// remapped by the optimizer when the column turns out to be a duplicate.
type columnBinding struct {
	mapping     *profile.ColumnMapping
	field       *profile.Field // nil for static columns and ungrouped mappers.
	stagingCol  string
	mergeSource string
	staticVal   interface{} // bound once per run for static columns.
}

type mapperRun struct {
	log            logger.Logger
	db             shared.Connector
	profile        *profile.Profile
	mapper         *profile.TableMapper
	opts           *Options
	sourceDir      string
	targetSchema   string
	targetTable    string
	stagingTable   string
	bindings       []*columnBinding
	stagingCreated bool
	merged         bool
	state          State
	result         *MapperResult
}

func runMapper(ctx context.Context, log logger.Logger, db shared.Connector, p *profile.Profile, m *profile.TableMapper, opts *Options, sourceDir string) *MapperResult {
	start := time.Now()
	mr := &mapperRun{
		log:       log.WithFields(map[string]interface{}{"tableMapper": m.Name}),
		db:        db,
		profile:   p,
		mapper:    m,
		opts:      opts,
		sourceDir: sourceDir,
		state:     StatePending,
		result:    &MapperResult{Mapper: m.Name, Table: m.Table, State: StatePending},
	}
	defer func() {
		mr.result.Duration = time.Since(start)
	}()
	if err := mr.bind(); err != nil {
		return mr.fail(err)
	}
	type stage struct {
		onDone State
		fn     func(context.Context) error
	}
	stages := []stage{
		{StateStaged, mr.load},
		{StateOptimized, mr.optimize},
		{StateMerged, mr.merge},
		{StateCleaned, mr.cleanup},
		{StateDone, mr.deleteSource},
	}
	mr.transition(StateLoading)
	for _, s := range stages { // run each stage, checking for cancellation in between...
		if err := ctx.Err(); err != nil { // if the run was cancelled...
			if !mr.merged { // nothing has reached the target table yet...
				return mr.fail(errors.Wrap(err, "run cancelled"))
			}
			// The merge committed, so cleanup and source deletion still run.
			ctx = context.Background()
		}
		if err := s.fn(ctx); err != nil {
			return mr.fail(err)
		}
		mr.transition(s.onDone)
	}
	return mr.result
}

// bind resolves the mapper's column mappings against its field group, parses
// the target table reference and picks the staging table name for this run.
func (mr *mapperRun) bind() error {
	st := rdbms.SchemaTable{SchemaTable: mr.mapper.Table}
	mr.targetSchema = st.GetSchema()
	mr.targetTable = st.GetTable()
	mr.stagingTable = mr.mapper.StagingTableName(mr.targetTable)
	group := mr.profile.FieldGroups[mr.mapper.FieldGroup] // nil for ungrouped mappers.
	for _, c := range mr.mapper.Columns {
		b := &columnBinding{
			mapping:     c,
			stagingCol:  c.Column,
			mergeSource: c.Column,
		}
		if c.IsStatic() { // static columns are coerced once per run...
			v, err := profile.CoerceValue(c.Column, c.Type, *c.Value)
			if err != nil {
				return err
			}
			b.staticVal = v
		} else if group != nil {
			b.field = group.GetField(c.Field)
		}
		mr.bindings = append(mr.bindings, b)
	}
	return nil
}

func (mr *mapperRun) transition(next State) {
	if !mr.state.CanTransition(next) {
		mr.log.Panic("illegal state transition from ", mr.state, " to ", next)
	}
	mr.log.Info("table mapper state: ", mr.state, " -> ", next)
	mr.state = next
	mr.result.State = next
}

// fail records the terminal error and makes a best-effort attempt to drop the
// staging table so a failed mapper does not leak one. The state reached before
// the failure is kept on the result so the operator can tell whether the
// target table was touched or only staging artifacts.
func (mr *mapperRun) fail(err error) *MapperResult {
	mr.result.LastState = mr.state
	mr.transition(StateFailed)
	mr.result.Err = err
	mr.log.Error(err)
	if mr.stagingCreated && !mr.opts.NoDrop {
		drop := mr.db.GetDmlGenerator().NewDropTableGenerator(mr.generatorConfig())
		if _, dropErr := mr.db.Exec(drop.GetStatement()); dropErr != nil {
			mr.log.Warn("unable to drop staging table after failure: ", dropErr)
		} else {
			mr.stagingCreated = false
		}
	}
	if mr.stagingCreated {
		mr.result.StagingTable = mr.stagingTable
	}
	return mr.result
}

func (mr *mapperRun) generatorConfig() *shared.SqlStatementGeneratorConfig {
	return &shared.SqlStatementGeneratorConfig{
		Log:           mr.log,
		OutputSchema:  mr.targetSchema,
		OutputTable:   mr.targetTable,
		StagingSchema: constants.StagingSchema,
		StagingTable:  mr.stagingTable,
	}
}

// cleanup drops the staging table unless the run asked for it to be retained.
func (mr *mapperRun) cleanup(ctx context.Context) error {
	if mr.opts.NoMerge || mr.opts.NoDrop { // staging is retained for inspection...
		mr.result.StagingTable = mr.stagingTable
		mr.log.Info("retaining staging table ", mr.stagingTable)
		return nil
	}
	if !mr.stagingCreated { // nothing to drop...
		return nil
	}
	drop := mr.db.GetDmlGenerator().NewDropTableGenerator(mr.generatorConfig())
	if _, err := mr.db.ExecContext(ctx, drop.GetStatement()); err != nil {
		return errors.Wrap(err, "unable to drop staging table")
	}
	mr.stagingCreated = false
	return nil
}

// deleteSource applies the deletion policy to the source file. It only runs
// when the mapper actually merged, and a failure to delete never fails the
// mapper.
func (mr *mapperRun) deleteSource(ctx context.Context) error {
	policy := mr.mapper.EffectiveDeletion(mr.profile, mr.opts.Deletion)
	if !mr.merged || policy != profile.DeletionDelete {
		return nil
	}
	path := mr.mapper.SourceFilePath(mr.sourceDir)
	if err := os.Remove(path); err != nil {
		derr := &DeletionError{Mapper: mr.mapper.Name, Path: path, Err: err}
		mr.log.Error(derr)
		return nil
	}
	mr.result.SourceDeleted = true
	mr.log.Info("deleted source file ", path)
	return nil
}

// open creates the datasource reader for the mapper's source file.
func (mr *mapperRun) open() (datasource.Reader, error) {
	path := mr.mapper.SourceFilePath(mr.sourceDir)
	return datasource.NewReader(mr.log, path, mr.profile.Source.Format, mr.profile.Source.Options)
}
