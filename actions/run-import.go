package actions

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etylermoss/sql-bulk-import-profile/constants"
	"github.com/etylermoss/sql-bulk-import-profile/helper"
	"github.com/etylermoss/sql-bulk-import-profile/importer"
	"github.com/etylermoss/sql-bulk-import-profile/logger"
	"github.com/etylermoss/sql-bulk-import-profile/profile"
	"github.com/etylermoss/sql-bulk-import-profile/rdbms"
	"github.com/etylermoss/sql-bulk-import-profile/rdbms/shared"
	"golang.org/x/net/context"
)

type RunImportConfig struct {
	ConnectionString        string `errorTxt:"connection-string" mandatory:"yes"`
	ProfileFile             string `errorTxt:"import-profile" mandatory:"yes"`
	ConnectionType          string
	PathOverride            string
	Deletion                string
	NoMerge                 bool
	NoDrop                  bool
	NoDuplicateOptimization bool
	AbortOnFailure          bool
	LogLevel                string
	StackDumpOnPanic        bool
}

// RunImport loads the import profile, connects to the target database and
// executes every table mapper. It returns an error if the run could not start
// or if any table mapper failed, so callers can derive the process exit code.
func RunImport(cfg *RunImportConfig) error {
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	log := logger.NewLogger(constants.ServiceName, cfg.LogLevel, cfg.StackDumpOnPanic)
	deletion, err := profile.ParseDeletion(cfg.Deletion)
	if err != nil {
		return err
	}
	p, err := profile.LoadProfileFromFile(log, cfg.ProfileFile)
	if err != nil {
		return err
	}
	connectionType := cfg.ConnectionType
	if connectionType == "" {
		connectionType = constants.ConnectionTypeSqlServer
	}
	db, err := rdbms.OpenDbConnection(log, shared.ConnectionDetails{
		Type:        connectionType,
		LogicalName: "target",
		Data:        map[string]string{shared.DefaultDsnConnectionKeyNames.Dsn: cfg.ConnectionString},
	})
	if err != nil {
		return err
	}
	defer db.Close()
	opts := &importer.Options{
		PathOverride:            cfg.PathOverride,
		Deletion:                deletion,
		NoMerge:                 cfg.NoMerge,
		NoDrop:                  cfg.NoDrop,
		NoDuplicateOptimization: cfg.NoDuplicateOptimization,
		AbortOnFailure:          cfg.AbortOnFailure,
	}
	// Cancel the run between stages on interrupt.
	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()
	chanQuit := make(chan os.Signal, 2)
	signal.Notify(chanQuit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(chanQuit)
	go func() {
		if _, ok := <-chanQuit; ok { // if we were interrupted...
			fmt.Println("\nUser abort. Stopping import...")
			cancelFn()
		}
	}()
	res, err := importer.RunProfile(ctx, log, db, p, opts)
	if err != nil {
		return err
	}
	summariseRun(log, res)
	if res.Failed() {
		return fmt.Errorf("profile %q completed with failures", p.Name)
	}
	return nil
}

// summariseRun logs one line per table mapper at warn level so the summary is
// visible at the default log level.
func summariseRun(log logger.Logger, res *importer.RunResult) {
	for _, r := range res.Mappers {
		l := log.WithFields(map[string]interface{}{
			"tableMapper": r.Mapper,
			"table":       r.Table,
			"state":       string(r.State),
			"rowsRead":    r.RowsRead,
			"rowsLoaded":  r.RowsLoaded,
			"rowsMerged":  r.RowsMerged,
			"duration":    r.Duration.String(),
		})
		if r.RowsDropped > 0 {
			l = l.WithFields(map[string]interface{}{"rowsDropped": r.RowsDropped})
		}
		if r.ColumnsCollapsed > 0 {
			l = l.WithFields(map[string]interface{}{"columnsCollapsed": r.ColumnsCollapsed})
		}
		if r.StagingTable != "" {
			l = l.WithFields(map[string]interface{}{"stagingTable": r.StagingTable})
		}
		if r.SourceDeleted {
			l = l.WithFields(map[string]interface{}{"sourceDeleted": true})
		}
		if r.Failed() {
			// The state reached before the failure says whether the target
			// table was touched or only staging artifacts.
			l = l.WithFields(map[string]interface{}{"lastState": string(r.LastState)})
			l.Error("table mapper failed: ", r.Err)
		} else {
			l.Warn("table mapper complete")
		}
	}
}
