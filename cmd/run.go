package cmd

import (
	"github.com/etylermoss/sql-bulk-import-profile/actions"
	"github.com/etylermoss/sql-bulk-import-profile/constants"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute an import profile against a SQL Server database",
	Long: `Execute an import profile against a SQL Server database.
Each table mapper reads its source file, bulk-loads a staging table and merges
the staged rows into the target table using the mapper's key columns.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runConfig.StackDumpOnPanic = stackDumpOnPanic
		return actions.RunImport(&runConfig)
	},
}

var runConfig = actions.RunImportConfig{
	LogLevel: constants.LogLevelDefault,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().SortFlags = false
	switches.addFlag(runCmd, &runConfig.ConnectionString, "connection-string", "", true, "")
	switches.addFlag(runCmd, &runConfig.ProfileFile, "import-profile", "", true, "")
	_ = runCmd.MarkFlagFilename("import-profile", "json", "yaml", "yml")
	switches.addFlag(runCmd, &runConfig.PathOverride, "path-override", "", false, "")
	switches.addFlag(runCmd, &runConfig.Deletion, "deletion", "", false, "")
	switches.addFlag(runCmd, &runConfig.NoMerge, "no-merge", "", false, "")
	switches.addFlag(runCmd, &runConfig.NoDrop, "no-drop", "", false, "")
	switches.addFlag(runCmd, &runConfig.NoDuplicateOptimization, "no-duplicate-optimization", "", false, "")
	switches.addFlag(runCmd, &runConfig.AbortOnFailure, "abort-on-failure", "", false, "")
	switches.addFlag(runCmd, &runConfig.LogLevel, "log-level", constants.LogLevelDefault, false, "")
}
