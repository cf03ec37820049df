package cmd

import (
	"github.com/etylermoss/sql-bulk-import-profile/actions"
	"github.com/etylermoss/sql-bulk-import-profile/constants"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an import profile without executing it",
	Long: `Validate an import profile without executing it.
The profile file is parsed and cross-checked (field groups, column mappings,
key columns and data types) but no database connection is made and no source
files are read.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		validateConfig.StackDumpOnPanic = stackDumpOnPanic
		return actions.ValidateProfile(&validateConfig)
	},
}

var validateConfig = actions.ValidateProfileConfig{
	LogLevel: constants.LogLevelDefault,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().SortFlags = false
	switches.addFlag(validateCmd, &validateConfig.ProfileFile, "import-profile", "", true, "")
	_ = validateCmd.MarkFlagFilename("import-profile", "json", "yaml", "yml")
	switches.addFlag(validateCmd, &validateConfig.LogLevel, "log-level", constants.LogLevelDefault, false, "")
}
