package constants

const (
	// ServiceName is the logger service field and the CLI binary name.
	ServiceName = "sbip"

	// EnvVarPrefix is used to form environment variable names for CLI flag defaults.
	EnvVarPrefix = "SBIP"

	EnvVarConnectionString = "CONNECTION_STRING"
	EnvVarLogLevel         = "LOG_LEVEL"

	ConnectionTypeSqlServer     = "sqlserver"
	ConnectionTypeMockSqlServer = "mockSqlServer"

	// StagingSchema is the schema that holds per-run staging tables.
	StagingSchema = "import"

	// DeletionRetain and DeletionDelete are the source file deletion policies.
	DeletionRetain = "retain"
	DeletionDelete = "delete"

	// Source file formats accepted by an import profile.
	SourceFormatCsv    = "csv"
	SourceFormatTxt    = "txt"
	SourceFormatXml    = "xml"
	SourceFormatCustom = "custom"

	LogLevelDefault = "warn"

	// StatsCaptureFrequencySeconds is the interval between bulk-load progress samples.
	StatsCaptureFrequencySeconds = 5
)
