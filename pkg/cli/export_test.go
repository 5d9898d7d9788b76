package cli

var (
	PrintSimilar   = printSimilar
	GetIndexConfig = getIndexConfig
	MigrationSteps = migrationSteps
)
