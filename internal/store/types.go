package store

// DatabaseType selects the SQL dialect a DSN resolves to.
type DatabaseType string

const (
	DBTypePostgres DatabaseType = "postgres"
	DBTypeSQLite   DatabaseType = "sqlite"
)
