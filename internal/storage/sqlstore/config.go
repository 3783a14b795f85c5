package sqlstore

// Driver names accepted by Config.Driver
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds SQL settings-store connection settings
type Config struct {
	// Driver selects the SQL dialect ("sqlite" or "postgres")
	Driver string
	// DSN is a file path for sqlite or a connection string for postgres
	DSN string
}
