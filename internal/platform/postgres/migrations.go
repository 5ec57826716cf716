package postgres

import "embed"

// MigrationsFS holds the SQL migration files, embedded so the binary can
// migrate its own schema without a migrations directory on disk.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
