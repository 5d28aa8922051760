// Package migrations embeds SQL migration files into the binary.
//
// Each supported dialect has its own directory so the schema can use native
// types while keeping the same version numbers across engines.
package migrations

import (
	"embed"

	"github.com/nerrad567/gray-logic-accounts/internal/infrastructure/database"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
