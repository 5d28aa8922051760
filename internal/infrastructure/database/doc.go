// Package database provides account-store connectivity for Gray Logic Accounts.
//
// This package manages:
//   - SQLite connections (mattn/go-sqlite3) with WAL mode for concurrent access
//   - PostgreSQL connections through the pgx stdlib driver
//   - Dialect helpers: placeholder rebinding, case-insensitive LIKE, unique
//     violation detection
//   - Embedded, per-dialect schema migrations
//
// Security Considerations:
//   - All queries use parameterised statements (no SQL injection)
//   - SQLite database file permissions are set to 0600 (owner read/write only)
//
// Usage:
//
//	db, err := database.Open(database.Config{Driver: "sqlite", Path: "./data/accounts.db"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration Strategy:
//
// Migrations are additive-only to support safe rollbacks:
//   - New columns must be NULLABLE or have DEFAULT values
//   - Each migration file has both .up.sql and .down.sql
//   - Every version exists for every dialect
package database
