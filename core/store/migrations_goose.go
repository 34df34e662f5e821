package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"vectorcraft-admin/core/utils"

	"github.com/pressly/goose/v3"
)

//go:embed migrations_pg/*.sql
var gooseMigrationsPgFS embed.FS

//go:embed migrations_sqlite/*.sql
var gooseMigrationsSqliteFS embed.FS

// ApplyMigrations brings the schema up to date. Postgres is the production
// path; sqlite is accepted only because NewDB hands it out in test runtime.
func ApplyMigrations(ctx context.Context, db *sql.DB, logger *utils.Logger) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	isPG, err := isPostgresDB(ctx, db)
	if err != nil {
		return err
	}
	dialect := "sqlite3"
	dir := "migrations_sqlite"
	fsys := gooseMigrationsSqliteFS
	if isPG {
		dialect = "postgres"
		dir = "migrations_pg"
		fsys = gooseMigrationsPgFS
	}
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	goose.SetBaseFS(fsys)
	if logger != nil {
		logger.Printf("applying goose migrations (%s)", dialect)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return err
	}
	if logger != nil {
		logger.Printf("goose migrations applied")
	}
	return nil
}

func isPostgresDB(ctx context.Context, db *sql.DB) (bool, error) {
	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return false, err
	}
	var version string
	if err := db.QueryRowContext(ctx, "SELECT version()").Scan(&version); err != nil {
		// sqlite has no version(); treat scan failure as non-postgres
		return false, nil
	}
	return true, nil
}
