package database

import (
	"database/sql"
	"embed"
)

//go:embed migrations/*.sql
var Migrations embed.FS

// OpenMigrated opens dsn and brings its schema up to date.
func OpenMigrated(dsn string) (*sql.DB, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := ApplyMigrations(db, Migrations, "migrations"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
