package database

import "errors"

// Sentinel errors for database setup.
var (
	// ErrUnsupportedDriver is returned when database.driver names an unknown engine.
	ErrUnsupportedDriver = errors.New("unsupported database driver")

	// ErrMissingDSN is returned when the postgres driver is selected without a DSN.
	ErrMissingDSN = errors.New("postgres DSN is required")
)
