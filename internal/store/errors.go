package store

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned by Update when the root row is absent. Get
	// never returns it, and mutators on a missing parent surface the FOREIGN
	// KEY constraint error instead.
	ErrNotFound = errors.New("not found")

	// ErrUngroupableValue is returned when a district or area set holds the
	// empty string or a value containing the GROUP_CONCAT separator.
	ErrUngroupableValue = errors.New("value cannot be stored in a grouped set")

	// ErrUnitOfWorkOpen is returned by Begin while another unit of work is open.
	ErrUnitOfWorkOpen = errors.New("unit of work already open")

	// ErrUnitOfWorkDone is returned when a finished unit of work is used again.
	ErrUnitOfWorkDone = errors.New("unit of work already finished")
)

// IsConstraintViolation reports whether err carries a SQLite constraint
// failure: duplicate id, duplicate composite key, NOT NULL, CHECK or FOREIGN KEY.
func IsConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}

// IsUniqueViolation reports whether err is a primary key or UNIQUE failure.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
