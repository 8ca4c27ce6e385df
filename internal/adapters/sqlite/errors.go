package sqlite

import (
	"errors"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jcmexdev/backoffice-api/internal/core/domain/fault"
)

// mapConstraintErr translates SQLite constraint violations into Conflict
// faults so the boundary can answer 409 instead of 500. Anything that is
// not a constraint violation passes through unchanged.
func mapConstraintErr(err error, msg string) error {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE,
		sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return fault.Wrap(fault.KindConflict, err, "%s: duplicate unique field", msg)
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY,
		sqlite3.SQLITE_CONSTRAINT_TRIGGER:
		return fault.Wrap(fault.KindConflict, err, "%s: referenced by another record", msg)
	}
	return err
}
