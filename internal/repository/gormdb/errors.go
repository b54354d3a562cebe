package gormdb

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type violation int

const (
	violationNone violation = iota
	violationUnique
	violationForeignKey
)

// classify reports which constraint, if any, a write error tripped.
//
// Postgres errors arrive already translated by GORM (TranslateError). The
// sqlite dialector only knows mattn's error type, so modernc's *sqlite.Error
// is inspected here by extended result code.
func classify(err error) violation {
	switch {
	case err == nil:
		return violationNone
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return violationUnique
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return violationForeignKey
	}

	var se *sqlite.Error
	if !errors.As(err, &se) {
		return violationNone
	}

	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return violationUnique
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return violationForeignKey
	}

	// Extended codes off: fall back to the message.
	if se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		msg := se.Error()
		switch {
		case strings.Contains(msg, "UNIQUE"):
			return violationUnique
		case strings.Contains(msg, "FOREIGN KEY"):
			return violationForeignKey
		}
	}
	return violationNone
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
