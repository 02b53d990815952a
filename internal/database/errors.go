package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// Error kinds. Match them with errors.Is.
var (
	// ErrIntegrityViolation is a unique, primary-key or foreign-key failure.
	ErrIntegrityViolation = errors.New("integrity violation")
	// ErrCheckViolation is a value outside a declared range, enum or NOT NULL.
	ErrCheckViolation = errors.New("check violation")
	// ErrSchemaConflict is an object that already exists or a migration
	// history that disagrees with the embedded files.
	ErrSchemaConflict = errors.New("schema conflict")
	// ErrNotFound is an absent row, or a foreign key pointing at one.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition is a state change the connection lifecycle forbids.
	ErrInvalidTransition = errors.New("invalid state transition")
)

// Error carries the kind of a store failure and the driver error behind it.
type Error struct {
	Kind       error
	Constraint string
	foreignKey bool
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind. A foreign-key failure also matches ErrNotFound since
// the referenced row does not exist.
func (e *Error) Is(target error) bool {
	if target == e.Kind {
		return true
	}
	return e.foreignKey && target == ErrNotFound
}

func notFound(what string) error {
	return &Error{Kind: ErrNotFound, Err: fmt.Errorf("%s", what)}
}

// classify maps driver errors onto the error kinds. Errors it does not
// recognise are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var already *Error
	if errors.As(err, &already) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Kind: ErrNotFound, Err: err}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return classifySQLite(sqliteErr, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifyPostgres(pgErr, err)
	}
	return err
}

func classifySQLite(se sqlite3.Error, err error) error {
	switch se.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return &Error{Kind: ErrIntegrityViolation, Err: err}
	case sqlite3.ErrConstraintForeignKey:
		return &Error{Kind: ErrIntegrityViolation, foreignKey: true, Err: err}
	case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull, sqlite3.ErrConstraintTrigger:
		return &Error{Kind: ErrCheckViolation, Err: err}
	}
	if se.Code == sqlite3.ErrError && strings.Contains(se.Error(), "already exists") {
		return &Error{Kind: ErrSchemaConflict, Err: err}
	}
	return err
}

func classifyPostgres(pe *pgconn.PgError, err error) error {
	switch pe.Code {
	case "23505":
		return &Error{Kind: ErrIntegrityViolation, Constraint: pe.ConstraintName, Err: err}
	case "23503":
		return &Error{Kind: ErrIntegrityViolation, Constraint: pe.ConstraintName, foreignKey: true, Err: err}
	case "23514", "23502", "22P02":
		return &Error{Kind: ErrCheckViolation, Constraint: pe.ConstraintName, Err: err}
	case "42P07", "42710", "42P06":
		return &Error{Kind: ErrSchemaConflict, Err: err}
	}
	return err
}
