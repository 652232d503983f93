package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrPrepare wraps failures to compile a statement. It points at a schema
	// mismatch or a malformed query rather than a runtime condition.
	ErrPrepare = errors.New("prepare statement")

	// ErrUsernameTaken is returned when an insert hits the users.username
	// uniqueness constraint.
	ErrUsernameTaken = errors.New("username already exists")
)

// prepare compiles query on q, tagging failures with ErrPrepare.
func prepare(ctx context.Context, q Querier, query string) (*sql.Stmt, error) {
	stmt, err := q.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPrepare, err)
	}
	return stmt, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE or PRIMARY KEY
// constraint failure.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
		se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
