package records

import (
	"errors"
	"fmt"

	"academicRecords/repository"
)

// Error taxonomy of the records operations. Callers classify with errors.Is;
// the underlying cause stays wrapped for diagnostics.
var (
	// ErrConnection means the store could not be opened. Fatal to the
	// operation; never retried.
	ErrConnection = errors.New("connection error")

	// ErrQuery means a statement could not be prepared. It indicates a schema
	// mismatch or a programming defect, not a runtime condition.
	ErrQuery = errors.New("query error")

	// ErrUsernameExists is the expected conflict when registering a taken username.
	ErrUsernameExists = errors.New("username exists")

	// ErrDatabase covers execution failures not otherwise classified.
	ErrDatabase = errors.New("database error")
)

// classify maps a repository error onto the taxonomy.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrConnection), errors.Is(err, ErrQuery),
		errors.Is(err, ErrUsernameExists), errors.Is(err, ErrDatabase):
		return err
	case errors.Is(err, repository.ErrPrepare):
		return fmt.Errorf("%w: %w", ErrQuery, err)
	case errors.Is(err, repository.ErrUsernameTaken):
		return fmt.Errorf("%w: %w", ErrUsernameExists, err)
	default:
		return fmt.Errorf("%w: %w", ErrDatabase, err)
	}
}
