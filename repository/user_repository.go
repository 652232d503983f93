package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"academicRecords/models"
)

const userTimeout = 3 * time.Second

const userColumns = `id, username, password, first_name, last_name, email, role`

type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

// Authenticate looks up the user whose username and password both match the
// given values exactly. Both values are bound as parameters.
// Returns nil, nil when no row matches. String fields are truncated to the
// limits in package models.
func (r *UserRepository) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, userTimeout)
	defer cancel()

	stmt, err := prepare(ctx, r.db, `SELECT `+userColumns+` FROM users WHERE username = ? AND password = ?`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	u, err := scanUser(stmt.QueryRowContext(ctx, username, password))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	u.Truncate()
	return u, nil
}

// Exists reports whether a user with exactly this username is stored.
func (r *UserRepository) Exists(ctx context.Context, username string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, userTimeout)
	defer cancel()

	stmt, err := prepare(ctx, r.db, `SELECT id FROM users WHERE username = ?`)
	if err != nil {
		return false, err
	}
	defer stmt.Close()

	var id int64
	if err := stmt.QueryRowContext(ctx, username).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateStudent inserts u with the role forced to STUDENT.
// Returns the created User with its generated ID, or ErrUsernameTaken when the
// username is already stored.
func (r *UserRepository) CreateStudent(ctx context.Context, u *models.User) (*models.User, error) {
	s := *u
	s.Role = models.RoleStudent
	return r.Create(ctx, &s)
}

// Create inserts a user with whatever role u carries.
func (r *UserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, userTimeout)
	defer cancel()

	stmt, err := prepare(ctx, r.db, `INSERT INTO users (username, password, first_name, last_name, email, role) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, u.Username, u.Password, u.FirstName, u.LastName, u.Email, string(u.Role))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *u
	out.ID = id
	return &out, nil
}

// Count returns the number of stored users.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, userTimeout)
	defer cancel()

	stmt, err := prepare(ctx, r.db, `SELECT COUNT(*) FROM users`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var n int
	if err := stmt.QueryRowContext(ctx).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// scanUser reads one users row. NULL text columns become empty strings.
func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var password, first, last, email, role sql.NullString
	if err := row.Scan(&u.ID, &u.Username, &password, &first, &last, &email, &role); err != nil {
		return nil, err
	}
	u.Password = password.String
	u.FirstName = first.String
	u.LastName = last.String
	u.Email = email.String
	u.Role = models.Role(role.String)
	return &u, nil
}
