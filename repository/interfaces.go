package repository

import (
	"context"
	"database/sql"

	"academicRecords/models"
)

// Querier is the subset of *sql.DB and *sql.Tx the repositories need, so the
// same repository can run standalone or inside a transaction.
type Querier interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	Exists(ctx context.Context, username string) (bool, error)
	CreateStudent(ctx context.Context, u *models.User) (*models.User, error)
	Create(ctx context.Context, u *models.User) (*models.User, error)
	Count(ctx context.Context) (int, error)
}

// EnrollmentRepositoryI defines operations on Enrollment entities.
type EnrollmentRepositoryI interface {
	Enroll(ctx context.Context, userID, courseID int64) (bool, error)
}

// CourseRepositoryI defines operations on Course entities.
type CourseRepositoryI interface {
	Create(ctx context.Context, c *models.Course) (*models.Course, error)
}

var (
	_ UserRepositoryI       = (*UserRepository)(nil)
	_ EnrollmentRepositoryI = (*EnrollmentRepository)(nil)
	_ CourseRepositoryI     = (*CourseRepository)(nil)
)
