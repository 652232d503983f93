package repository

import (
	"context"
	"fmt"
	"time"
)

const enrollmentTimeout = 3 * time.Second

type EnrollmentRepository struct {
	db Querier
}

func NewEnrollmentRepository(db Querier) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Enroll inserts the (userID, courseID) pair unless it already exists.
// inserted is false when the pair was already present; that is not an error.
// Neither ID is checked against its parent table.
func (r *EnrollmentRepository) Enroll(ctx context.Context, userID, courseID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, enrollmentTimeout)
	defer cancel()

	stmt, err := prepare(ctx, r.db, `INSERT OR IGNORE INTO enrollments (user_id, course_id) VALUES (?, ?)`)
	if err != nil {
		return false, err
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx, userID, courseID)
	if err != nil {
		return false, fmt.Errorf("insert enrollment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
