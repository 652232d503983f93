package repository

import (
	"context"
	"time"

	"academicRecords/models"
)

type CourseRepository struct {
	db Querier
}

func NewCourseRepository(db Querier) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a course. Returns the created Course with its generated ID.
func (r *CourseRepository) Create(ctx context.Context, c *models.Course) (*models.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	stmt, err := prepare(ctx, r.db, `INSERT INTO courses (name, teacher_id) VALUES (?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var teacher any
	if c.TeacherID != nil {
		teacher = *c.TeacherID
	}
	res, err := stmt.ExecContext(ctx, c.Name, teacher)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out := *c
	out.ID = id
	return &out, nil
}
