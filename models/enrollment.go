package models

// Enrollment associates a user with a course.
// The (user_id, course_id) pair is unique in the `enrollments` table.
type Enrollment struct {
	UserID   int64 `db:"user_id" json:"user_id"`
	CourseID int64 `db:"course_id" json:"course_id"`
}
