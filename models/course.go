package models

// Course is a class students enroll in. No command creates courses; rows come
// from the existing store or from Seed.
// TeacherID is nullable in DB.
type Course struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	TeacherID *int64 `db:"teacher_id" json:"teacher_id,omitempty"`
}
