package models

// Role is the account kind stored in users.role.
// Only RoleStudent is ever written by registration; the others exist in
// stores bootstrapped by the desktop application and by Seed.
type Role string

const (
	RoleStudent     Role = "STUDENT"
	RoleTeacher     Role = "TEACHER"
	RoleCoordinator Role = "COORDINATOR"
	RoleSecretary   Role = "SECRETARY"
	RoleDirector    Role = "DIRECTOR"
)

// NewStudent builds a student user with Role preset to STUDENT.
func NewStudent(username, password, firstName, lastName, email string) *User {
	return &User{
		Username:  username,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Role:      RoleStudent,
	}
}
