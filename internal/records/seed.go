package records

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"academicRecords/models"
	"academicRecords/repository"
)

// samplePassword is shared by every sample account.
const samplePassword = "pass123"

var sampleUsers = []models.User{
	{Username: "teacher1", FirstName: "Maria", LastName: "Silva", Email: "maria.silva@email.com", Role: models.RoleTeacher},
	{Username: "student1", FirstName: "João", LastName: "Santos", Email: "joao.santos@email.com", Role: models.RoleStudent},
	{Username: "student2", FirstName: "Ana", LastName: "Costa", Email: "ana.costa@email.com", Role: models.RoleStudent},
	{Username: "coordinator1", FirstName: "Carlos", LastName: "Lima", Email: "carlos.lima@email.com", Role: models.RoleCoordinator},
	{Username: "secretary1", FirstName: "Paula", LastName: "Ferreira", Email: "paula.ferreira@email.com", Role: models.RoleSecretary},
	{Username: "director1", FirstName: "Roberto", LastName: "Oliveira", Email: "roberto.oliveira@email.com", Role: models.RoleDirector},
}

var sampleCourses = []string{"Mathematics I", "Programming Fundamentals", "Data Structures"}

// sampleEnrollments pairs a username with course indexes into sampleCourses.
var sampleEnrollments = []struct {
	username string
	courses  []int
}{
	{"student1", []int{0, 1}},
	{"student2", []int{0, 2}},
}

// Seed fills an empty store with sample accounts, courses taught by teacher1
// and a few enrollments. It does nothing and returns false when any user
// already exists. All rows are written in one transaction.
func (s *Service) Seed(ctx context.Context) (bool, error) {
	var seeded bool
	err := s.withStore(ctx, "seed", func(d *sql.DB) error {
		tx, err := d.BeginTx(ctx, nil)
		if err != nil {
			return classify(err)
		}
		defer func() { _ = tx.Rollback() }()

		seeded, err = seedTx(ctx,
			repository.NewUserRepository(tx),
			repository.NewCourseRepository(tx),
			repository.NewEnrollmentRepository(tx))
		if err != nil {
			return classify(err)
		}
		return classify(tx.Commit())
	})
	if err != nil {
		s.log.Error("seed failed", zap.Error(err))
		return false, err
	}
	s.log.Info("seed finished", zap.Bool("seeded", seeded))
	return seeded, nil
}

func seedTx(ctx context.Context, users repository.UserRepositoryI,
	courses repository.CourseRepositoryI, enrollments repository.EnrollmentRepositoryI) (bool, error) {
	n, err := users.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	ids := make(map[string]int64, len(sampleUsers))
	for _, u := range sampleUsers {
		u.Password = samplePassword
		created, err := users.Create(ctx, &u)
		if err != nil {
			return false, fmt.Errorf("seed user %s: %w", u.Username, err)
		}
		ids[u.Username] = created.ID
	}

	teacher := ids["teacher1"]
	courseIDs := make([]int64, len(sampleCourses))
	for i, name := range sampleCourses {
		c, err := courses.Create(ctx, &models.Course{Name: name, TeacherID: &teacher})
		if err != nil {
			return false, fmt.Errorf("seed course %s: %w", name, err)
		}
		courseIDs[i] = c.ID
	}

	for _, e := range sampleEnrollments {
		for _, idx := range e.courses {
			if _, err := enrollments.Enroll(ctx, ids[e.username], courseIDs[idx]); err != nil {
				return false, fmt.Errorf("seed enrollment %s: %w", e.username, err)
			}
		}
	}
	return true, nil
}
