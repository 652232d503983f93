// Package records implements the academic records operations: login,
// student registration and course enrollment. Every operation opens its own
// store handle, runs its statements and closes the handle before returning.
package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"academicRecords/internal/db"
	"academicRecords/models"
	"academicRecords/repository"
)

// Opener opens a fresh store handle. The caller owns and closes it.
type Opener func(ctx context.Context) (*sql.DB, error)

// DBOpener returns an Opener backed by db.Open with cfg.
func DBOpener(cfg db.Config) Opener {
	return func(ctx context.Context) (*sql.DB, error) {
		return db.Open(ctx, cfg)
	}
}

// Service runs records operations against the store reached through open.
type Service struct {
	open Opener
	log  *zap.Logger
}

// New creates a Service. A nil logger discards diagnostics.
func New(open Opener, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{open: open, log: log}
}

// withStore opens a handle, runs fn and closes the handle.
func (s *Service) withStore(ctx context.Context, op string, fn func(*sql.DB) error) error {
	d, err := s.open(ctx)
	if err != nil {
		s.log.Error("open store", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			s.log.Warn("close store", zap.String("op", op), zap.Error(err))
		}
	}()
	return fn(d)
}

// Authenticate returns the user whose username and password match exactly,
// or nil, nil when none does. A failure to reach or query the store is
// returned as ErrConnection or ErrQuery; callers that only report success or
// failure cannot tell it apart from bad credentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user *models.User
	err := s.withStore(ctx, "login", func(d *sql.DB) error {
		var users repository.UserRepositoryI = repository.NewUserRepository(d)
		u, err := users.Authenticate(ctx, username, password)
		if err != nil {
			return classify(err)
		}
		user = u
		return nil
	})
	if err != nil {
		s.log.Error("login failed", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	if user == nil {
		s.log.Info("login rejected", zap.String("username", username))
		return nil, nil
	}
	s.log.Info("login accepted", zap.String("username", username), zap.Int64("user_id", user.ID))
	return user, nil
}

// RegisterStudent creates a STUDENT account and returns its new ID.
// The username lookup is only a fast path; the users.username UNIQUE
// constraint decides conflicts, so two concurrent registrations of the same
// name yield exactly one success and one ErrUsernameExists.
// No field is validated; empty strings are stored as given.
func (s *Service) RegisterStudent(ctx context.Context, username, password, firstName, lastName, email string) (int64, error) {
	var id int64
	err := s.withStore(ctx, "register", func(d *sql.DB) error {
		var users repository.UserRepositoryI = repository.NewUserRepository(d)

		exists, err := users.Exists(ctx, username)
		if err != nil {
			return classify(err)
		}
		if exists {
			return ErrUsernameExists
		}

		u, err := users.CreateStudent(ctx, models.NewStudent(username, password, firstName, lastName, email))
		if err != nil {
			return classify(err)
		}
		id = u.ID
		return nil
	})
	switch {
	case errors.Is(err, ErrUsernameExists):
		s.log.Warn("register conflict", zap.String("username", username))
		return 0, err
	case err != nil:
		s.log.Error("register failed", zap.String("username", username), zap.Error(err))
		return 0, err
	}
	s.log.Info("student registered", zap.String("username", username), zap.Int64("student_id", id))
	return id, nil
}

// EnrollStudent records that studentID takes courseID. Enrolling a pair that
// already exists succeeds without change. Neither ID is checked against its
// parent table; a store that enforces foreign keys reports violations as
// ErrDatabase.
func (s *Service) EnrollStudent(ctx context.Context, studentID, courseID int64) error {
	err := s.withStore(ctx, "enroll", func(d *sql.DB) error {
		var enrollments repository.EnrollmentRepositoryI = repository.NewEnrollmentRepository(d)
		inserted, err := enrollments.Enroll(ctx, studentID, courseID)
		if err != nil {
			return classify(err)
		}
		s.log.Debug("enrollment stored",
			zap.Int64("student_id", studentID), zap.Int64("course_id", courseID), zap.Bool("inserted", inserted))
		return nil
	})
	if err != nil {
		s.log.Error("enroll failed",
			zap.Int64("student_id", studentID), zap.Int64("course_id", courseID), zap.Error(err))
	}
	return err
}

// Migrate applies pending schema migrations, or reverts the newest one when
// down is set. Reverting a baseline recorded over a pre-existing schema is
// refused and reported as ErrDatabase wrapping db.ErrBaseline.
func (s *Service) Migrate(ctx context.Context, down bool) error {
	err := s.withStore(ctx, "migrate", func(d *sql.DB) error {
		if down {
			return db.RollbackLast(ctx, d)
		}
		return db.Migrate(ctx, d)
	})
	if err != nil {
		s.log.Error("migrate failed", zap.Bool("down", down), zap.Error(err))
		if !errors.Is(err, ErrConnection) {
			return fmt.Errorf("%w: %w", ErrDatabase, err)
		}
	}
	return err
}

// MigrationStatus lists the migrations recorded in the store.
func (s *Service) MigrationStatus(ctx context.Context) ([]db.AppliedMigration, error) {
	var applied []db.AppliedMigration
	err := s.withStore(ctx, "migrate status", func(d *sql.DB) error {
		var err error
		applied, err = db.Applied(ctx, d)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDatabase, err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("migration status failed", zap.Error(err))
		return nil, err
	}
	return applied, nil
}
