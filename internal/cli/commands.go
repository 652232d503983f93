package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"academicRecords/internal/records"
)

type command struct {
	name    string
	usage   []string
	minArgs int
	maxArgs int
	// validate inspects arguments before any storage is touched.
	validate func(args []string) error
	run      func(ctx context.Context, svc *records.Service, args []string, out io.Writer) int
}

var commands = []command{
	{
		name:    "login",
		usage:   []string{"<username>", "<password>"},
		minArgs: 2,
		maxArgs: 2,
		run:     runLogin,
	},
	{
		name:    "register",
		usage:   []string{"<username>", "<password>", "<first_name>", "<last_name>", "<email>"},
		minArgs: 5,
		maxArgs: 5,
		run:     runRegister,
	},
	{
		name:    "enroll",
		usage:   []string{"<student_id>", "<course_id>"},
		minArgs: 2,
		maxArgs: 2,
		validate: func(args []string) error {
			_, _, err := parseIDs(args)
			return err
		},
		run: runEnroll,
	},
	{
		name:    "migrate",
		usage:   []string{"[up|down|status]"},
		minArgs: 0,
		maxArgs: 1,
		validate: func(args []string) error {
			if len(args) == 0 {
				return nil
			}
			switch args[0] {
			case "up", "down", "status":
				return nil
			}
			return fmt.Errorf("migrate: direction must be up, down or status, got %q", args[0])
		},
		run: runMigrate,
	},
	{
		name: "seed",
		run:  runSeed,
	},
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// check enforces the argument count and the command's own validation.
func (c command) check(args []string) error {
	if len(args) < c.minArgs || len(args) > c.maxArgs {
		return fmt.Errorf("%s: expected %s, got %d", c.name, argCount(c.minArgs, c.maxArgs), len(args))
	}
	if c.validate != nil {
		return c.validate(args)
	}
	return nil
}

func argCount(min, max int) string {
	switch {
	case min == max && min == 1:
		return "1 argument"
	case min == max:
		return fmt.Sprintf("%d arguments", min)
	default:
		return fmt.Sprintf("%d to %d arguments", min, max)
	}
}

func parseIDs(args []string) (studentID, courseID int64, err error) {
	studentID, err = strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("enroll: student_id must be an integer, got %q", args[0])
	}
	courseID, err = strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("enroll: course_id must be an integer, got %q", args[1])
	}
	return studentID, courseID, nil
}

func runLogin(ctx context.Context, svc *records.Service, args []string, out io.Writer) int {
	u, err := svc.Authenticate(ctx, args[0], args[1])
	if err != nil || u == nil {
		fmt.Fprintln(out, "LOGIN_FAILED")
		return ExitFailure
	}
	fmt.Fprintln(out, "LOGIN_SUCCESS")
	fmt.Fprintf(out, "USER_ID:%d\n", u.ID)
	fmt.Fprintf(out, "USERNAME:%s\n", u.Username)
	fmt.Fprintf(out, "FIRST_NAME:%s\n", u.FirstName)
	fmt.Fprintf(out, "LAST_NAME:%s\n", u.LastName)
	fmt.Fprintf(out, "EMAIL:%s\n", u.Email)
	fmt.Fprintf(out, "ROLE:%s\n", u.Role)
	return ExitOK
}

func runRegister(ctx context.Context, svc *records.Service, args []string, out io.Writer) int {
	id, err := svc.RegisterStudent(ctx, args[0], args[1], args[2], args[3], args[4])
	switch {
	case errors.Is(err, records.ErrUsernameExists):
		fmt.Fprintln(out, "REGISTER_FAILED:USERNAME_EXISTS")
		return ExitUsernameExists
	case err != nil:
		fmt.Fprintln(out, "REGISTER_FAILED:DATABASE_ERROR")
		return ExitFailure
	}
	fmt.Fprintln(out, "REGISTER_SUCCESS")
	fmt.Fprintf(out, "STUDENT_ID:%d\n", id)
	return ExitOK
}

func runEnroll(ctx context.Context, svc *records.Service, args []string, out io.Writer) int {
	studentID, courseID, _ := parseIDs(args)
	if err := svc.EnrollStudent(ctx, studentID, courseID); err != nil {
		fmt.Fprintln(out, "ENROLL_FAILED")
		return ExitFailure
	}
	fmt.Fprintln(out, "ENROLL_SUCCESS")
	return ExitOK
}

func runMigrate(ctx context.Context, svc *records.Service, args []string, out io.Writer) int {
	if len(args) == 1 && args[0] == "status" {
		return runMigrateStatus(ctx, svc, out)
	}
	down := len(args) == 1 && args[0] == "down"
	if err := svc.Migrate(ctx, down); err != nil {
		fmt.Fprintln(out, "MIGRATE_FAILED")
		return ExitFailure
	}
	fmt.Fprintln(out, "MIGRATE_SUCCESS")
	return ExitOK
}

// runMigrateStatus prints one APPLIED line per recorded migration, with a
// BASELINE suffix for versions recorded over a pre-existing schema.
func runMigrateStatus(ctx context.Context, svc *records.Service, out io.Writer) int {
	applied, err := svc.MigrationStatus(ctx)
	if err != nil {
		fmt.Fprintln(out, "MIGRATE_FAILED")
		return ExitFailure
	}
	fmt.Fprintln(out, "MIGRATE_SUCCESS")
	for _, a := range applied {
		if a.Baseline {
			fmt.Fprintf(out, "APPLIED:%04d:BASELINE\n", a.Version)
			continue
		}
		fmt.Fprintf(out, "APPLIED:%04d\n", a.Version)
	}
	return ExitOK
}

func runSeed(ctx context.Context, svc *records.Service, _ []string, out io.Writer) int {
	seeded, err := svc.Seed(ctx)
	if err != nil {
		fmt.Fprintln(out, "SEED_FAILED")
		return ExitFailure
	}
	fmt.Fprintln(out, "SEED_SUCCESS")
	fmt.Fprintf(out, "SEEDED:%t\n", seeded)
	return ExitOK
}
