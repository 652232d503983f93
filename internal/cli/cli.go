// Package cli is the command dispatcher: it parses global flags and the
// command line, runs one records operation and renders its fixed-format
// result on stdout with a matching exit code.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"academicRecords/internal/config"
	"academicRecords/internal/logging"
	"academicRecords/internal/records"
)

// Process exit codes.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitUsernameExists = 2
)

// Main runs the program with the process arguments and standard streams.
func Main() int {
	return Run(context.Background(), os.Args, os.Stdout, os.Stderr)
}

// Run executes one command. argv[0] is the program name. It never panics on
// bad input; every outcome is an exit code plus text on stdout or stderr.
func Run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	prog := "academic"
	if len(argv) > 0 {
		prog = filepath.Base(argv[0])
		argv = argv[1:]
	}

	fs := newFlagSet(prog, stderr)
	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printUsage(stdout, prog, fs)
			return ExitOK
		}
		fmt.Fprintf(stderr, "%v\n", err)
		printUsage(stderr, prog, fs)
		return ExitFailure
	}

	rest := fs.Args()
	if len(rest) == 0 {
		printUsage(stderr, prog, fs)
		return ExitFailure
	}

	name, args := rest[0], rest[1:]
	if name == "help" {
		printUsage(stdout, prog, fs)
		return ExitOK
	}
	cmd, ok := lookup(name)
	if !ok {
		fmt.Fprintf(stderr, "unknown command: %s\n", name)
		printUsage(stderr, prog, fs)
		return ExitFailure
	}
	if err := cmd.check(args); err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		fmt.Fprintf(stderr, "Usage: %s %s\n", prog, cmd.synopsis())
		return ExitFailure
	}

	configFile, _ := fs.GetString("config")
	cfg, err := config.Load(config.Options{ConfigFile: configFile, Flags: fs})
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return ExitFailure
	}

	log := logging.New(cfg.Log, stderr).With(zap.String("command", cmd.name))
	defer func() { _ = log.Sync() }()
	log.Debug("configuration loaded", zap.Stringer("config", cfg))

	ctx, cancel := context.WithTimeout(ctx, cfg.OperationTimeout())
	defer cancel()

	svc := records.New(records.DBOpener(cfg.DB()), log)
	return cmd.run(ctx, svc, args, stdout)
}

func newFlagSet(prog string, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(prog, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	// Stop at the command name so credentials starting with '-' reach the command.
	fs.SetInterspersed(false)
	fs.Usage = func() {}
	fs.String("db", "", "path to the SQLite database file (default \"academic_system.db\")")
	fs.String("config", "", "YAML config file (default ./academic.yaml if present)")
	fs.String("log-level", "", "diagnostic log level: debug, info, warn, error")
	fs.Bool("auto-migrate", true, "apply pending schema migrations when opening the store")
	return fs
}

func printUsage(w io.Writer, prog string, fs *pflag.FlagSet) {
	fmt.Fprintf(w, "Usage: %s [flags] <command> [arguments]\n\nCommands:\n", prog)
	for _, c := range commands {
		fmt.Fprintf(w, "  %s\n", c.synopsis())
	}
	fmt.Fprintf(w, "  help\n\nFlags:\n%s", fs.FlagUsages())
}

// synopsis renders "name <arg> ..." for usage text.
func (c command) synopsis() string {
	if len(c.usage) == 0 {
		return c.name
	}
	return c.name + " " + strings.Join(c.usage, " ")
}
