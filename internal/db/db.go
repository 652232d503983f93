package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultPath is the store file name used by the desktop application.
const DefaultPath = "academic_system.db"

const (
	msPerSecond    = 1000
	pingTimeout    = 5 * time.Second
	defaultTimeout = 5
)

// Config contains the settings needed to open the store.
type Config struct {
	Path        string // SQLite database file path
	BusyTimeout int    // seconds to wait on a locked database
	ForeignKeys bool   // enforce FOREIGN KEY clauses, if the schema has any
	AutoMigrate bool   // apply pending migrations on open
}

// DSN builds the go-sqlite3 connection string for cfg.
// Plain paths are passed through untouched; go-sqlite3 splits its own options
// at the first '?', so a path containing one is sent as an escaped file: URI.
// A path that already starts with "file:" is taken as a URI as given.
func (c Config) DSN() string {
	path := c.Path
	if path == "" {
		path = DefaultPath
	}
	busy := c.BusyTimeout
	if busy < 0 {
		busy = defaultTimeout
	}
	fk := "off"
	if c.ForeignKeys {
		fk = "on"
	}
	if !strings.HasPrefix(path, "file:") && strings.Contains(path, "?") {
		path = "file:" + (&url.URL{Path: path}).EscapedPath()
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	// _txlock=immediate takes the write lock at BEGIN so concurrent processes
	// wait on busy_timeout instead of failing on lock upgrade.
	return fmt.Sprintf("%s%s_busy_timeout=%d&_foreign_keys=%s&_txlock=immediate", path, sep, busy*msPerSecond, fk)
}

// Open opens (or creates) the SQLite database file described by cfg.
// When cfg.AutoMigrate is set, pending migrations under internal/db/migrations
// are applied. They follow the pattern:
//
//	0001_name.up.sql / 0001_name.down.sql
//
// Use RollbackLast to revert the last applied migration.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	d, err := sql.Open("sqlite3", cfg.DSN())
	if err != nil {
		return nil, err
	}
	// One logical operation per process; a single connection is all we need.
	d.SetMaxOpenConns(1)

	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := d.PingContext(pctx); err != nil {
		_ = d.Close()
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := Migrate(ctx, d); err != nil {
			_ = d.Close()
			return nil, err
		}
	}
	return d, nil
}

// ErrBaseline is returned by RollbackLast when the newest migration was
// recorded against tables that already existed. Reverting it would drop
// tables this tool never created.
var ErrBaseline = errors.New("migration is a baseline of an existing schema")

// AppliedMigration is one row of schema_migrations.
type AppliedMigration struct {
	Version  int
	Baseline bool // recorded without running, the tables already existed
}

// Migrate applies every embedded migration that is not yet recorded in
// schema_migrations, in version order.
func Migrate(ctx context.Context, d *sql.DB) error {
	if d == nil {
		return errors.New("nil db")
	}
	migs, err := loadMigrations()
	if err != nil {
		return err
	}
	applied, err := Applied(ctx, d)
	if err != nil {
		return err
	}
	done := make(map[int]bool, len(applied))
	for _, a := range applied {
		done[a.Version] = true
	}
	for _, m := range migs {
		if done[m.version] {
			continue
		}
		if m.upFile == "" {
			return fmt.Errorf("missing up migration for version %04d", m.version)
		}
		if err := applyUp(ctx, d, m); err != nil {
			return fmt.Errorf("migration %04d failed: %w", m.version, err)
		}
	}
	return nil
}

// RollbackLast reverts the most recently applied migration. It refuses with
// ErrBaseline when that migration only recorded a pre-existing schema.
func RollbackLast(ctx context.Context, d *sql.DB) error {
	if d == nil {
		return errors.New("nil db")
	}
	applied, err := Applied(ctx, d)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		return nil
	}
	last := applied[len(applied)-1]
	if last.Baseline {
		return fmt.Errorf("%w: version %04d", ErrBaseline, last.Version)
	}
	migs, err := loadMigrations()
	if err != nil {
		return err
	}
	var downFile string
	for _, m := range migs {
		if m.version == last.Version {
			downFile = m.downFile
		}
	}
	if downFile == "" {
		return fmt.Errorf("no down migration found for version %04d", last.Version)
	}
	text, err := migrationsFS.ReadFile(downFile)
	if err != nil {
		return err
	}

	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, string(text)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = ?`, last.Version); err != nil {
		return err
	}
	return tx.Commit()
}

// Applied returns the recorded migrations in ascending version order.
func Applied(ctx context.Context, d *sql.DB) ([]AppliedMigration, error) {
	if err := ensureMigrationsTable(ctx, d); err != nil {
		return nil, err
	}
	rows, err := d.QueryContext(ctx, `SELECT version, baseline FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AppliedMigration
	for rows.Next() {
		var a AppliedMigration
		if err := rows.Scan(&a.Version, &a.Baseline); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

//go:embed migrations/*.sql
var migrationsFS embed.FS

type migration struct {
	version  int
	upFile   string // path inside embedded FS
	downFile string
}

var (
	migFileRe  = regexp.MustCompile(`^([0-9]{4})_.+\.(up|down)\.sql$`)
	baselineRe = regexp.MustCompile(`(?m)^--\s*baseline-if-exists:\s*(\w+)\s*$`)
)

// loadMigrations lists the embedded migrations ordered by version.
func loadMigrations() ([]migration, error) {
	list, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}
	byVersion := map[int]*migration{}
	for _, de := range list {
		parts := migFileRe.FindStringSubmatch(de.Name())
		if parts == nil {
			continue
		}
		ver, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, err
		}
		m, ok := byVersion[ver]
		if !ok {
			m = &migration{version: ver}
			byVersion[ver] = m
		}
		if parts[2] == "up" {
			m.upFile = "migrations/" + de.Name()
		} else {
			m.downFile = "migrations/" + de.Name()
		}
	}
	out := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

func ensureMigrationsTable(ctx context.Context, d *sql.DB) error {
	_, err := d.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
        version INTEGER PRIMARY KEY,
        applied_at TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP),
        baseline INTEGER NOT NULL DEFAULT 0
    )`)
	return err
}

// applyUp runs one up script and records it in the same transaction.
// The version is rechecked under the transaction's write lock, so a process
// that applied it first turns this run into a no-op. A script declaring
// "-- baseline-if-exists: <table>" is only recorded, as a baseline, when that
// table is already present.
func applyUp(ctx context.Context, d *sql.DB, m migration) error {
	text, err := migrationsFS.ReadFile(m.upFile)
	if err != nil {
		return err
	}
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, m.version).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	baseline := false
	if parts := baselineRe.FindStringSubmatch(string(text)); parts != nil {
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, parts[1]).Scan(&n); err != nil {
			return err
		}
		baseline = n > 0
	}
	if !baseline {
		if _, err := tx.ExecContext(ctx, string(text)); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, baseline) VALUES (?, ?)`, m.version, baseline); err != nil {
		return err
	}
	return tx.Commit()
}
