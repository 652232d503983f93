package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

// isolate points Load at an empty directory so no stray academic.yaml or .env
// from the working tree leaks into the test.
func isolate(t *testing.T) Options {
	t.Helper()
	dir := t.TempDir()
	for _, k := range []string{"DATABASE_PATH", "DATABASE_BUSY_TIMEOUT", "DATABASE_FOREIGN_KEYS",
		"DATABASE_AUTO_MIGRATE", "DATABASE_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(EnvPrefix+"_"+k, "")
		os.Unsetenv(EnvPrefix + "_" + k)
	}
	return Options{SearchPath: dir, EnvFile: filepath.Join(dir, ".env")}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(isolate(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != "academic_system.db" {
		t.Fatalf("default path = %q", cfg.Database.Path)
	}
	if !cfg.Database.AutoMigrate || cfg.Database.ForeignKeys {
		t.Fatalf("unexpected database defaults: %+v", cfg.Database)
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "console" {
		t.Fatalf("unexpected log defaults: %+v", cfg.Log)
	}
	if cfg.OperationTimeout().Seconds() != 5 {
		t.Fatalf("operation timeout = %v", cfg.OperationTimeout())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	opts := isolate(t)
	t.Setenv("ACADEMIC_DATABASE_PATH", "/tmp/other.db")
	t.Setenv("ACADEMIC_DATABASE_FOREIGN_KEYS", "true")
	t.Setenv("ACADEMIC_LOG_LEVEL", "debug")

	cfg, err := Load(opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != "/tmp/other.db" || !cfg.Database.ForeignKeys || cfg.Log.Level != "debug" {
		t.Fatalf("env overrides not applied: %s", cfg)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	opts := isolate(t)
	if err := os.WriteFile(opts.EnvFile, []byte("ACADEMIC_DATABASE_PATH=from-dotenv.db\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("ACADEMIC_DATABASE_PATH") })

	cfg, err := Load(opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != "from-dotenv.db" {
		t.Fatalf("path = %q, want from-dotenv.db", cfg.Database.Path)
	}
}

func TestLoad_ConfigFileAndFlags(t *testing.T) {
	opts := isolate(t)
	file := filepath.Join(opts.SearchPath, "academic.yaml")
	yaml := "database:\n  path: from-file.db\n  auto_migrate: false\nlog:\n  format: json\n"
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Path != "from-file.db" || cfg.Database.AutoMigrate || cfg.Log.Format != "json" {
		t.Fatalf("config file not applied: %s", cfg)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("db", "", "")
	fs.Bool("auto-migrate", true, "")
	fs.String("log-level", "", "")
	if err := fs.Parse([]string{"--db", "from-flag.db"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	opts.Flags = fs
	cfg, err = Load(opts)
	if err != nil {
		t.Fatalf("Load with flags: %v", err)
	}
	if cfg.Database.Path != "from-flag.db" {
		t.Fatalf("flag did not override file: %q", cfg.Database.Path)
	}
	// Unset flags must not clobber file values with their defaults.
	if cfg.Database.AutoMigrate || cfg.Log.Level != "warn" {
		t.Fatalf("unset flags overrode settings: %s", cfg)
	}
}

func TestLoad_ExplicitConfigMissing(t *testing.T) {
	opts := isolate(t)
	opts.ConfigFile = filepath.Join(opts.SearchPath, "missing.yaml")
	if _, err := Load(opts); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty path", func(c *Config) { c.Database.Path = " " }, "database.path"},
		{"negative busy timeout", func(c *Config) { c.Database.BusyTimeout = -1 }, "busy_timeout"},
		{"zero timeout", func(c *Config) { c.Database.Timeout = 0 }, "database.timeout"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestDBConversion(t *testing.T) {
	c := Default()
	c.Database.Path = "x.db"
	c.Database.ForeignKeys = true
	d := c.DB()
	if d.Path != "x.db" || !d.ForeignKeys || !d.AutoMigrate || d.BusyTimeout != 5 {
		t.Fatalf("unexpected db config: %+v", d)
	}
}
