package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"academicRecords/internal/db"
)

// EnvPrefix prefixes every environment override, e.g. ACADEMIC_DATABASE_PATH.
const EnvPrefix = "ACADEMIC"

// DefaultConfigName is the config file looked up when none is given explicitly.
const DefaultConfigName = "academic"

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path        string `mapstructure:"path"`         // SQLite database file path
	BusyTimeout int    `mapstructure:"busy_timeout"` // seconds
	ForeignKeys bool   `mapstructure:"foreign_keys"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
	Timeout     int    `mapstructure:"timeout"` // seconds per command
}

// LogConfig contains diagnostic logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console, json
}

// Options controls where Load looks for settings.
type Options struct {
	// ConfigFile is an explicit YAML file. It must exist when set.
	ConfigFile string
	// SearchPath is the directory searched for academic.yaml when ConfigFile is empty.
	SearchPath string
	// EnvFile is loaded into the process environment if present. Defaults to ".env".
	EnvFile string
	// Flags, when set, override file and environment values for the flags the
	// user actually passed.
	Flags *pflag.FlagSet
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"db":           "database.path",
	"auto-migrate": "database.auto_migrate",
	"log-level":    "log.level",
}

// Load resolves configuration from, lowest precedence first: defaults, the
// config file, the environment (after loading .env) and command-line flags.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.ConfigFile, err)
		}
	} else {
		search := opts.SearchPath
		if search == "" {
			search = "."
		}
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(search)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag --%s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        db.DefaultPath,
			BusyTimeout: 5,
			ForeignKeys: false,
			AutoMigrate: true,
			Timeout:     5,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.busy_timeout", d.Database.BusyTimeout)
	v.SetDefault("database.foreign_keys", d.Database.ForeignKeys)
	v.SetDefault("database.auto_migrate", d.Database.AutoMigrate)
	v.SetDefault("database.timeout", d.Database.Timeout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Validate checks the configuration for values the rest of the program cannot use.
func (c *Config) Validate() error {
	var errs []string
	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, "database.path is required")
	}
	if c.Database.BusyTimeout < 0 {
		errs = append(errs, "database.busy_timeout must be >= 0")
	}
	if c.Database.Timeout <= 0 {
		errs = append(errs, "database.timeout must be > 0")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format %q is not one of console, json", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// DB converts the database section into the storage handle's configuration.
func (c *Config) DB() db.Config {
	return db.Config{
		Path:        c.Database.Path,
		BusyTimeout: c.Database.BusyTimeout,
		ForeignKeys: c.Database.ForeignKeys,
		AutoMigrate: c.Database.AutoMigrate,
	}
}

// OperationTimeout bounds a single command's storage work.
func (c *Config) OperationTimeout() time.Duration {
	return time.Duration(c.Database.Timeout) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s, migrate: %t, fk: %t, log: %s/%s}",
		c.Database.Path, c.Database.AutoMigrate, c.Database.ForeignKeys, c.Log.Level, c.Log.Format)
}
