// Package config loads runtime settings: defaults first, then an optional
// JSON or YAML file, then command-line flags. Later sources win.
package config

import (
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/pwvault/internal/common"
	"github.com/dmitrijs2005/pwvault/internal/flagx"
	"github.com/dmitrijs2005/pwvault/internal/strength"
)

// Config holds runtime settings for the vault CLI.
//
// Fields:
//   - DataDir: root of the on-disk state; record files live in DataDir/users.
//   - BackupDir: managed backup directory, DataDir/backups when empty.
//   - LogLevel, LogFormat: slog level name and "text" or "json".
//   - GeneratorLength, GeneratorSymbols: defaults of the "generate" command.
//   - S3*: optional off-site mirror of exported backups; disabled without a bucket.
type Config struct {
	DataDir          string
	BackupDir        string
	LogLevel         string
	LogFormat        string
	GeneratorLength  int
	GeneratorSymbols bool

	S3Bucket        string
	S3Prefix        string
	S3Region        string
	S3BaseEndpoint  string
	S3AccessKey     string
	S3SecretKey     string
	S3UploadTimeout time.Duration
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "data"
	c.BackupDir = ""
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.GeneratorLength = strength.DefaultGeneratedLength
	c.GeneratorSymbols = true
	c.S3UploadTimeout = 30 * time.Second
}

// UsersDir returns the directory holding user record files.
func (c *Config) UsersDir() string {
	return filepath.Join(c.DataDir, common.UsersDirName)
}

// BackupsDir returns the managed backup directory.
func (c *Config) BackupsDir() string {
	if c.BackupDir != "" {
		return c.BackupDir
	}
	return filepath.Join(c.DataDir, common.BackupsDirName)
}

// MirrorEnabled reports whether exported backups are copied to S3.
func (c *Config) MirrorEnabled() bool {
	return c.S3Bucket != ""
}

// LoadConfig builds a Config from defaults, the file named by -c/--config
// and the remaining flags in args (usually os.Args[1:]).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path := flagx.ConfigFileFlag(args); path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
