package config

import (
	"time"

	"github.com/dmitrijs2005/subcontrol/internal/location"
)

// Config holds runtime settings for the SubControl CLI.
//
// Fields:
//   - DatabasePath: SQLite file holding subscriptions and the device key.
//   - BackupDir: directory that local backups are written to.
//   - KeyAlias: key store alias of the backup encryption key.
//   - LogLevel: debug, info, warn or error.
//   - S3*: optional S3-compatible bucket for "backup s3" and "s3:" sources.
type Config struct {
	DatabasePath string
	BackupDir    string
	KeyAlias     string
	LogLevel     string

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	S3Prefix       string
	S3Timeout      time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "subcontrol.db"
	c.BackupDir = "backups"
	c.KeyAlias = "subcontrol_backup_key"
	c.LogLevel = "warn"
	c.S3Region = "us-east-1"
	c.S3Prefix = "subcontrol"
	c.S3Timeout = 30 * time.Second
}

// S3Enabled reports whether a bucket is configured.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

// S3 returns the bucket settings for the location package.
func (c *Config) S3() location.S3Config {
	return location.S3Config{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		Prefix:       c.S3Prefix,
		Timeout:      c.S3Timeout,
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
