package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/subcontrol/internal/flagx"
	"github.com/dmitrijs2005/subcontrol/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. S3Timeout
// accepts "30s" or integer nanoseconds via timex.Duration.
type JsonConfig struct {
	DatabasePath string `json:"database_path"`
	BackupDir    string `json:"backup_dir"`
	KeyAlias     string `json:"key_alias"`
	LogLevel     string `json:"log_level"`

	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint"`
	S3AccessKey    string         `json:"s3_access_key"`
	S3SecretKey    string         `json:"s3_secret_key"`
	S3Prefix       string         `json:"s3_prefix"`
	S3Timeout      timex.Duration `json:"s3_timeout"`
}

// parseJson overlays cfg with the file named by -c/-config. Keys missing
// from the file keep their current value.
func parseJson(cfg *Config) error {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.BackupDir, jc.BackupDir)
	setString(&cfg.KeyAlias, jc.KeyAlias)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.S3Prefix, jc.S3Prefix)
	if jc.S3Timeout.Duration > 0 {
		cfg.S3Timeout = jc.S3Timeout.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
