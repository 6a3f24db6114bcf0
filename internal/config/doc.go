// Package config loads runtime configuration for the SubControl CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-d string   database file path
//	-b string   backup directory
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "database_path": "subcontrol.db",
//	  "backup_dir": "backups",
//	  "key_alias": "subcontrol_backup_key",
//	  "log_level": "info",
//	  "s3_bucket": "subcontrol",
//	  "s3_region": "us-east-1",
//	  "s3_base_endpoint": "http://127.0.0.1:9000",
//	  "s3_access_key": "minio",
//	  "s3_secret_key": "minio123",
//	  "s3_prefix": "backups",
//	  "s3_timeout": "30s"
//	}
//
// S3 settings are optional; without s3_bucket only local backups are
// available.
package config
