package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/pwvault/internal/timex"
	"gopkg.in/yaml.v2"
)

// FileConfig is a DTO used only for decoding config files. Pointer fields
// tell an absent key from a zero value, so absent keys keep their defaults.
// Durations accept "30s" or integer nanoseconds.
type FileConfig struct {
	DataDir          *string         `json:"data_dir" yaml:"data_dir"`
	BackupDir        *string         `json:"backup_dir" yaml:"backup_dir"`
	LogLevel         *string         `json:"log_level" yaml:"log_level"`
	LogFormat        *string         `json:"log_format" yaml:"log_format"`
	GeneratorLength  *int            `json:"generator_length" yaml:"generator_length"`
	GeneratorSymbols *bool           `json:"generator_symbols" yaml:"generator_symbols"`
	S3Bucket         *string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Prefix         *string         `json:"s3_prefix" yaml:"s3_prefix"`
	S3Region         *string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint   *string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3AccessKey      *string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey      *string         `json:"s3_secret_key" yaml:"s3_secret_key"`
	S3UploadTimeout  *timex.Duration `json:"s3_upload_timeout" yaml:"s3_upload_timeout"`
}

// parseFile overlays cfg with the values present in the file at path. Files
// ending in .yaml or .yml are YAML, everything else is JSON.
func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.UnmarshalStrict(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.DataDir, fc.DataDir)
	setString(&cfg.BackupDir, fc.BackupDir)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	if fc.GeneratorLength != nil {
		cfg.GeneratorLength = *fc.GeneratorLength
	}
	if fc.GeneratorSymbols != nil {
		cfg.GeneratorSymbols = *fc.GeneratorSymbols
	}
	setString(&cfg.S3Bucket, fc.S3Bucket)
	setString(&cfg.S3Prefix, fc.S3Prefix)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, fc.S3AccessKey)
	setString(&cfg.S3SecretKey, fc.S3SecretKey)
	if fc.S3UploadTimeout != nil {
		cfg.S3UploadTimeout = fc.S3UploadTimeout.Duration
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
