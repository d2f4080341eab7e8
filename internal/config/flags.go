package config

import (
	"io"

	"github.com/spf13/pflag"
)

// parseFlags overlays cfg with command-line flags. Flags not given keep the
// value from earlier sources. -c/--config is accepted and ignored here.
//
//	-d, --data-dir string         data directory
//	    --backup-dir string       backup directory
//	    --log-level string        debug, info, warn or error
//	    --log-format string       text or json
//	    --gen-length int          default length of generated passwords
//	    --gen-symbols             include symbols in generated passwords
//	    --s3-bucket string        mirror bucket, empty disables the mirror
//	    --s3-prefix string        key prefix inside the bucket
//	    --s3-region string        bucket region
//	    --s3-endpoint string      custom endpoint (MinIO and friends)
//	    --s3-access-key string    static access key
//	    --s3-secret-key string    static secret key
//	    --s3-timeout duration     upload timeout
func parseFlags(cfg *Config, args []string) error {
	fs := pflag.NewFlagSet("pwvault", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringP("config", "c", "", "path to config file (JSON or YAML)")
	fs.StringVarP(&cfg.DataDir, "data-dir", "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.BackupDir, "backup-dir", cfg.BackupDir, "backup directory (default <data-dir>/backups)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")
	fs.IntVar(&cfg.GeneratorLength, "gen-length", cfg.GeneratorLength, "default length of generated passwords")
	fs.BoolVar(&cfg.GeneratorSymbols, "gen-symbols", cfg.GeneratorSymbols, "include symbols in generated passwords")
	fs.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "bucket receiving a copy of every export")
	fs.StringVar(&cfg.S3Prefix, "s3-prefix", cfg.S3Prefix, "object key prefix")
	fs.StringVar(&cfg.S3Region, "s3-region", cfg.S3Region, "bucket region")
	fs.StringVar(&cfg.S3BaseEndpoint, "s3-endpoint", cfg.S3BaseEndpoint, "custom S3 endpoint")
	fs.StringVar(&cfg.S3AccessKey, "s3-access-key", cfg.S3AccessKey, "S3 access key")
	fs.StringVar(&cfg.S3SecretKey, "s3-secret-key", cfg.S3SecretKey, "S3 secret key")
	fs.DurationVar(&cfg.S3UploadTimeout, "s3-timeout", cfg.S3UploadTimeout, "S3 upload timeout")

	return fs.Parse(args)
}
