package backup

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/pwvault/internal/common"
	"github.com/dmitrijs2005/pwvault/internal/logging"
)

// Mirror copies an exported container to off-site storage.
type Mirror interface {
	// Upload stores the file at localPath and returns its remote location.
	Upload(ctx context.Context, localPath string) (string, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Config configures S3Mirror. Empty credentials fall back to the default
// AWS credential chain.
type S3Config struct {
	Bucket       string
	Prefix       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	Timeout      time.Duration
}

// S3Mirror uploads containers to an S3 compatible bucket under
// <prefix>/<file name>.
type S3Mirror struct {
	client  objectPutter
	bucket  string
	prefix  string
	timeout time.Duration
	log     logging.Logger
}

// NewS3Mirror builds the S3 client described by cfg.
func NewS3Mirror(ctx context.Context, cfg S3Config, log logging.Logger) (*S3Mirror, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 mirror: bucket is required")
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3 mirror: load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Mirror{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  strings.Trim(cfg.Prefix, "/"),
		timeout: cfg.Timeout,
		log:     log,
	}, nil
}

// ObjectKey returns the key a container named fileName is stored under.
func (m *S3Mirror) ObjectKey(fileName string) string {
	if m.prefix == "" {
		return fileName
	}
	return path.Join(m.prefix, fileName)
}

func (m *S3Mirror) Upload(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrIO, err)
	}
	defer f.Close()

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	key := m.ObjectKey(filepath.Base(localPath))
	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		m.log.Error(ctx, "backup upload failed", "bucket", m.bucket, "key", key, "error", err)
		return "", fmt.Errorf("s3 put %s/%s: %w", m.bucket, key, err)
	}

	location := "s3://" + m.bucket + "/" + key
	m.log.Info(ctx, "backup uploaded", "location", location)
	return location, nil
}
