// Package upload delivers the CSV artifact to S3 so diagnostic
// captures analyzed on an endpoint can be collected off-box.
package upload

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Ankan-42/AUL-logarchive-info/internal/config"
	"github.com/Ankan-42/AUL-logarchive-info/internal/logging"
	"github.com/Ankan-42/AUL-logarchive-info/internal/report"
)

const contentType = "text/csv"

// s3API is the slice of the S3 client the uploader needs.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader puts a finished report into an S3 bucket.
type S3Uploader struct {
	cfg    config.UploadConfig
	client s3API
	logger *logging.Logger
}

// NewS3Uploader creates an uploader from the default AWS credential
// chain. An endpoint override selects S3-compatible stores like MinIO.
func NewS3Uploader(ctx context.Context, cfg config.UploadConfig, logger *logging.Logger) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("no bucket specified")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("no region specified")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.UsePathStyle
		})
	}

	return &S3Uploader{
		cfg:    cfg,
		client: s3.NewFromConfig(awsCfg, opts...),
		logger: logger.WithComponent("upload"),
	}, nil
}

// Upload validates the written artifact and puts it at
// <prefix><filename>. The local file is kept regardless of outcome.
func (u *S3Uploader) Upload(ctx context.Context, reportPath string) error {
	// Refuse to ship a file that does not read back as a report.
	if _, err := report.Read(reportPath); err != nil {
		return fmt.Errorf("report failed validation before upload: %w", err)
	}

	f, err := os.Open(reportPath)
	if err != nil {
		return fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	key := path.Join(u.cfg.Prefix, filepath.Base(reportPath))
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload report to s3://%s/%s: %w", u.cfg.Bucket, key, err)
	}

	u.logger.Info().
		Str("bucket", u.cfg.Bucket).
		Str("key", key).
		Msg("Report uploaded")
	return nil
}
