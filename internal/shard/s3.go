package shard

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/fr4nk3nst1ner/salarystats/internal/logger"
)

// S3Options configures the shard uploader
type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	PathStyle       bool
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
}

// ObjectPutter is the part of the S3 client the uploader needs
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader copies shard files to an S3 bucket
type Uploader struct {
	client ObjectPutter
	bucket string
	prefix string
	log    *logger.Entry
}

// NewUploader loads AWS configuration and builds an S3 client. Static
// credentials are used when both keys are set.
func NewUploader(ctx context.Context, opts S3Options) (*Uploader, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket not configured")
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.PathStyle
	})

	return NewUploaderWithClient(client, opts.Bucket, opts.Prefix), nil
}

// NewUploaderWithClient wraps an existing client
func NewUploaderWithClient(client ObjectPutter, bucket, prefix string) *Uploader {
	return &Uploader{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		log:    logger.GetLogger().WithComponent("shard"),
	}
}

// Key returns the object key of a local file for a run
func (u *Uploader) Key(runID, file string) string {
	return path.Join(u.prefix, runID, filepath.Base(file))
}

// Upload puts every file under <prefix>/<runID>/ and returns the object keys
func (u *Uploader) Upload(ctx context.Context, runID string, files []string) ([]string, error) {
	keys := make([]string, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}

		key := u.Key(runID, file)
		_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(u.bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(data),
		})
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", key, err)
		}

		u.log.WithFields(logger.Fields{
			"bucket": u.bucket,
			"s3_key": key,
			"bytes":  len(data),
		}).Info("shard uploaded")
		keys = append(keys, key)
	}
	return keys, nil
}
