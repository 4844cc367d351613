// Package avatars removes avatar objects from S3-compatible storage when an
// account's personal data is purged. Deletion is fire-and-forget: it never
// blocks the transition that triggered it, and DeleteObject on a missing
// key succeeds, so retries are safe.
package avatars

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/openatlas/openatlas/internal/server/config"
	"github.com/openatlas/openatlas/internal/logging"
)

// Test seams for the AWS SDK entry points.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in)
	}
)

const (
	purgeAttempts = 3
	purgeBackoff  = 2 * time.Second
)

type Purger struct {
	config *sc.Config
	logger logging.Logger
}

func NewPurger(config *sc.Config, logger logging.Logger) *Purger {
	return &Purger{config: config, logger: logger}
}

func (p *Purger) getClient() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(p.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.config.S3RootUser,
			p.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(p.config.S3BaseEndpoint)
	})

	return client, nil
}

// Purge deletes the avatar object with the given key. Idempotent.
func (p *Purger) Purge(ctx context.Context, key string) error {
	client, err := p.getClient()
	if err != nil {
		return err
	}

	bucket := p.config.S3Bucket
	_, err = deleteObject(client, ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	return err
}

// PurgeLater schedules deletion of the avatar object without blocking the
// caller. Failures are retried a few times and then logged; the object can
// be cleaned up by a later purge since deletion is idempotent.
func (p *Purger) PurgeLater(key string) {
	if key == "" {
		return
	}

	go func() {
		ctx := context.Background()
		var err error
		for attempt := 0; attempt < purgeAttempts; attempt++ {
			if attempt > 0 {
				time.Sleep(purgeBackoff)
			}
			if err = p.Purge(ctx, key); err == nil {
				return
			}
		}
		p.logger.Error(ctx, "avatar purge failed", "key", key, "error", err.Error())
	}()
}
