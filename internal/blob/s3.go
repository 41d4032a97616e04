package blob

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

const (
	// Pre-sign upload URLs for this long.
	uploadExpiry = 10 * time.Minute
	// Pre-sign read URLs for this long. Short on purpose so resolved
	// URLs can't be used as permanent links.
	readExpiry = 2 * time.Minute
)

type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Endpoint        string
	Bucket          string
	ForcePathStyle  bool
}

// S3Store implements Store with pre-signed S3 requests.
type S3Store struct {
	svc    *s3.S3
	bucket string
}

func NewS3Store(cfg S3Config) (*S3Store, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(cfg.Region),
		Endpoint:         aws.String(cfg.Endpoint),
		S3ForcePathStyle: aws.Bool(cfg.ForcePathStyle),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("creating aws session: %w", err)
	}
	return &S3Store{svc: s3.New(sess), bucket: cfg.Bucket}, nil
}

func (s *S3Store) GenerateUploadTarget(ctx context.Context) (*UploadTarget, error) {
	key := uuid.NewString()
	req, _ := s.svc.PutObjectRequest(&s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	req.SetContext(ctx)
	url, err := req.Presign(uploadExpiry)
	if err != nil {
		return nil, fmt.Errorf("presigning upload: %w", err)
	}
	return &UploadTarget{
		Key:       key,
		URL:       url,
		ExpiresAt: time.Now().Add(uploadExpiry),
	}, nil
}

func (s *S3Store) ResolveReadURL(ctx context.Context, key string) (string, error) {
	// Probe first so a deleted blob resolves to "" instead of a URL
	// that 404s on the client.
	_, err := s.svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && (aerr.Code() == "NotFound" || aerr.Code() == s3.ErrCodeNoSuchKey) {
			return "", nil
		}
		return "", fmt.Errorf("checking blob %s: %w", key, err)
	}

	req, _ := s.svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	req.SetContext(ctx)
	url, err := req.Presign(readExpiry)
	if err != nil {
		return "", fmt.Errorf("presigning read of %s: %w", key, err)
	}
	return url, nil
}

func (s *S3Store) Release(ctx context.Context, key string) error {
	_, err := s.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting blob %s: %w", key, err)
	}
	return nil
}
