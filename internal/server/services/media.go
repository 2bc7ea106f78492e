package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "github.com/sonder-app/sonder-backend/internal/server/config"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Picture upload scopes: user avatars and circle pictures get separate key
// prefixes in the bucket.
const (
	ScopeUsers   = "users"
	ScopeCircles = "circles"
)

const presignValidity = 15 * time.Minute

// MediaService hands out short-lived presigned URLs for picture storage.
// Clients upload directly to the object store; the server only ever sees the
// resulting key.
type MediaService struct {
	config *sc.Config
}

// NewMediaService constructs a MediaService.
func NewMediaService(cfg *sc.Config) *MediaService {
	return &MediaService{config: cfg}
}

// PictureStorageKey builds a fresh object key under the scope's prefix,
// partitioned by date so the bucket stays browsable.
func PictureStorageKey(scope string) string {
	d := time.Now()
	return fmt.Sprintf("pictures/%s/%d/%d/%d/%v", scope, d.Year(), d.Month(), d.Day(), uuid.New())
}

func validScope(scope string) bool {
	return scope == ScopeUsers || scope == ScopeCircles
}

func (s *MediaService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// PresignPicturePut returns a new storage key under the scope and a
// presigned PUT URL for it, valid for 15 minutes.
func (s *MediaService) PresignPicturePut(ctx context.Context, scope string) (string, string, error) {
	if !validScope(scope) {
		return "", "", fmt.Errorf("unknown picture scope %q", scope)
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := PictureStorageKey(scope)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// PresignPictureGet returns a presigned GET URL for an existing key, valid
// for 15 minutes.
func (s *MediaService) PresignPictureGet(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
