package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/sensusai/sensus-server/internal/core/config"
	"github.com/sensusai/sensus-server/pkg/logger"
)

const (
	videoPrefix       = "recordings"
	videoURLExpiresIn = 7 * 24 * time.Hour
)

var videoExtensions = map[string]string{
	"video/webm":      ".webm",
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
}

type S3Service struct {
	client     *s3.Client
	bucketName string
}

func NewS3Service(cfg *config.Config) (*S3Service, error) {
	if cfg.AWS.Region == "" {
		return nil, fmt.Errorf("AWS region must be specified")
	}

	if cfg.AWS.BucketName == "" {
		return nil, fmt.Errorf("AWS bucket name must be specified")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWS.Region)}
	if cfg.AWS.AccessKeyID != "" && cfg.AWS.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWS.AccessKeyID, cfg.AWS.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	return &S3Service{
		client:     s3.NewFromConfig(awsCfg),
		bucketName: cfg.AWS.BucketName,
	}, nil
}

// VideoKey places each upload under the uploader's address.
func VideoKey(userID, contentType string) string {
	ext, ok := videoExtensions[contentType]
	if !ok {
		ext = ".webm"
	}
	return path.Join(videoPrefix, strings.ToLower(userID), uuid.New().String()+ext)
}

func (s *S3Service) UploadVideo(ctx context.Context, userID string, video io.Reader, size int64, contentType string) (string, error) {
	log := logger.WithComponent("s3")

	if contentType == "" {
		contentType = "video/webm"
	}
	key := VideoKey(userID, contentType)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        video,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		log.Error().Err(err).
			Str("bucket", s.bucketName).
			Str("key", key).
			Msg("Failed to upload recording to S3")
		return "", fmt.Errorf("failed to upload recording: %w", err)
	}

	presigned, err := s3.NewPresignClient(s.client).PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(videoURLExpiresIn))
	if err != nil {
		log.Error().Err(err).
			Str("bucket", s.bucketName).
			Str("key", key).
			Msg("Failed to generate pre-signed URL")
		return "", fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	log.Info().
		Str("bucket", s.bucketName).
		Str("key", key).
		Int64("size", size).
		Msg("Uploaded recording to S3")

	return presigned.URL, nil
}

func (s *S3Service) DeleteVideo(ctx context.Context, videoURL string) error {
	key, err := VideoKeyFromURL(videoURL)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete recording: %w", err)
	}

	return nil
}

// VideoKeyFromURL recovers the object key from a (pre-signed) object URL.
func VideoKeyFromURL(videoURL string) (string, error) {
	u, err := url.Parse(videoURL)
	if err != nil {
		return "", fmt.Errorf("invalid video url: %w", err)
	}
	idx := strings.Index(u.Path, videoPrefix+"/")
	if idx < 0 {
		return "", fmt.Errorf("video url %q is not a recording object", videoURL)
	}
	return u.Path[idx:], nil
}
