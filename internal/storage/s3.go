package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/staranysa/TheHappyHaul/internal/config"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore uploads images to an S3-compatible bucket such as Cloudflare
// R2 and returns their public URL.
type S3ImageStore struct {
	client        objectPutter
	bucket        string
	publicBaseURL string
}

// NewS3ImageStore builds a client from static credentials. An account id
// selects the R2 endpoint unless an explicit endpoint is configured.
func NewS3ImageStore(cfg config.S3Config) (*S3ImageStore, error) {
	if cfg.BucketName == "" || cfg.PublicBaseURL == "" {
		return nil, errors.New("S3_BUCKET_NAME and S3_PUBLIC_BASE_URL are required for s3 uploads")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" && cfg.AccountID != "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}

	awsCfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Region:      cfg.Region,
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	logrus.WithFields(logrus.Fields{"bucket": cfg.BucketName, "endpoint": endpoint}).Info("Initialized S3 image store")
	return newS3ImageStore(client, cfg.BucketName, cfg.PublicBaseURL), nil
}

func newS3ImageStore(client objectPutter, bucket, publicBaseURL string) *S3ImageStore {
	return &S3ImageStore{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *S3ImageStore) Save(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	// Buffered so the SDK can sign a seekable payload.
	data, err := io.ReadAll(io.LimitReader(body, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	key := "uploads/" + objectName(filename)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to upload image to bucket")
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return s.publicBaseURL + "/" + key, nil
}
