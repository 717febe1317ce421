// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"cricanalyzer/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// MediaStore persists public assets (images, sitemap) and returns their URL.
type MediaStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// SaveUpload copies a multipart upload into store under key.
func SaveUpload(ctx context.Context, store MediaStore, fileHeader *multipart.FileHeader, key string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return store.Put(ctx, key, file, contentType)
}

// OpenMediaStores returns the store uploads go to and, when R2 is configured,
// the store generated public files are published to. Without R2 uploads stay
// on local disk under cfg.UploadDir and public is nil.
func OpenMediaStores(ctx context.Context, cfg config.Config) (uploads, public MediaStore, err error) {
	if cfg.R2.Enabled() {
		r2, err := NewR2Store(ctx, cfg.R2)
		if err != nil {
			return nil, nil, err
		}
		Log.WithField("bucket", cfg.R2.Bucket).Info("[Media] using R2")
		return r2, r2, nil
	}
	local, err := NewLocalStore(cfg.UploadDir, "/uploads")
	if err != nil {
		return nil, nil, err
	}
	return local, nil, nil
}

// R2Store uploads to a Cloudflare R2 bucket through the S3 API.
type R2Store struct {
	client     *s3.Client
	bucket     string
	cdnBaseURL string
}

func NewR2Store(ctx context.Context, cfg config.R2Config) (*R2Store, error) {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	cdnBaseURL := cfg.CDNBaseURL
	if cdnBaseURL == "" {
		cdnBaseURL = endpoint + "/" + cfg.Bucket
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.AccessKeySecret, "",
		)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load R2 config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	return &R2Store{client: client, bucket: cfg.Bucket, cdnBaseURL: cdnBaseURL}, nil
}

func (s *R2Store) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	// The S3 client needs a seekable body to sign the payload.
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, body); err != nil {
		return "", errors.Wrap(err, "failed to read upload")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to upload to R2")
	}
	return fmt.Sprintf("%s/%s", s.cdnBaseURL, key), nil
}
