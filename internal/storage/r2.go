package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Config holds the Cloudflare R2 (S3-compatible) connection settings.
type R2Config struct {
	AccountID string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string // e.g. "https://pub-xxx.r2.dev"
}

// objectAPI is the subset of the S3 client the archive uses.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// R2Store archives documents in an R2 bucket.
type R2Store struct {
	client    objectAPI
	bucket    string
	publicURL string
}

// NewR2Store builds an S3 client pointed at the account's R2 endpoint.
func NewR2Store(ctx context.Context, c R2Config) (*R2Store, error) {
	if c.AccountID == "" || c.Bucket == "" {
		return nil, fmt.Errorf("r2: account id and bucket are required")
	}
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID)

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	return newR2Store(client, c.Bucket, c.PublicURL), nil
}

func newR2Store(client objectAPI, bucket, publicURL string) *R2Store {
	return &R2Store{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// Save uploads a document. The body is buffered so the request can be signed
// with a known length; rendered invoices are a few kilobytes.
func (s *R2Store) Save(ctx context.Context, path string, file io.Reader, contentType string) (*FileInfo, error) {
	body, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("r2 read body: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(path),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("r2 put object: %w", err)
	}

	return &FileInfo{
		URL:      s.URL(path),
		FileName: path[strings.LastIndex(path, "/")+1:],
		FileSize: int64(len(body)),
		FileType: contentType,
	}, nil
}

// Delete removes an archived document.
func (s *R2Store) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("r2 delete object: %w", err)
	}
	return nil
}

// URL returns the public URL of an archived document.
func (s *R2Store) URL(path string) string {
	return s.publicURL + "/" + strings.TrimLeft(path, "/")
}
