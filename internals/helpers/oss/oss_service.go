package oss

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	alioss "github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// Service wraps one OSS bucket. It stores invoice PDFs, session photos and
// payment screenshots under the configured asset folder.
type Service struct {
	client     *alioss.Client
	bucket     *alioss.Bucket
	endpoint   string
	bucketName string
	publicBase string
}

type Config struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	PublicBase string // optional CDN base; falls back to bucket endpoint URL
}

func NewService(cfg Config) (*Service, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("oss: endpoint, access key, secret key and bucket are required")
	}
	client, err := alioss.New(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}
	return &Service{
		client:     client,
		bucket:     bucket,
		endpoint:   cfg.Endpoint,
		bucketName: cfg.Bucket,
		publicBase: strings.TrimRight(cfg.PublicBase, "/"),
	}, nil
}

// Put uploads body under key. Invoice artifacts are immutable once committed
// so they get a long cache lifetime.
func (s *Service) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	if key == "" {
		return fmt.Errorf("oss: empty key")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	opts := []alioss.Option{
		alioss.WithContext(ctx),
		alioss.ContentType(contentType),
		alioss.ContentDisposition("inline"),
		alioss.CacheControl("public, max-age=31536000, immutable"),
	}
	return s.bucket.PutObject(key, body, opts...)
}

func (s *Service) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("oss: empty key")
	}
	return s.bucket.DeleteObject(key, alioss.WithContext(ctx))
}

// Presign returns a signed PUT URL so clients can upload screenshots without
// routing bytes through the API.
func (s *Service) Presign(key, contentType string, expiry time.Duration) (string, error) {
	if key == "" {
		return "", fmt.Errorf("oss: empty key")
	}
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	opts := []alioss.Option{}
	if contentType != "" {
		opts = append(opts, alioss.ContentType(contentType))
	}
	return s.bucket.SignURL(key, alioss.HTTPPut, int64(expiry/time.Second), opts...)
}

func (s *Service) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	if s.publicBase != "" {
		return s.publicBase + "/" + key
	}
	end := s.endpoint
	end = strings.TrimPrefix(end, "https://")
	end = strings.TrimPrefix(end, "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.bucketName, end, key)
}
