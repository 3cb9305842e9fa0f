// Package storage issues presigned S3 URLs for issue evidence and owns the
// one place where stored object references are normalized. Stored values may
// be a raw object key (internal writes) or a full bucket URL, encoded or not
// (legacy/external writes); nothing outside NormalizeKey may interpret them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	// ErrNotConfigured means no bucket is configured for signing.
	ErrNotConfigured = errors.New("S3 bucket not configured")
	// ErrSigningFailed wraps failures from the signing backend.
	ErrSigningFailed = errors.New("storage signing failed")

	ErrFileNameRequired    = errors.New("file name is required")
	ErrContentTypeRequired = errors.New("content type is required")
)

const (
	// DefaultGetTTL limits how long a read link to evidence stays valid.
	DefaultGetTTL = 5 * time.Minute
	// DefaultPutTTL gives staff enough time to finish an evidence upload.
	DefaultPutTTL = 15 * time.Minute

	// uploadPrefix is the fixed key prefix for staff uploads. Keys are
	// "<uploadPrefix>/<department>/<uuid><ext>".
	uploadPrefix = "reports"
)

// Config carries the process-wide object storage settings. It is loaded once
// at startup and injected here; business logic never reads storage settings
// from globals.
type Config struct {
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// Presigner is the signing backend. The production implementation wraps the
// AWS SDK presign client; tests substitute a fake.
type Presigner interface {
	PresignGetObject(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
	PresignPutObject(ctx context.Context, bucket, key, contentType string, ttl time.Duration) (string, error)
}

// Signer resolves stored object references and issues presigned URLs against
// the configured bucket.
type Signer struct {
	cfg       Config
	presigner Presigner
}

// NewSigner builds a Signer backed by the AWS SDK. It succeeds even with an
// empty bucket so the application can start without storage configured;
// presign calls then fail with ErrNotConfigured.
func NewSigner(cfg Config) (*Signer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &Signer{
		cfg:       cfg,
		presigner: &sdkPresigner{presign: s3.NewPresignClient(client)},
	}, nil
}

// NewSignerWithPresigner builds a Signer with a custom signing backend.
func NewSignerWithPresigner(cfg Config, p Presigner) *Signer {
	return &Signer{cfg: cfg, presigner: p}
}

// Configured reports whether a bucket is configured for signing.
func (s *Signer) Configured() bool {
	return s.cfg.Bucket != ""
}

// NormalizeKey turns a stored object reference into a canonical S3 key.
//
// Accepts either a raw key ("reports/6/file.jpg") or a full bucket URL,
// percent-encoded or not. Empty input yields the empty string. The function
// is idempotent: a value that is already a key passes through unchanged, and
// the key extracted from a URL never starts with a scheme.
func NormalizeKey(value string) string {
	if value == "" {
		return ""
	}

	// Already a key.
	if !strings.HasPrefix(value, "http") {
		return value
	}

	parsed, err := url.Parse(value)
	if err != nil {
		// Unparseable values pass through; the signed request will fail
		// downstream with a clear error rather than a silently mangled key.
		return value
	}

	// url.Parse stores the decoded form in Path, so %2F and %20 are already
	// resolved here. Strip the single leading separator.
	return strings.TrimPrefix(parsed.Path, "/")
}

// PresignGet returns a time-limited signed GET URL for the object referenced
// by value. An empty reference yields an empty URL and no error; ttl <= 0
// falls back to DefaultGetTTL.
func (s *Signer) PresignGet(ctx context.Context, value string, ttl time.Duration) (string, error) {
	key := NormalizeKey(value)
	if key == "" {
		return "", nil
	}
	if !s.Configured() {
		return "", ErrNotConfigured
	}
	if ttl <= 0 {
		ttl = DefaultGetTTL
	}

	signed, err := s.presigner.PresignGetObject(ctx, s.cfg.Bucket, key, ttl)
	if err != nil {
		return "", fmt.Errorf("%w: presign get %q: %v", ErrSigningFailed, key, err)
	}
	return signed, nil
}

// UploadTarget tells the client where to PUT a new object and which key to
// report back once the upload succeeds.
type UploadTarget struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// PresignUpload mints a fresh, collision-resistant key namespaced by
// department, preserving the original file extension, and returns a
// short-lived signed PUT URL for it.
func (s *Signer) PresignUpload(ctx context.Context, fileName, contentType, department string) (*UploadTarget, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, ErrFileNameRequired
	}
	if strings.TrimSpace(contentType) == "" {
		return nil, ErrContentTypeRequired
	}
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	dept := strings.TrimSpace(department)
	if dept == "" {
		dept = "common"
	}

	key := fmt.Sprintf("%s/%s/%s%s", uploadPrefix, dept, uuid.NewString(), path.Ext(fileName))

	signed, err := s.presigner.PresignPutObject(ctx, s.cfg.Bucket, key, contentType, DefaultPutTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: presign put %q: %v", ErrSigningFailed, key, err)
	}
	return &UploadTarget{URL: signed, Key: key}, nil
}

// sdkPresigner adapts the AWS SDK presign client to the Presigner interface.
type sdkPresigner struct {
	presign *s3.PresignClient
}

func (p *sdkPresigner) PresignGetObject(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	req, err := p.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (p *sdkPresigner) PresignPutObject(ctx context.Context, bucket, key, contentType string, ttl time.Duration) (string, error) {
	req, err := p.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
