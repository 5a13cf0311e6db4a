// Package archive stores sweep artifacts in an S3 compatible object
// store: detection reports, crawled graphs and GEXF exports.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/egonetlab/egonet/pkg/logging"
)

// ErrNoBucket is returned when a store is configured without a bucket.
var ErrNoBucket = errors.New("no archive bucket configured")

// S3API is the subset of the S3 client the archive uses. The real
// client satisfies it; tests substitute a recorder.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Options configures an artifact store.
type Options struct {
	// Bucket is the target bucket. Required.
	Bucket string

	// Prefix is prepended to every object key.
	Prefix string

	// Region overrides the AWS region.
	Region string

	// Endpoint points at an S3 compatible store such as MinIO. Path
	// style addressing is enabled when set.
	Endpoint string

	// AccessKey and SecretKey configure static credentials. When empty
	// the default AWS credential chain applies.
	AccessKey string
	SecretKey string

	// Logger receives upload diagnostics. Defaults to a no-op logger.
	Logger logging.Logger
}

// Store uploads and fetches artifacts from one bucket.
type Store struct {
	client S3API
	bucket string
	prefix string
	logger logging.Logger
}

// New builds a Store with a real S3 client from the environment and the
// given options.
func New(ctx context.Context, opts Options) (*Store, error) {
	if opts.Bucket == "" {
		return nil, ErrNoBucket
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithClient(client, opts)
}

// NewWithClient builds a Store around an existing client.
func NewWithClient(client S3API, opts Options) (*Store, error) {
	if opts.Bucket == "" {
		return nil, ErrNoBucket
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	return &Store{
		client: client,
		bucket: opts.Bucket,
		prefix: strings.Trim(opts.Prefix, "/"),
		logger: opts.Logger.With(logging.Component("archive")),
	}, nil
}

// key joins the configured prefix with an artifact name.
func (s *Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// Upload stores one artifact and returns its object key.
func (s *Store) Upload(ctx context.Context, name string, data []byte) (string, error) {
	key := s.key(name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentTypeFor(name)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	s.logger.Info("artifact uploaded",
		logging.String("bucket", s.bucket),
		logging.String("key", key),
		logging.Int("bytes", len(data)))
	return key, nil
}

// UploadFile stores a local file under its base name.
func (s *Store) UploadFile(ctx context.Context, filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filePath, err)
	}
	return s.Upload(ctx, filepath.Base(filePath), data)
}

// Download fetches one artifact by name.
func (s *Store) Download(ctx context.Context, name string) ([]byte, error) {
	key := s.key(name)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// contentTypeFor maps artifact extensions to MIME types.
func contentTypeFor(name string) string {
	switch path.Ext(name) {
	case ".json":
		return "application/json"
	case ".gexf", ".xml":
		return "application/xml"
	case ".yaml", ".yml":
		return "application/yaml"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
