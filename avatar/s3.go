package avatar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/goliatone/go-accounts"
	"github.com/google/uuid"
)

// S3Config holds object storage options
type S3Config struct {
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
	// PublicURL is prepended to object keys to build avatar URLs
	PublicURL string
}

// ObjectPutter is the subset of the S3 client used by the pipeline
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 stores avatars in an S3 compatible bucket
type S3 struct {
	cfg    S3Config
	client ObjectPutter
}

var _ accounts.AvatarPipeline = (*S3)(nil)

// NewS3 builds an S3 client from cfg
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3WithClient(cfg, client), nil
}

// NewS3WithClient returns an S3 pipeline using client
func NewS3WithClient(cfg S3Config, client ObjectPutter) *S3 {
	return &S3{cfg: cfg, client: client}
}

// Process implements accounts.AvatarPipeline
func (s *S3) Process(ctx context.Context, accountID uuid.UUID, filename string, src io.Reader) (string, error) {
	img, err := Resize(src)
	if err != nil {
		return "", accounts.ValidationError(err)
	}

	format, name := formatFor(FileName(accountID, filename))

	buf := &bytes.Buffer{}
	if err := imaging.Encode(buf, img, format); err != nil {
		return "", fmt.Errorf("encode avatar: %w", err)
	}

	key := "avatars/" + name
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(int64(buf.Len())),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put avatar object: %w", err)
	}

	return strings.TrimRight(s.cfg.PublicURL, "/") + "/" + key, nil
}
