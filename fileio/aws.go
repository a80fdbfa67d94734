package fileio

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
)

// S3File stores cassettes as objects in AWS S3.
// Names take the form '/bucketName/[folder/.../]file'.
type S3File struct {
	ctx      context.Context
	s3Client *s3.Client
}

// NewAWS creates an S3 store using the supplied client.
func NewAWS(s3Client *s3.Client) *S3File {
	return &S3File{
		ctx:      context.Background(),
		s3Client: s3Client,
	}
}

// EnvLocalstackEndpoint names the variable that points the S3 store to a localstack endpoint.
const EnvLocalstackEndpoint = "LOCALSTACK_ENDPOINT"

// NewAWSFromEnv creates an S3 store from the default AWS configuration chain
// (environment, shared config, instance role).
// Path-style addressing is used so that localstack works too.
func NewAWSFromEnv(ctx context.Context) (*S3File, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load AWS config")
	}

	endpoint := os.Getenv(EnvLocalstackEndpoint)

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		// REQUIRED for localstack
		o.UsePathStyle = true
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &S3File{ctx: ctx, s3Client: client}, nil
}

// MkdirAll is a noop in S3.
func (f *S3File) MkdirAll(string, os.FileMode) error {
	return nil
}

// ReadFile downloads the named object.
func (f *S3File) ReadFile(name string) ([]byte, error) {
	bucket, key, err := f.bucketAndKey(name)
	if err != nil {
		return nil, err
	}

	out, err := f.s3Client.GetObject(f.ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read S3 object '%s'", name)
	}

	return data, nil
}

// WriteFile uploads data to the named object. The file mode is ignored.
func (f *S3File) WriteFile(name string, data []byte, _ os.FileMode) error {
	bucket, key, err := f.bucketAndKey(name)
	if err != nil {
		return err
	}

	const partMiBs int64 = 10
	uploader := manager.NewUploader(f.s3Client, func(u *manager.Uploader) {
		u.PartSize = partMiBs * 1024 * 1024
	})

	_, err = uploader.Upload(f.ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})

	return errors.WithStack(err)
}

// IsNotExist reports whether err signals a missing object.
func (f *S3File) IsNotExist(err error) bool {
	if err == nil {
		return false
	}

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}

	return false
}

func (f *S3File) bucketAndKey(name string) (bucket, key string, err error) {
	return SplitS3Name(name)
}

// SplitS3Name splits '/bucketName/[folder/.../]file' into its bucket and key.
func SplitS3Name(name string) (bucket, key string, err error) {
	splits := strings.SplitN(name, "/", 3)
	if len(splits) != 3 || splits[0] != "" || splits[1] == "" || splits[2] == "" {
		return "", "", errors.Errorf("invalid S3 object name: '%s' - expected format is '/bucketName/[folder/.../]file'", name)
	}

	return splits[1], splits[2], nil
}
