package fileio_test

import (
	"context"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seborama/vcrfixture/fileio"
)

func TestSplitS3Name(t *testing.T) {
	tt := []*struct {
		name       string
		objectName string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{name: "bucket and file", objectName: "/bucket/file.yaml", wantBucket: "bucket", wantKey: "file.yaml"},
		{name: "nested key", objectName: "/bucket/a/b/file.yaml", wantBucket: "bucket", wantKey: "a/b/file.yaml"},
		{name: "no leading slash", objectName: "bucket/file.yaml", wantErr: true},
		{name: "missing key", objectName: "/bucket", wantErr: true},
		{name: "empty bucket", objectName: "//file.yaml", wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			bucket, key, err := fileio.SplitS3Name(tc.objectName)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantBucket, bucket)
			assert.Equal(t, tc.wantKey, key)
		})
	}
}

func TestS3File_IsNotExist(t *testing.T) {
	f := fileio.NewAWS(nil)

	assert.True(t, f.IsNotExist(errors.WithStack(&types.NoSuchKey{})))
	assert.False(t, f.IsNotExist(errors.New("boom")))
	assert.False(t, f.IsNotExist(nil))
}

// TestS3File_RoundTrip requires a localstack endpoint, configured through the
// environment or a ../.envrc file.
func TestS3File_RoundTrip(t *testing.T) {
	_ = godotenv.Load("../.envrc")
	if os.Getenv(fileio.EnvLocalstackEndpoint) == "" {
		t.Skip(fileio.EnvLocalstackEndpoint + " not set")
	}

	ctx := context.Background()

	f, err := fileio.NewAWSFromEnv(ctx)
	require.NoError(t, err)

	bucketName := "vcrfixture-" + uuid.New().String() // warning: max length: 63 chars
	_, err = newS3ClientWithBucket(ctx, bucketName)
	require.NoError(t, err)

	name := "/" + bucketName + "/cassettes/TestS3File_RoundTrip.yaml"

	_, err = f.ReadFile(name)
	require.Error(t, err)
	assert.True(t, f.IsNotExist(err))

	require.NoError(t, f.WriteFile(name, []byte("interactions: []\n"), 0o640))

	data, err := f.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "interactions: []\n", string(data))
}
