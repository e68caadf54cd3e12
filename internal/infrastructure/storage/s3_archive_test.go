package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/orderbridge/backend/internal/infrastructure/config"
)

type mockObjectAPI struct {
	mock.Mock
}

func (m *mockObjectAPI) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *mockObjectAPI) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.HeadBucketOutput), args.Error(1)
}

func (m *mockObjectAPI) CreateBucket(ctx context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.CreateBucketOutput), args.Error(1)
}

var _ objectAPI = (*mockObjectAPI)(nil)

func baseStorageConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Enabled:      true,
		Bucket:       "orders",
		AccessKey:    "test-key",
		SecretKey:    "test-secret",
		Endpoint:     "http://localhost:9000",
		UsePathStyle: true,
		Prefix:       "/channable/orders/",
	}
}

func newMockedArchive(t *testing.T) (*S3PayloadArchive, *mockObjectAPI) {
	archive, err := NewS3PayloadArchive(baseStorageConfig(), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	api := new(mockObjectAPI)
	archive.client = api
	return archive, api
}

func TestNewS3PayloadArchive_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.StorageConfig)
		wantErr string
	}{
		{"missing bucket", func(c *config.StorageConfig) { c.Bucket = "" }, "bucket is required"},
		{"missing access key", func(c *config.StorageConfig) { c.AccessKey = "" }, "access key is required"},
		{"missing secret key", func(c *config.StorageConfig) { c.SecretKey = "" }, "secret key is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseStorageConfig()
			tt.mutate(cfg)
			_, err := NewS3PayloadArchive(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3PayloadArchive(nil)
		assert.ErrorContains(t, err, "configuration is required")
	})

	t.Run("defaults", func(t *testing.T) {
		cfg := baseStorageConfig()
		cfg.Endpoint = "localhost:9000"
		cfg.Region = ""
		archive, err := NewS3PayloadArchive(cfg)
		require.NoError(t, err)
		assert.Equal(t, "orders", archive.GetBucket())
		assert.Equal(t, 15*time.Minute, archive.presignExpiration)
		assert.Equal(t, "channable/orders", archive.prefix)
	})

	t.Run("presign option", func(t *testing.T) {
		archive, err := NewS3PayloadArchive(baseStorageConfig(), WithPresignExpiration(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, time.Hour, archive.presignExpiration)
	})
}

func TestS3PayloadArchive_ObjectKey(t *testing.T) {
	archive, _ := newMockedArchive(t)
	assert.Equal(t, "channable/orders/3/90210.json", archive.ObjectKey(3, 90210))

	archive.prefix = ""
	assert.Equal(t, "0/1.json", archive.ObjectKey(0, 1))
}

func TestS3PayloadArchive_Archive(t *testing.T) {
	ctx := context.Background()
	body := []byte(`{"channable_id":90210}`)

	t.Run("uploads body under order key", func(t *testing.T) {
		archive, api := newMockedArchive(t)
		var uploaded []byte
		api.On("PutObject", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			return *in.Bucket == "orders" &&
				*in.Key == "channable/orders/3/90210.json" &&
				*in.ContentType == "application/json" &&
				in.Metadata["store-id"] == "3"
		})).Run(func(args mock.Arguments) {
			uploaded, _ = io.ReadAll(args.Get(1).(*s3.PutObjectInput).Body)
		}).Return(&s3.PutObjectOutput{}, nil)

		require.NoError(t, archive.Archive(ctx, 3, 90210, body))
		api.AssertExpectations(t)
		assert.Equal(t, body, uploaded)
	})

	t.Run("upload error is wrapped", func(t *testing.T) {
		archive, api := newMockedArchive(t)
		api.On("PutObject", ctx, mock.Anything).Return(nil, errors.New("connection reset"))

		err := archive.Archive(ctx, 3, 1, body)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "channable/orders/3/1.json")
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("empty body is rejected", func(t *testing.T) {
		archive, api := newMockedArchive(t)
		assert.Error(t, archive.Archive(ctx, 3, 1, nil))
		api.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
	})
}

func TestS3PayloadArchive_EnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("existing bucket", func(t *testing.T) {
		archive, api := newMockedArchive(t)
		api.On("HeadBucket", ctx, mock.Anything).Return(&s3.HeadBucketOutput{}, nil)
		require.NoError(t, archive.EnsureBucket(ctx))
		api.AssertNotCalled(t, "CreateBucket", mock.Anything, mock.Anything)
	})

	t.Run("creates missing bucket", func(t *testing.T) {
		archive, api := newMockedArchive(t)
		api.On("HeadBucket", ctx, mock.Anything).Return(nil, &types.NotFound{})
		api.On("CreateBucket", ctx, mock.Anything).Return(&s3.CreateBucketOutput{}, nil)
		require.NoError(t, archive.EnsureBucket(ctx))
		api.AssertExpectations(t)
	})

	t.Run("bucket created concurrently", func(t *testing.T) {
		archive, api := newMockedArchive(t)
		api.On("HeadBucket", ctx, mock.Anything).Return(nil, &types.NoSuchBucket{})
		api.On("CreateBucket", ctx, mock.Anything).Return(nil, &types.BucketAlreadyOwnedByYou{})
		assert.NoError(t, archive.EnsureBucket(ctx))
	})

	t.Run("other head error", func(t *testing.T) {
		archive, api := newMockedArchive(t)
		api.On("HeadBucket", ctx, mock.Anything).Return(nil, errors.New("forbidden"))
		assert.ErrorContains(t, archive.EnsureBucket(ctx), "failed to check bucket existence")
	})
}

func TestS3PayloadArchive_DownloadURL(t *testing.T) {
	archive, err := NewS3PayloadArchive(baseStorageConfig())
	require.NoError(t, err)

	url, expiresAt, err := archive.DownloadURL(context.Background(), 3, 90210)
	require.NoError(t, err)
	assert.True(t, strings.Contains(url, "localhost:9000"))
	assert.True(t, strings.Contains(url, "orders"))
	assert.True(t, strings.Contains(url, "90210.json"))
	assert.True(t, expiresAt.After(time.Now()))
}

func TestNoopPayloadArchive(t *testing.T) {
	archive := NewNoopPayloadArchive(nil)
	ctx := context.Background()

	assert.NoError(t, archive.Archive(ctx, 1, 2, []byte("{}")))

	url, expiresAt, err := archive.DownloadURL(ctx, 1, 2)
	require.NoError(t, err)
	assert.Empty(t, url)
	assert.True(t, expiresAt.IsZero())
}
