package minio

import (
	"context"
	"io"
	"testing"

	miniosdk "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jurimetric/lexmeta/pkg/errors"
)

// fakeAPI records calls and scripts responses.
type fakeAPI struct {
	buckets     map[string]bool
	putKey      string
	putSize     int64
	putMeta     map[string]string
	putErr      error
	statErr     error
	removedKeys []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{buckets: map[string]bool{}}
}

func (f *fakeAPI) ListBuckets(context.Context) ([]miniosdk.BucketInfo, error) {
	return nil, nil
}

func (f *fakeAPI) BucketExists(_ context.Context, name string) (bool, error) {
	return f.buckets[name], nil
}

func (f *fakeAPI) MakeBucket(_ context.Context, name string, _ miniosdk.MakeBucketOptions) error {
	f.buckets[name] = true
	return nil
}

func (f *fakeAPI) PutObject(_ context.Context, _, key string, reader io.Reader, size int64, opts miniosdk.PutObjectOptions) (miniosdk.UploadInfo, error) {
	if f.putErr != nil {
		return miniosdk.UploadInfo{}, f.putErr
	}
	f.putKey = key
	f.putSize = size
	f.putMeta = opts.UserMetadata
	_, _ = io.ReadAll(reader)
	return miniosdk.UploadInfo{ETag: "etag-1", Size: size}, nil
}

func (f *fakeAPI) GetObject(context.Context, string, string, miniosdk.GetObjectOptions) (*miniosdk.Object, error) {
	return nil, miniosdk.ErrorResponse{Code: "NoSuchKey"}
}

func (f *fakeAPI) StatObject(context.Context, string, string, miniosdk.StatObjectOptions) (miniosdk.ObjectInfo, error) {
	if f.statErr != nil {
		return miniosdk.ObjectInfo{}, f.statErr
	}
	return miniosdk.ObjectInfo{}, nil
}

func (f *fakeAPI) RemoveObject(_ context.Context, _, key string, _ miniosdk.RemoveObjectOptions) error {
	f.removedKeys = append(f.removedKeys, key)
	return nil
}

func newTestArchive(api MinIOAPI) *OpinionArchive {
	return NewOpinionArchive(NewClientWithAPI(api, "lexmeta-opinions", nil), nil)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "opinions/case-1.txt", ObjectKey("case-1"))
}

func TestStoreUploadsWithCitationMetadata(t *testing.T) {
	api := newFakeAPI()
	archive := newTestArchive(api)

	result, err := archive.Store(context.Background(), "case-1", "994 F.3d 1086", "opinion text")
	require.NoError(t, err)
	assert.Equal(t, "opinions/case-1.txt", result.ObjectKey)
	assert.Equal(t, "etag-1", result.ETag)
	assert.Equal(t, int64(len("opinion text")), api.putSize)
	assert.Equal(t, "994 F.3d 1086", api.putMeta["citation"])
}

func TestStoreValidation(t *testing.T) {
	archive := newTestArchive(newFakeAPI())
	ctx := context.Background()

	_, err := archive.Store(ctx, "", "cite", "text")
	assert.Error(t, err)
	_, err = archive.Store(ctx, "case-1", "cite", "")
	assert.Error(t, err)
}

func TestStoreWrapsUploadFailure(t *testing.T) {
	api := newFakeAPI()
	api.putErr = assert.AnError
	archive := newTestArchive(api)

	_, err := archive.Store(context.Background(), "case-1", "", "text")
	assert.True(t, errors.IsCode(err, errors.ErrCodeCaseArchiveFailed))
}

func TestExists(t *testing.T) {
	api := newFakeAPI()
	archive := newTestArchive(api)

	ok, err := archive.Exists(context.Background(), "case-1")
	require.NoError(t, err)
	assert.True(t, ok)

	api.statErr = miniosdk.ErrorResponse{Code: "NoSuchKey"}
	ok, err = archive.Exists(context.Background(), "case-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	api := newFakeAPI()
	archive := newTestArchive(api)

	require.NoError(t, archive.Delete(context.Background(), "case-1"))
	assert.Equal(t, []string{"opinions/case-1.txt"}, api.removedKeys)
}

func TestArchiveRejectsClosedClient(t *testing.T) {
	client := NewClientWithAPI(newFakeAPI(), "b", nil)
	archive := NewOpinionArchive(client, nil)
	client.Close()

	_, err := archive.Store(context.Background(), "case-1", "", "text")
	assert.ErrorIs(t, err, ErrClientClosed)
	_, err = archive.Fetch(context.Background(), "case-1")
	assert.ErrorIs(t, err, ErrClientClosed)
}

func TestEnsureBucketCreatesOnce(t *testing.T) {
	api := newFakeAPI()
	client := NewClientWithAPI(api, "lexmeta-opinions", nil)

	require.NoError(t, client.EnsureBucket(context.Background()))
	assert.True(t, api.buckets["lexmeta-opinions"])

	// Second call finds the bucket and is a no-op.
	require.NoError(t, client.EnsureBucket(context.Background()))
}
