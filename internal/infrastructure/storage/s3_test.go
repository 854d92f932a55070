package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelbook/story-api/internal/core/domain"
)

type fakeS3 struct {
	objects     map[string][]byte
	contentType map[string]string
	deleted     []string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, contentType: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = b
	f.contentType[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(string(b)))}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	key := aws.ToString(in.Key)
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store_SaveOpenDelete(t *testing.T) {
	fake := newFakeS3()
	store := newS3Store(fake, "bucket", "uploads/")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a.png", strings.NewReader("pixels")))
	assert.Equal(t, "pixels", string(fake.objects["uploads/a.png"]))
	assert.Equal(t, "image/png", fake.contentType["uploads/a.png"])

	rc, err := store.Open(ctx, "a.png")
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	assert.Equal(t, "pixels", string(b))

	require.NoError(t, store.Delete(ctx, "a.png"))
	assert.Equal(t, []string{"uploads/a.png"}, fake.deleted)
}

func TestS3Store_MissingObject(t *testing.T) {
	fake := newFakeS3()
	store := newS3Store(fake, "bucket", "")
	ctx := context.Background()

	assert.ErrorIs(t, store.Delete(ctx, "gone.jpg"), domain.ErrImageNotFound)
	assert.Empty(t, fake.deleted, "delete must not be issued for a missing object")

	_, err := store.Open(ctx, "gone.jpg")
	assert.ErrorIs(t, err, domain.ErrImageNotFound)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(&types.NotFound{}))
	assert.True(t, isNotFound(&types.NoSuchKey{}))
	assert.False(t, isNotFound(errors.New("boom")))
}
