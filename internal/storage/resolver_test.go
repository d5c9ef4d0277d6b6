package storage

import (
	"context"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weddingshare/internal/apperrors"
)

type fakeObjects struct {
	// key -> nil (exists) or the error head should return
	objects map[string]error
	heads   []string
	deleted []string
}

func (f *fakeObjects) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	key := *in.Key
	f.heads = append(f.heads, key)
	err, known := f.objects[key]
	if !known {
		return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "not found"}
	}
	if err != nil {
		return nil, err
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

type fakePresigner struct{}

func (fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://signed.example/" + *in.Key}, nil
}

func newTestStore(objects map[string]error) (*Store, *fakeObjects) {
	f := &fakeObjects{objects: objects}
	return &Store{
		client:     f,
		presigner:  fakePresigner{},
		bucket:     "test-bucket",
		presignTTL: time.Minute,
	}, f
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "photo.jpg", SafeName("photo.jpg"))
	assert.Equal(t, ".._nested_photo.jpg", SafeName("../nested/photo.jpg"))
	assert.Equal(t, "a_b.png", SafeName(`a\b.png`))
	assert.Equal(t, "upload", SafeName(""))
}

func TestCandidateKeysOrder(t *testing.T) {
	keys := CandidateKeys("photo.jpg")
	assert.Equal(t, []string{"uploads/photo.jpg", "photo.jpg", "stories/photo.jpg", "media/photo.jpg"}, keys)
}

func TestResolveFirstCandidateWins(t *testing.T) {
	st, f := newTestStore(map[string]error{
		"uploads/photo.jpg": nil,
		"photo.jpg":         nil, // also present at the bare key, must not be preferred
	})

	url, err := st.Resolve(context.Background(), "photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/uploads/photo.jpg", url)
	assert.Equal(t, []string{"uploads/photo.jpg"}, f.heads, "stops at the first hit")
}

func TestResolveFallsThroughPrefixes(t *testing.T) {
	st, f := newTestStore(map[string]error{
		"stories/old.jpg": nil,
	})

	url, err := st.Resolve(context.Background(), "old.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/stories/old.jpg", url)
	assert.Len(t, f.heads, 3)
}

func TestResolveAbsentEverywhere(t *testing.T) {
	st, f := newTestStore(nil)

	_, err := st.Resolve(context.Background(), "gone.jpg")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Len(t, f.heads, 4, "every candidate is tried before giving up")
}

func TestResolveDeniedClassification(t *testing.T) {
	denied := &smithy.GenericAPIError{Code: "Forbidden", Message: "forbidden"}
	st, _ := newTestStore(map[string]error{
		"secret.jpg": denied,
	})

	// permission failure at any candidate outranks absence elsewhere
	_, err := st.Resolve(context.Background(), "secret.jpg")
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.False(t, apperrors.IsNotFound(err))
}

func TestDeleteAnyPathRemovesThumbnail(t *testing.T) {
	st, f := newTestStore(map[string]error{
		"uploads/pic.jpg": nil,
	})

	require.NoError(t, st.DeleteAnyPath(context.Background(), "pic.jpg"))
	assert.Equal(t, []string{"uploads/pic.jpg", "uploads/pic.jpg_thumb.jpg"}, f.deleted)
}

func TestDeleteAnyPathAbsentIsNil(t *testing.T) {
	st, f := newTestStore(nil)

	assert.NoError(t, st.DeleteAnyPath(context.Background(), "ghost.jpg"))
	assert.Empty(t, f.deleted)
}
