package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	s3iface.S3API
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.StringValue(in.Bucket) + "/" + aws.StringValue(in.Key)
	f.objects[key] = data
	f.types[key] = aws.StringValue(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.StringValue(in.Bucket)+"/"+aws.StringValue(in.Key)]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "missing", nil)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(string(data)))}, nil
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.StringValue(in.Bucket)+"/"+aws.StringValue(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Storage(t *testing.T) {
	ctx := context.Background()

	t.Run("Upload returns the public url", func(t *testing.T) {
		client := newFakeS3()
		store := NewS3StorageWithClient(client, Config{Bucket: "rentals", Region: "ap-southeast-1"})

		url, err := store.Upload(ctx, "payment-proofs/slip.jpg", "image/jpeg", strings.NewReader("jpeg"))
		require.NoError(t, err)
		assert.Equal(t, "https://rentals.s3.ap-southeast-1.amazonaws.com/payment-proofs/slip.jpg", url)
		assert.Equal(t, []byte("jpeg"), client.objects["rentals/payment-proofs/slip.jpg"])
		assert.Equal(t, "image/jpeg", client.types["rentals/payment-proofs/slip.jpg"])

		rc, err := store.Open(ctx, "payment-proofs/slip.jpg")
		require.NoError(t, err)
		data, _ := io.ReadAll(rc)
		assert.Equal(t, "jpeg", string(data))

		require.NoError(t, store.Delete(ctx, "payment-proofs/slip.jpg"))
		_, err = store.Open(ctx, "payment-proofs/slip.jpg")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Custom endpoint and default content type", func(t *testing.T) {
		client := newFakeS3()
		store := NewS3StorageWithClient(client, Config{Bucket: "b", Endpoint: "https://object.example.io/"})

		url, err := store.Upload(ctx, "k.bin", "", strings.NewReader("x"))
		require.NoError(t, err)
		assert.Equal(t, "https://object.example.io/b/k.bin", url)
		assert.Equal(t, "application/octet-stream", client.types["b/k.bin"])
	})

	t.Run("Upload failure", func(t *testing.T) {
		client := newFakeS3()
		client.putErr = errors.New("access denied")
		store := NewS3StorageWithClient(client, Config{Bucket: "b", PublicURL: "https://cdn.example.com"})

		_, err := store.Upload(ctx, "k", "text/plain", strings.NewReader("x"))
		assert.ErrorContains(t, err, "access denied")
	})
}
