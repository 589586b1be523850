package filestorage

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func NewMinIOStorage(bucket, endpoint, accessKeyID, secretAccessKey string) *MinIOStorage {
	m, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: true,
	})
	if err != nil {
		panic(err)
	}
	return &MinIOStorage{
		client: m,
		bucket: bucket,
	}
}

type MinIOStorage struct {
	client *minio.Client
	bucket string
}

func (f *MinIOStorage) Put(ctx context.Context, name string, data []byte, contentType string) error {
	_, err := f.client.PutObject(ctx, f.bucket, name,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (f *MinIOStorage) Delete(ctx context.Context, name string) error {
	return f.client.RemoveObject(ctx, f.bucket, name, minio.RemoveObjectOptions{})
}

func (f *MinIOStorage) Download(ctx context.Context, name string) ([]byte, error) {
	obj, err := f.client.GetObject(ctx, f.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

// Promote copies a staged object over the live one, then removes the
// staged copy. The copy lands first so a failure can only leave the
// staged object behind, never a missing live object.
func (f *MinIOStorage) Promote(ctx context.Context, stagedName, liveName string) error {
	_, err := f.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: f.bucket, Object: liveName},
		minio.CopySrcOptions{Bucket: f.bucket, Object: stagedName},
	)
	if err != nil {
		return err
	}
	return f.client.RemoveObject(ctx, f.bucket, stagedName, minio.RemoveObjectOptions{})
}
