package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
)

// objectAPI is the slice of the S3 client the store needs. Kept narrow
// so tests can stand in for it.
type objectAPI interface {
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, opts ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type Store struct {
	client     objectAPI
	presigner  presignAPI
	uploader   *manager.Uploader
	bucket     string
	presignTTL time.Duration
}

func NewS3Store(ctx context.Context, region, bucket, endpoint string, presignTTL time.Duration) (*Store, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &Store{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		uploader:   manager.NewUploader(client),
		bucket:     bucket,
		presignTTL: presignTTL,
	}, nil
}

// Upload stores the object under key. Images additionally get a 320px
// JPEG thumbnail under <key>_thumb.jpg; thumbnail failure is not fatal.
func (s *Store) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return s.Presign(ctx, key)
}

func (s *Store) UploadThumbnail(ctx context.Context, key string, data []byte) string {
	thumb, err := generateThumbnail(data)
	if err != nil {
		return ""
	}
	thumbKey := key + "_thumb.jpg"
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(thumbKey),
		Body:        bytes.NewReader(thumb),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return ""
	}
	return thumbKey
}

func (s *Store) Presign(ctx context.Context, key string) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *Store) head(ctx context.Context, key string) error {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func generateThumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	thumb := imaging.Resize(img, 320, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
