package filestorage

import (
	"context"
	"io"
	"net/url"
	"time"
	"time-tracker-backend/config"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	UploadFile(ctx context.Context, objectPath string, fileReader io.Reader, fileSize int64, contentType string) error
	RemoveFiles(ctx context.Context, objectPaths []string) error
	GetSignedURL(ctx context.Context, objectPath string) (string, error)
	MakeBucket(ctx context.Context) error
}

var Instance Provider

type impl struct {
	s3client   *minio.Client
	bucketName string
	urlTTL     time.Duration
}

func NewInstance(s3client *minio.Client) {
	Instance = &impl{
		s3client:   s3client,
		bucketName: config.Conf.S3.BucketName,
		urlTTL:     time.Duration(config.Conf.S3.SignedUrlTTLSec) * time.Second,
	}
}

func (i impl) UploadFile(ctx context.Context, objectPath string, fileReader io.Reader, fileSize int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := i.s3client.PutObject(ctx, i.bucketName, objectPath, fileReader, fileSize, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrap(err, "failed to upload file")
	}
	return nil
}

// RemoveFiles removes every object it can and returns the first failure
func (i impl) RemoveFiles(ctx context.Context, objectPaths []string) error {
	var firstErr error
	for _, objectPath := range objectPaths {
		err := i.s3client.RemoveObject(ctx, i.bucketName, objectPath, minio.RemoveObjectOptions{})
		if err != nil {
			log.WithField("object_path", objectPath).
				WithError(err).
				Warn("failed to remove file")
			if firstErr == nil {
				firstErr = errors.Wrap(err, "failed to remove file")
			}
		}
	}
	return firstErr
}

func (i impl) GetSignedURL(ctx context.Context, objectPath string) (string, error) {
	signed, err := i.s3client.PresignedGetObject(ctx, i.bucketName, objectPath, i.urlTTL, url.Values{})
	if err != nil {
		return "", errors.Wrap(err, "failed to sign file url")
	}
	return signed.String(), nil
}

func (i impl) MakeBucket(ctx context.Context) error {
	location := "us-east-1"
	exists, err := i.s3client.BucketExists(ctx, i.bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return i.s3client.MakeBucket(ctx, i.bucketName, minio.MakeBucketOptions{Region: location})
}
