package s3client

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"cultivation-backend/config"
)

type Provider interface {
	MakeBucket(ctx context.Context) error
	Minio() *minio.Client
}

type s3client struct {
	minioClient *minio.Client
}

func (s s3client) Minio() *minio.Client {
	return s.minioClient
}

func (s s3client) MakeBucket(ctx context.Context) error {
	bucketName := config.Conf.S3.Bucket
	location := "us-east-1"
	exists, err := s.minioClient.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location})
}

func NewClient() (Provider, error) {
	minioClient, err := minio.New(config.Conf.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Conf.S3.AccessKey, config.Conf.S3.SecretKey, ""),
		Secure: *config.Conf.S3.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &s3client{minioClient: minioClient}, nil
}
