package storage

import (
	"context"
	"fmt"
	"time"

	"catalogadmin/config"
	"catalogadmin/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// NewMinioClient 创建 MinIO 客户端
func NewMinioClient(cfg *config.Config) (*minio.Client, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 MinIO 客户端失败: %w", err)
	}
	return client, nil
}

type bucketMaker interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
}

// EnsureBuckets 检查媒体存储桶是否存在，不存在则创建
func EnsureBuckets(ctx context.Context, client bucketMaker, region string, buckets ...string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	seen := make(map[string]bool, len(buckets))
	for _, bucket := range buckets {
		if bucket == "" || seen[bucket] {
			continue
		}
		seen[bucket] = true

		exists, err := client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("检查存储桶 %s 失败: %w", bucket, err)
		}
		if exists {
			logger.Debug("bucket exists", logger.String("bucket", bucket))
			continue
		}
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return fmt.Errorf("创建存储桶 %s 失败: %w", bucket, err)
		}
		logger.Info("created bucket", logger.String("bucket", bucket))
	}
	return nil
}
