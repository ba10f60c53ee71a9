package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"catalogadmin/logger"

	"github.com/minio/minio-go/v7"
)

// BucketStats 存储桶统计信息
type BucketStats struct {
	Bucket       string
	Prefix       string
	TotalObjects int64
	TotalSize    int64
	LastModified time.Time
	ByClass      map[string]int64 // bytes per media class
}

// ObjectInfo 文件信息
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ContentType  string
	ETag         string
}

type bucketLister interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	RemoveObjects(ctx context.Context, bucketName string, objectsCh <-chan minio.ObjectInfo, opts minio.RemoveObjectsOptions) <-chan minio.RemoveObjectError
}

// Browser lists and prunes what has been uploaded to the media buckets.
type Browser struct {
	client bucketLister
}

func NewBrowser(client bucketLister) *Browser {
	return &Browser{client: client}
}

func (b *Browser) checkBucket(ctx context.Context, bucket string) error {
	exists, err := b.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("检查存储桶是否存在失败: %w", err)
	}
	if !exists {
		return fmt.Errorf("存储桶 %s 不存在", bucket)
	}
	return nil
}

// List 列出存储桶中前缀下的对象并汇总统计
func (b *Browser) List(ctx context.Context, bucket, prefix string, recursive bool) ([]ObjectInfo, BucketStats, error) {
	stats := BucketStats{Bucket: bucket, Prefix: prefix, ByClass: map[string]int64{}}
	if err := b.checkBucket(ctx, bucket); err != nil {
		return nil, stats, err
	}

	var objects []ObjectInfo
	for object := range b.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: recursive}) {
		if object.Err != nil {
			return nil, stats, fmt.Errorf("列出对象时出错: %w", object.Err)
		}
		stats.TotalObjects++
		stats.TotalSize += object.Size
		if object.LastModified.After(stats.LastModified) {
			stats.LastModified = object.LastModified
		}
		stats.ByClass[mediaClass(object.Key, object.ContentType)] += object.Size

		objects = append(objects, ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
			ContentType:  object.ContentType,
			ETag:         object.ETag,
		})
	}
	return objects, stats, nil
}

func (b *Browser) Stats(ctx context.Context, bucket, prefix string) (BucketStats, error) {
	_, stats, err := b.List(ctx, bucket, prefix, true)
	return stats, err
}

// RemovePrefix 递归删除前缀下的所有对象，返回删除数量
func (b *Browser) RemovePrefix(ctx context.Context, bucket, prefix string) (int, error) {
	if strings.Trim(prefix, "/") == "" {
		return 0, errors.New("refusing to remove a whole bucket, give a prefix")
	}
	objects, _, err := b.List(ctx, bucket, prefix, true)
	if err != nil {
		return 0, err
	}
	if len(objects) == 0 {
		return 0, fmt.Errorf("目录 %s 为空或不存在", prefix)
	}

	objectsCh := make(chan minio.ObjectInfo, len(objects))
	for _, obj := range objects {
		objectsCh <- minio.ObjectInfo{Key: obj.Key}
	}
	close(objectsCh)

	for rerr := range b.client.RemoveObjects(ctx, bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rerr.Err != nil {
			return 0, fmt.Errorf("删除对象 %s 失败: %w", rerr.ObjectName, rerr.Err)
		}
	}
	logger.Info("removed objects",
		logger.String("bucket", bucket),
		logger.String("prefix", prefix),
		logger.Int("count", len(objects)))
	return len(objects), nil
}

// Folders returns the distinct folder paths of objects, sorted.
func Folders(objects []ObjectInfo) []string {
	dirs := map[string]bool{}
	for _, obj := range objects {
		dir := path.Dir(obj.Key)
		for dir != "." && dir != "/" && !dirs[dir] {
			dirs[dir] = true
			dir = path.Dir(dir)
		}
	}
	out := make([]string, 0, len(dirs))
	for d := range dirs {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// mediaClass 从内容类型或文件名推断媒体类别
func mediaClass(key, contentType string) string {
	if i := strings.Index(contentType, "/"); i > 0 {
		return contentType[:i]
	}
	switch strings.ToLower(path.Ext(key)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp":
		return "image"
	case ".mp3", ".wav", ".flac", ".m4a":
		return "audio"
	case ".mp4", ".mov", ".mkv":
		return "video"
	default:
		return "other"
	}
}
