package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"clipflow-service/ddd/domain/gateway"
	"clipflow-service/internal/resource"
	"clipflow-service/pkg/logger"
)

// MinioStorage MinIO存储实现
type MinioStorage struct {
	minioResource *resource.MinioResource
}

// NewMinioStorage 创建MinIO存储实例
func NewMinioStorage(minioResource *resource.MinioResource) gateway.BucketGateway {
	return &MinioStorage{
		minioResource: minioResource,
	}
}

// UploadBytes 上传内存数据
func (s *MinioStorage) UploadBytes(ctx context.Context, objectKey string, data []byte, contentType string) error {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	if contentType == "" {
		contentType = getContentTypeFromExtension(objectKey)
	}

	_, err := client.PutObject(ctx, bucketName, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logger.Error("Failed to upload object to MinIO", map[string]interface{}{
			"object_key": objectKey,
			"error":      err.Error(),
		})
		return fmt.Errorf("upload object to minio failed: %w", err)
	}
	return nil
}

// UploadFromLocalPath 上传本地文件，返回对象大小
func (s *MinioStorage) UploadFromLocalPath(ctx context.Context, objectKey, localPath string) (int64, error) {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	info, err := client.FPutObject(ctx, bucketName, objectKey, localPath, minio.PutObjectOptions{
		ContentType: getContentTypeFromExtension(objectKey),
	})
	if err != nil {
		logger.Error("Failed to upload local file to MinIO", map[string]interface{}{
			"local_path": localPath,
			"object_key": objectKey,
			"error":      err.Error(),
		})
		return 0, fmt.Errorf("upload local file to minio failed: %w", err)
	}

	logger.Info("File uploaded to object storage", map[string]interface{}{
		"local_path": localPath,
		"object_key": objectKey,
		"size":       info.Size,
	})
	return info.Size, nil
}

// DownloadBytes 下载对象到内存
func (s *MinioStorage) DownloadBytes(ctx context.Context, objectKey string) ([]byte, error) {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	object, err := client.GetObject(ctx, bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object from minio failed: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("read object from minio failed: %w", err)
	}
	return data, nil
}

// DownloadToLocalPath 下载对象到本地文件
func (s *MinioStorage) DownloadToLocalPath(ctx context.Context, objectKey, localPath string) error {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	if err := client.FGetObject(ctx, bucketName, objectKey, localPath, minio.GetObjectOptions{}); err != nil {
		logger.Error("Failed to download object from MinIO", map[string]interface{}{
			"object_key": objectKey,
			"local_path": localPath,
			"error":      err.Error(),
		})
		return fmt.Errorf("download object from minio failed: %w", err)
	}
	return nil
}

// PresignDownload 生成限时下载URL
func (s *MinioStorage) PresignDownload(ctx context.Context, objectKey string, ttl time.Duration) (string, error) {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	url, err := client.PresignedGetObject(ctx, bucketName, objectKey, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("presign download url failed: %w", err)
	}
	return url.String(), nil
}

// PresignUpload 生成限时上传URL
func (s *MinioStorage) PresignUpload(ctx context.Context, objectKey string, ttl time.Duration) (string, error) {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	url, err := client.PresignedPutObject(ctx, bucketName, objectKey, ttl)
	if err != nil {
		return "", fmt.Errorf("presign upload url failed: %w", err)
	}
	return url.String(), nil
}

// getContentTypeFromExtension 根据文件扩展名获取内容类型
func getContentTypeFromExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".webm":
		return "video/webm"
	case ".mkv":
		return "video/x-matroska"
	case ".srt":
		return "application/x-subrip"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
