package gateway

import (
	"context"
	"time"
)

// BucketGateway 对象存储网关
type BucketGateway interface {
	// UploadBytes 上传内存数据，返回对象大小
	UploadBytes(ctx context.Context, objectKey string, data []byte, contentType string) error

	// UploadFromLocalPath 上传本地文件，返回对象大小
	UploadFromLocalPath(ctx context.Context, objectKey, localPath string) (int64, error)

	// DownloadBytes 下载对象到内存
	DownloadBytes(ctx context.Context, objectKey string) ([]byte, error)

	// DownloadToLocalPath 下载对象到本地文件
	DownloadToLocalPath(ctx context.Context, objectKey, localPath string) error

	// PresignDownload 生成限时下载URL
	PresignDownload(ctx context.Context, objectKey string, ttl time.Duration) (string, error)

	// PresignUpload 生成限时上传URL
	PresignUpload(ctx context.Context, objectKey string, ttl time.Duration) (string, error)
}
