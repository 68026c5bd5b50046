package downloader

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"clipflow-service/ddd/domain/gateway"
	"clipflow-service/ddd/infrastructure/executor"
	"clipflow-service/pkg/config"
	"clipflow-service/pkg/logger"
)

// YtdlpDownloader 基于yt-dlp子进程的源视频下载器
type YtdlpDownloader struct {
	cfg *config.Config
}

func NewYtdlpDownloader(cfg *config.Config) gateway.DownloaderGateway {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	return &YtdlpDownloader{cfg: cfg}
}

func (d *YtdlpDownloader) binary() string {
	if d.cfg != nil && strings.TrimSpace(d.cfg.Pipeline.YtdlpBinaryPath) != "" {
		return d.cfg.Pipeline.YtdlpBinaryPath
	}
	return "yt-dlp"
}

func (d *YtdlpDownloader) tempDir() string {
	if d.cfg != nil && strings.TrimSpace(d.cfg.Pipeline.TempDir) != "" {
		return d.cfg.Pipeline.TempDir
	}
	return os.TempDir()
}

func (d *YtdlpDownloader) format(format string) string {
	if format != "" {
		return format
	}
	if d.cfg != nil && d.cfg.Pipeline.DefaultFormat != "" {
		return d.cfg.Pipeline.DefaultFormat
	}
	return "mp4"
}

// Download 下载整段源视频，返回本地路径和探测到的时长
func (d *YtdlpDownloader) Download(ctx context.Context, sourceURL, format string) (string, float64, error) {
	localPath, err := d.run(ctx, sourceURL, format, nil)
	if err != nil {
		return "", 0, err
	}
	return localPath, executor.ProbeDurationSeconds(localPath), nil
}

// DownloadSection 只下载指定区间；剪切边界由yt-dlp远程应用
func (d *YtdlpDownloader) DownloadSection(ctx context.Context, sourceURL string, bounds gateway.CutBounds, format string) (string, error) {
	section := fmt.Sprintf("*%.3f-%.3f", bounds.Start, bounds.End)
	if bounds.End <= bounds.Start {
		section = fmt.Sprintf("*%.3f-inf", bounds.Start)
	}
	extra := []string{"--download-sections", section, "--force-keyframes-at-cuts"}
	return d.run(ctx, sourceURL, format, extra)
}

func (d *YtdlpDownloader) run(ctx context.Context, sourceURL, format string, extraArgs []string) (string, error) {
	outputDir := filepath.Join(d.tempDir(), "downloads")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	format = d.format(format)
	localPath := filepath.Join(outputDir, fmt.Sprintf("original_%s.%s", uuid.NewString(), format))

	args := []string{
		"--no-playlist",
		"--no-progress",
		"--merge-output-format", format,
		"-o", localPath,
	}
	args = append(args, extraArgs...)
	args = append(args, sourceURL)

	cmd := exec.CommandContext(ctx, d.binary(), args...)
	logger.Infof("yt-dlp command url=%s command=%s", sourceURL, strings.Join(cmd.Args, " "))

	output, err := cmd.CombinedOutput()
	if err != nil {
		tail := string(output)
		if len(tail) > 2048 {
			tail = tail[len(tail)-2048:]
		}
		logger.Errorf("yt-dlp failed url=%s tail_output=%s", sourceURL, tail)
		_ = os.Remove(localPath)
		return "", fmt.Errorf("yt-dlp exited: %w", err)
	}

	if _, err := os.Stat(localPath); err != nil {
		return "", fmt.Errorf("yt-dlp produced no output file: %w", err)
	}
	return localPath, nil
}
