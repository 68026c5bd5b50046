package executor

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"clipflow-service/ddd/domain/entity"
	"clipflow-service/ddd/domain/gateway"
	"clipflow-service/pkg/config"
	"clipflow-service/pkg/logger"
)

// FFmpegExecutor 本地ffmpeg执行器；同时实现剪切和字幕压制
type FFmpegExecutor struct {
	cfg *config.Config
}

func NewFFmpegExecutor(cfg *config.Config) *FFmpegExecutor {
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}
	return &FFmpegExecutor{cfg: cfg}
}

func (e *FFmpegExecutor) binary() string {
	if e.cfg != nil && strings.TrimSpace(e.cfg.Pipeline.FFmpegBinaryPath) != "" {
		return e.cfg.Pipeline.FFmpegBinaryPath
	}
	return "ffmpeg"
}

// Cut 按边界剪切本地文件。-ss/-to放在输入前做快速seek，
// 再重新编码保证切点帧精确。
func (e *FFmpegExecutor) Cut(ctx context.Context, inputPath string, bounds gateway.CutBounds, outputPath string) error {
	args := []string{"-y", "-ss", formatSeconds(bounds.Start)}
	if bounds.End > bounds.Start {
		args = append(args, "-to", formatSeconds(bounds.End))
	}
	args = append(args,
		"-i", inputPath,
		"-c:v", "libx264",
		"-preset", "fast",
		"-c:a", "aac",
		outputPath,
	)

	cmd := exec.CommandContext(ctx, e.binary(), args...)
	logger.Infof("ffmpeg cut command input=%s command=%s", inputPath, strings.Join(cmd.Args, " "))
	return e.runFFmpegCommand(ctx, cmd)
}

// Subtitle 将字幕压制进视频，返回空作业ID表示同步完成
func (e *FFmpegExecutor) Subtitle(ctx context.Context, videoPath, subtitlePath, outputPath string) (string, error) {
	// subtitles滤镜参数里的特殊字符需要转义
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`).Replace(subtitlePath)
	args := []string{
		"-y",
		"-i", videoPath,
		"-vf", fmt.Sprintf("subtitles='%s'", escaped),
		"-c:a", "copy",
		outputPath,
	}

	cmd := exec.CommandContext(ctx, e.binary(), args...)
	logger.Infof("ffmpeg subtitle command input=%s command=%s", videoPath, strings.Join(cmd.Args, " "))
	if err := e.runFFmpegCommand(ctx, cmd); err != nil {
		return "", err
	}
	return "", nil
}

// EstimateTime 估算压制耗时（秒）。压制通常慢于实时，
// 按媒体时长加固定余量估算；探测失败回退到保守值。
func (e *FFmpegExecutor) EstimateTime(ctx context.Context, artifact *entity.StorageArtifactEntity) (int64, error) {
	const fallbackSeconds = 600
	if artifact == nil {
		return fallbackSeconds, nil
	}
	// 制品在对象存储里，按大小粗估：1GB约10分钟
	if size := artifact.SizeBytes(); size > 0 {
		estimate := size / (2 << 20)
		if estimate < 60 {
			estimate = 60
		}
		return estimate, nil
	}
	return fallbackSeconds, nil
}

// runFFmpegCommand 运行ffmpeg并在失败时带出stderr尾部
func (e *FFmpegExecutor) runFFmpegCommand(ctx context.Context, cmd *exec.Cmd) error {
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("create ffmpeg stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	tailDone := make(chan struct{})
	tail := make([]string, 0, 50)
	go func() {
		defer close(tailDone)
		scanner := bufio.NewScanner(stderr)
		scanner.Buffer(make([]byte, 0, 1024), 1024*1024)
		for scanner.Scan() {
			if len(tail) >= 50 {
				tail = tail[1:]
			}
			tail = append(tail, scanner.Text())
		}
	}()

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		<-tailDone
		return ctx.Err()
	case err := <-done:
		<-tailDone
		if err != nil {
			if len(tail) > 0 {
				logger.Errorf("ffmpeg failed tail_stderr=%s", strings.Join(tail, "\n"))
			}
			return fmt.Errorf("ffmpeg exited: %w", err)
		}
		return nil
	}
}

// ProbeDurationSeconds 调用 ffprobe 获取输入时长（秒），失败则返回 0。
func ProbeDurationSeconds(inputPath string) float64 {
	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", inputPath)
	out, err := cmd.Output()
	if err != nil {
		return 0
	}
	val, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0
	}
	return val
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
