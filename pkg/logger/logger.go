package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"clipflow-service/pkg/config"
)

// Logger 封装logrus，支持文件/标准输出两种目标
type Logger struct {
	entry *logrus.Logger
	file  *os.File
}

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// NewLogger 根据配置创建日志器
func NewLogger(cfg *config.Config) *Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if cfg.Log.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logger := &Logger{entry: l}

	var out io.Writer = os.Stdout
	if cfg.Log.Output == "file" && cfg.Log.Filename != "" {
		f, err := os.OpenFile(cfg.Log.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			out = f
			logger.file = f
		} else {
			fmt.Printf("[WARN] failed to open log file %s: %v, falling back to stdout\n", cfg.Log.Filename, err)
		}
	}
	l.SetOutput(out)

	return logger
}

// Close 关闭日志文件句柄
func (l *Logger) Close() {
	if l.file != nil {
		_ = l.file.Close()
	}
}

// SetGlobalLogger 设置全局日志器
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

func std() *logrus.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalLogger != nil {
		return globalLogger.entry
	}
	return logrus.StandardLogger()
}

// Debug 带字段的调试日志
func Debug(msg string, fields map[string]interface{}) {
	std().WithFields(fields).Debug(msg)
}

// Info 带字段的信息日志
func Info(msg string, fields map[string]interface{}) {
	std().WithFields(fields).Info(msg)
}

// Warn 带字段的警告日志
func Warn(msg string, fields map[string]interface{}) {
	std().WithFields(fields).Warn(msg)
}

// Error 带字段的错误日志
func Error(msg string, fields map[string]interface{}) {
	std().WithFields(fields).Error(msg)
}

func Debugf(format string, args ...interface{}) { std().Debugf(format, args...) }
func Infof(format string, args ...interface{})  { std().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { std().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { std().Errorf(format, args...) }

// Fatal 记录后退出进程
func Fatal(msg string) {
	std().Fatal(msg)
}
