package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"videogen-service/pkg/config"
)

// Logger 基于logrus的日志服务
type Logger struct {
	entry *logrus.Logger
	file  io.Closer
}

var (
	globalMu     sync.RWMutex
	globalLogger = newDefault()
)

func newDefault() *Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &Logger{entry: l}
}

// NewLogger 根据配置创建日志服务
func NewLogger(cfg *config.Config) *Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	switch cfg.Log.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logger := &Logger{entry: l}
	switch cfg.Log.Output {
	case "file":
		if f, err := os.OpenFile(cfg.Log.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			l.SetOutput(f)
			logger.file = f
		} else {
			l.SetOutput(os.Stdout)
			l.Warnf("failed to open log file %s, falling back to stdout: %v", cfg.Log.Filename, err)
		}
	default:
		l.SetOutput(os.Stdout)
	}

	return logger
}

// SetGlobalLogger 设置全局日志器
func SetGlobalLogger(l *Logger) {
	if l == nil {
		return
	}
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// Close 关闭日志输出文件
func (l *Logger) Close() {
	if l.file != nil {
		_ = l.file.Close()
	}
}

func current() *logrus.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger.entry
}

func withFields(fields []map[string]interface{}) *logrus.Entry {
	entry := logrus.NewEntry(current())
	for _, f := range fields {
		entry = entry.WithFields(logrus.Fields(f))
	}
	return entry
}

// Debug 输出debug日志，可附带结构化字段
func Debug(msg string, fields ...map[string]interface{}) {
	withFields(fields).Debug(msg)
}

// Info 输出info日志，可附带结构化字段
func Info(msg string, fields ...map[string]interface{}) {
	withFields(fields).Info(msg)
}

// Warn 输出warn日志，可附带结构化字段
func Warn(msg string, fields ...map[string]interface{}) {
	withFields(fields).Warn(msg)
}

// Error 输出error日志，可附带结构化字段
func Error(msg string, fields ...map[string]interface{}) {
	withFields(fields).Error(msg)
}

func Debugf(format string, args ...interface{}) { current().Debugf(format, args...) }
func Infof(format string, args ...interface{})  { current().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { current().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { current().Errorf(format, args...) }

// Fatal 输出fatal日志并退出进程
func Fatal(msg string) {
	current().Fatal(msg)
}

// Fatalf 输出fatal日志并退出进程
func Fatalf(format string, args ...interface{}) {
	current().Fatal(fmt.Sprintf(format, args...))
}
