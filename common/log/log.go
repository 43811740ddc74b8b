package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// 未调用 InitLog 时也可直接使用，默认 info 级别
var logger = newLogger(os.Stdout, "mahjong")

func newLogger(w io.Writer, appName string) *log.Logger {
	l := log.New(w)
	l.SetPrefix(appName)
	l.SetReportTimestamp(true)
	l.SetTimeFormat(time.DateTime)
	l.SetReportCaller(true)
	// 调用点在本包的包装函数里，跳过一层才能显示真实文件名
	l.SetCallerOffset(1)
	l.SetLevel(log.InfoLevel)
	return l
}

// InitLog 输出到 stdout，GoLand 控制台里 stderr 会整片标红
func InitLog(appName string, logLevel string) {
	logger = newLogger(os.Stdout, appName)
	SetLevel(logLevel)
}

// SetLevel 配置热更新时调用，未知级别按 info 处理
func SetLevel(logLevel string) {
	logger.SetLevel(parseLevel(logLevel))
}

// SetOutput 测试里重定向日志
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func parseLevel(logLevel string) log.Level {
	switch strings.ToLower(strings.TrimSpace(logLevel)) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func Fatal(format string, args ...any) {
	if len(args) == 0 {
		logger.Fatal(format)
	} else {
		logger.Fatalf(format, args...)
	}
}

func Info(format string, args ...any) {
	if len(args) == 0 {
		logger.Info(format)
	} else {
		logger.Infof(format, args...)
	}
}

func Warn(format string, args ...any) {
	if len(args) == 0 {
		logger.Warn(format)
	} else {
		logger.Warnf(format, args...)
	}
}

func Error(format string, args ...any) {
	if len(args) == 0 {
		logger.Error(format)
	} else {
		logger.Errorf(format, args...)
	}
}

func Debug(format string, args ...any) {
	if len(args) == 0 {
		logger.Debug(format)
	} else {
		logger.Debugf(format, args...)
	}
}
