// 包 logx 是对标准库 slog 的薄封装：
// - 支持级别/格式/语言/颜色配置（pretty|json|text）
// - pretty 格式按语言输出 [信息]/[INFO] 等标签，可选 ANSI 彩色
// - 通过 Debugf/Infof/Warnf/Errorf 与 Event 暴露，业务层不直接依赖 slog
package logx

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// levelOff 高于所有级别，用于完全静默。
const levelOff slog.Level = 100

// Options 为日志初始化参数；Writer 为空时输出到 os.Stdout。
type Options struct {
	Level  string
	Format string // pretty|json|text
	Locale string // zh-CN|en
	Color  string // auto|always|never
	Writer io.Writer
}

// Init 根据 Options 构建 Handler 并设置为全局默认日志器。
func Init(o Options) *slog.Logger {
	w := o.Writer
	if w == nil {
		w = os.Stdout
	}
	lv := ParseLevel(o.Level)
	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(o.Format)) {
	case "json":
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lv})
	case "text":
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv})
	default:
		h = NewPrettyHandler(w, lv, o.Locale, o.Color)
	}
	l := slog.New(h)
	slog.SetDefault(l)
	return l
}

// ParseLevel 将字符串级别解析为 slog.Level；未知值按 info 处理。
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none", "silent", "off":
		return levelOff
	default:
		return slog.LevelInfo
	}
}

func Debugf(format string, v ...any) { slog.Debug(fmt.Sprintf(format, v...)) }
func Infof(format string, v ...any)  { slog.Info(fmt.Sprintf(format, v...)) }
func Warnf(format string, v ...any)  { slog.Warn(fmt.Sprintf(format, v...)) }
func Errorf(format string, v ...any) { slog.Error(fmt.Sprintf(format, v...)) }

// Event 以结构化属性记录一条信息日志，例如 Event("文档已保存", "source", "admin")。
func Event(msg string, kv ...any) { slog.Info(msg, kv...) }

// Debug/Warn 为带结构化属性的对应级别日志。
func Debug(msg string, kv ...any) { slog.Debug(msg, kv...) }
func Warn(msg string, kv ...any)  { slog.Warn(msg, kv...) }
