package logx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// PrettyHandler 面向人读的单行输出：时间 等级 消息 k=v...
type PrettyHandler struct {
	w      io.Writer
	level  slog.Leveler
	zh     bool
	color  bool
	mu     *sync.Mutex
	attrs  []slog.Attr
	prefix string
}

// NewPrettyHandler 创建 Handler；locale 以 zh 开头时使用中文标签（默认中文）。
func NewPrettyHandler(w io.Writer, lv slog.Leveler, locale, colorMode string) *PrettyHandler {
	if w == nil {
		w = os.Stdout
	}
	if lv == nil {
		lv = slog.LevelInfo
	}
	loc := strings.ToLower(strings.TrimSpace(locale))
	return &PrettyHandler{
		w:     w,
		level: lv,
		zh:    loc == "" || strings.HasPrefix(loc, "zh"),
		color: shouldColor(w, colorMode),
		mu:    &sync.Mutex{},
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, l slog.Level) bool {
	min := h.level.Level()
	return min < levelOff && l >= min
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	buf.WriteString(ts.Format("2006-01-02 15:04:05"))
	buf.WriteByte(' ')
	lbl := h.label(r.Level)
	if h.color {
		lbl = colorize(lbl, r.Level)
	}
	buf.WriteString(lbl)
	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	for _, a := range h.attrs {
		writeAttr(&buf, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&buf, h.prefix, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	cp.attrs = append(cp.attrs, h.attrs...)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		cp.attrs = append(cp.attrs, a)
	}
	return &cp
}

// WithGroup 以 "group." 前缀展开后续属性。
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	cp := *h
	cp.prefix = h.prefix + name + "."
	return &cp
}

func writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, g := range a.Value.Group() {
			writeAttr(buf, prefix+a.Key+".", g)
		}
		return
	}
	buf.WriteByte(' ')
	buf.WriteString(prefix)
	buf.WriteString(a.Key)
	buf.WriteByte('=')
	buf.WriteString(a.Value.Resolve().String())
}

func (h *PrettyHandler) label(l slog.Level) string {
	zh := map[slog.Level]string{slog.LevelDebug: "[调试]", slog.LevelInfo: "[信息]", slog.LevelWarn: "[警告]", slog.LevelError: "[错误]"}
	en := map[slog.Level]string{slog.LevelDebug: "[DEBUG]", slog.LevelInfo: "[INFO]", slog.LevelWarn: "[WARN]", slog.LevelError: "[ERROR]"}
	m := en
	if h.zh {
		m = zh
	}
	if s, ok := m[l]; ok {
		return s
	}
	return fmt.Sprintf("[L%d]", l)
}

// shouldColor 遵循 LOG_COLOR 与 NO_COLOR；auto 时仅对终端启用。
func shouldColor(w io.Writer, mode string) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "always":
		return true
	case "auto", "":
		if f, ok := w.(*os.File); ok {
			if fi, err := f.Stat(); err == nil {
				return fi.Mode()&os.ModeCharDevice != 0
			}
		}
	}
	return false
}

func colorize(s string, l slog.Level) string {
	var code string
	switch {
	case l >= slog.LevelError:
		code = "31"
	case l >= slog.LevelWarn:
		code = "33"
	case l >= slog.LevelInfo:
		code = "36"
	default:
		code = "90"
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}
